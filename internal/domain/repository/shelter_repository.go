// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for shelter persistence.
var (
	// ErrShelterNotFound is returned when a shelter is not found.
	ErrShelterNotFound = errors.New("shelter not found")
)

// ShelterRepository defines the interface for shelter-related database operations.
type ShelterRepository interface {
	// Create persists a new shelter.
	Create(ctx context.Context, shelter *entity.Shelter) error

	// FindByID retrieves a shelter by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Shelter, error)
}
