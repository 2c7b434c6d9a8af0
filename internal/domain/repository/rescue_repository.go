// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
)

// RescueRepository defines the interface for rescue-request database operations.
type RescueRepository interface {
	// Create persists a new rescue request in its initial status.
	Create(ctx context.Context, rescue *entity.RescueRequest) error

	// FindByID retrieves a rescue request with its full history, oldest entry first.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RescueRequest, error)

	// FindByDonor retrieves rescue requests submitted by a donor, newest first.
	FindByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*entity.RescueRequest, error)

	// UpdateStatusCAS performs the conditional status update keyed on fromStatus.
	// Returns ErrStatusConflict when no row matched.
	UpdateStatusCAS(ctx context.Context, id uuid.UUID, fromStatus, toStatus entity.Status, assign StatusAssignments) error

	// AppendHistory appends one audit entry to the rescue request's history.
	AppendHistory(ctx context.Context, entry *entity.AuditEntry) error
}
