// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for workflow entity persistence.
var (
	// ErrEntityNotFound is returned when a workflow entity is not found.
	ErrEntityNotFound = errors.New("workflow entity not found")
	// ErrStatusConflict is returned when a conditional status update matched no
	// row because the status changed underneath the caller. Retryable.
	ErrStatusConflict = errors.New("entity status changed concurrently")
)

// StatusAssignments carries the assignment edges a transition sets alongside
// the status change. Nil fields are left untouched.
type StatusAssignments struct {
	DealerID    *uuid.UUID
	RecyclerID  *uuid.UUID
	VolunteerID *uuid.UUID
	ShelterID   *uuid.UUID
}

// DonationRepository defines the interface for donation-related database operations.
type DonationRepository interface {
	// Create persists a new donation in its initial status.
	Create(ctx context.Context, donation *entity.Donation) error

	// FindByID retrieves a donation with its full history, oldest entry first.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error)

	// FindByDonor retrieves donations submitted by a donor, newest first.
	FindByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*entity.Donation, error)

	// UpdateStatusCAS performs the conditional status update: the row is only
	// written if its status still equals fromStatus. Returns ErrStatusConflict
	// when no row matched.
	UpdateStatusCAS(ctx context.Context, id uuid.UUID, fromStatus, toStatus entity.Status, assign StatusAssignments) error

	// AppendHistory appends one audit entry to the donation's history.
	AppendHistory(ctx context.Context, entry *entity.AuditEntry) error
}
