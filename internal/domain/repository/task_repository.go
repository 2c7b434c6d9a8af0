// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
)

// TaskRepository defines the interface for volunteer-task database operations.
type TaskRepository interface {
	// Create persists a new task in its initial status.
	Create(ctx context.Context, task *entity.VolunteerTask) error

	// FindByID retrieves a task with its full history, oldest entry first.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.VolunteerTask, error)

	// FindByVolunteer retrieves tasks assigned to a volunteer, newest first.
	FindByVolunteer(ctx context.Context, volunteerID uuid.UUID, limit, offset int) ([]*entity.VolunteerTask, error)

	// UpdateStatusCAS performs the conditional status update keyed on fromStatus.
	// Returns ErrStatusConflict when no row matched.
	UpdateStatusCAS(ctx context.Context, id uuid.UUID, fromStatus, toStatus entity.Status, assign StatusAssignments) error

	// AppendHistory appends one audit entry to the task's history.
	AppendHistory(ctx context.Context, entry *entity.AuditEntry) error
}
