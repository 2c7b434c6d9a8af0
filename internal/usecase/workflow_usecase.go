// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
)

// TransitionInput carries one requested status transition.
type TransitionInput struct {
	EntityType entity.EntityType
	EntityID   uuid.UUID
	ActorID    uuid.UUID
	ActorRole  entity.Role
	Target     entity.Status
	Note       string

	// Assignment side-channels. A transition rule may require one of these.
	DealerID    *uuid.UUID
	RecyclerID  *uuid.UUID
	VolunteerID *uuid.UUID
	ShelterID   *uuid.UUID
}

// TransitionResult carries the entity snapshot after a committed transition.
// Exactly one of Donation, Rescue or Task is set, matching EntityType.
type TransitionResult struct {
	EntityType entity.EntityType
	Audit      *entity.AuditEntry
	Donation   *entity.Donation
	Rescue     *entity.RescueRequest
	Task       *entity.VolunteerTask
}

// CreateDonationInput carries the fields for a new donation.
type CreateDonationInput struct {
	DonorID     uuid.UUID
	Category    string
	Description string
	WeightKg    float64
	PickupAt    time.Time
}

// CreateRescueInput carries the fields for a new rescue request.
type CreateRescueInput struct {
	DonorID    uuid.UUID
	AnimalType string
	Condition  string
	Address    string
	PickupAt   time.Time
}

// CreateTaskInput carries the fields for a new volunteer task.
type CreateTaskInput struct {
	CreatedBy uuid.UUID
	Title     string
	Details   string
	DueAt     time.Time
}

// WorkflowUsecase defines the interface for workflow entity management.
type WorkflowUsecase interface {
	// CreateDonation registers a new donation in its initial status.
	CreateDonation(ctx context.Context, input *CreateDonationInput) (*entity.Donation, error)

	// CreateRescue registers a new rescue request in its initial status.
	CreateRescue(ctx context.Context, input *CreateRescueInput) (*entity.RescueRequest, error)

	// CreateTask registers a new volunteer task in its initial status.
	CreateTask(ctx context.Context, input *CreateTaskInput) (*entity.VolunteerTask, error)

	// GetDonation retrieves a donation with its full history.
	GetDonation(ctx context.Context, id uuid.UUID) (*entity.Donation, error)

	// GetRescue retrieves a rescue request with its full history.
	GetRescue(ctx context.Context, id uuid.UUID) (*entity.RescueRequest, error)

	// GetTask retrieves a task with its full history.
	GetTask(ctx context.Context, id uuid.UUID) (*entity.VolunteerTask, error)

	// AttemptTransition validates and applies one status transition atomically.
	// On success the transition event has already been handed to the dispatch
	// pipeline.
	AttemptTransition(ctx context.Context, input *TransitionInput) (*TransitionResult, error)
}
