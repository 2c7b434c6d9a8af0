package service

import (
	"context"
	"time"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
)

// TransitionEvent describes one committed workflow transition. It is the
// payload handed to the notification dispatch pipeline after the transaction
// commits.
type TransitionEvent struct {
	RequestID  string            `json:"request_id"`
	EntityType entity.EntityType `json:"entity_type"`
	EntityID   uuid.UUID         `json:"entity_id"`
	Action     string            `json:"action"`
	FromStatus entity.Status     `json:"from_status"`
	ToStatus   entity.Status     `json:"to_status"`
	ActorID    uuid.UUID         `json:"actor_id"`
	ActorRole  entity.Role       `json:"actor_role"`
	Note       string            `json:"note,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// EventPublisher hands committed transition events to the dispatch pipeline.
// Implementations must not block the caller on delivery.
type EventPublisher interface {
	PublishTransitionEvent(ctx context.Context, event *TransitionEvent) error
	Close() error
}
