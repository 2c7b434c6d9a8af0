// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for notification persistence.
var (
	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = errors.New("notification not found")
)

// NotificationRepository defines the interface for notification-related database operations.
type NotificationRepository interface {
	// Create persists a new notification for its recipient, unread.
	Create(ctx context.Context, notification *entity.Notification) error

	// FindByID retrieves a notification by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)

	// FindByRecipient retrieves notifications for a recipient, newest first.
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*entity.Notification, error)

	// CountUnread returns the number of unread notifications for a recipient.
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)

	// MarkRead flips a notification to read.
	MarkRead(ctx context.Context, id uuid.UUID) error

	// DeleteByRecipient removes all notifications belonging to a recipient.
	DeleteByRecipient(ctx context.Context, recipientID uuid.UUID) error
}
