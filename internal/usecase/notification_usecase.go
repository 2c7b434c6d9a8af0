package usecase

import (
	"context"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
)

// NotificationUsecase defines the interface for the recipient-facing
// notification inbox.
type NotificationUsecase interface {
	// ListNotifications retrieves a recipient's notifications, newest first.
	ListNotifications(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*entity.Notification, error)

	// UnreadCount returns the number of unread notifications for a recipient.
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)

	// MarkRead marks one notification as read. Only the recipient may do so.
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error

	// ClearAll removes every notification belonging to a recipient.
	ClearAll(ctx context.Context, recipientID uuid.UUID) error

	// NotificationsEnabled reports whether the user has notifications turned
	// on. Live channels consult it when a connection is registered.
	NotificationsEnabled(ctx context.Context, userID uuid.UUID) (bool, error)
}
