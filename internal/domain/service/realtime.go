package service

import (
	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
)

// RealtimePublisher pushes notifications to a recipient's live connections.
// Publishing to a recipient with no open connection is a silent no-op.
type RealtimePublisher interface {
	Publish(recipientID uuid.UUID, notification *entity.Notification)
}
