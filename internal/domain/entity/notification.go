// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a persisted, recipient-owned projection of a workflow
// event. It is the durable source of truth for delivery: the realtime and
// mobile channels are best-effort on top of it. It is never reconciled back
// to the entity that produced it.
type Notification struct {
	ID          uuid.UUID  `json:"id"`           // The unique ID of the notification.
	RecipientID uuid.UUID  `json:"recipient_id"` // The user this notification belongs to.
	Type        EntityType `json:"type"`         // The workflow that produced the notification.
	Message     string     `json:"message"`      // Human-readable message for the recipient.
	Link        string     `json:"link"`         // Deep link to the originating entity, e.g. "/donations/{id}".
	IsRead      bool       `json:"is_read"`      // Whether the recipient has read it.
	CreatedAt   time.Time  `json:"created_at"`   // Timestamp of when this record was created.
}
