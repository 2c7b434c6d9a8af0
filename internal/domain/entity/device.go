// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserDevice represents a user's device registered for push notifications.
// Devices are keyed by the client-supplied DeviceID: registering again from
// the same device replaces its token wholesale instead of adding an entry.
type UserDevice struct {
	ID        uuid.UUID `json:"id"`         // The unique ID of the device record.
	UserID    uuid.UUID `json:"user_id"`    // The user who owns this device.
	DeviceID  string    `json:"device_id"`  // Unique device identifier from the client.
	FCMToken  string    `json:"fcm_token"`  // Firebase Cloud Messaging token for push notifications.
	Platform  string    `json:"platform"`   // Device platform (ios, android).
	IsActive  bool      `json:"is_active"`  // Indicates if this device is active for notifications.
	CreatedAt time.Time `json:"created_at"` // Timestamp of when this device was registered.
	UpdatedAt time.Time `json:"updated_at"` // Timestamp of the last modification.
}
