// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a participant in the workflows. Credential storage and password
// handling live with the external identity provider; this record only
// carries what the workflow and notification engines need.
type User struct {
	ID            uuid.UUID `json:"id"`             // The unique ID of the user.
	Name          string    `json:"name"`           // Display name used in notification messages.
	Email         string    `json:"email"`          // Contact email.
	Phone         string    `json:"phone"`          // Contact phone number.
	Roles         Roles     `json:"roles"`          // Roles the user may act under.
	NotifyEnabled bool      `json:"notify_enabled"` // Per-recipient opt-out for push channels.
	CreatedAt     time.Time `json:"created_at"`     // Timestamp of when this record was created.
	UpdatedAt     time.Time `json:"updated_at"`     // Timestamp of the last modification.
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	return u.Roles.Contains(role)
}
