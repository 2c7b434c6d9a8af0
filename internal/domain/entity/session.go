// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session represents a signed-in device. At most one session per user is
// active at any time: creating a new session is itself the mechanism that
// deactivates all prior ones. A session only ever moves active -> inactive,
// never back.
type Session struct {
	ID             uuid.UUID `json:"id"`               // The unique ID of the session.
	UserID         uuid.UUID `json:"user_id"`          // The user this session belongs to.
	TokenHash      string    `json:"-"`                // SHA-256 hash of the access token, for lookup.
	DeviceID       string    `json:"device_id"`        // Client-supplied identifier of the physical device.
	IPAddress      string    `json:"ip_address"`       // Remote address observed at sign-in.
	LoginAt        time.Time `json:"login_at"`         // Timestamp of sign-in.
	LastActivityAt time.Time `json:"last_activity_at"` // Timestamp of the last validated request.
	ExpiresAt      time.Time `json:"expires_at"`       // Fixed retention deadline, independent of activity.
	IsActive       bool      `json:"is_active"`        // Whether the session is still usable.
}

// Expired reports whether the session is past its retention window.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
