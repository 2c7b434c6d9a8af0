// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for session persistence.
var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
)

// SessionRepository defines the interface for session-related database operations.
type SessionRepository interface {
	// Create persists a new session record.
	Create(ctx context.Context, session *entity.Session) error

	// FindByTokenHash retrieves a session by the hash of its access token.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error)

	// DeactivateAllForUser marks every active session of the user inactive in a
	// single statement.
	DeactivateAllForUser(ctx context.Context, userID uuid.UUID) error

	// DeactivateByTokenHash marks the session with the given token hash
	// inactive. Missing or already-inactive sessions are not an error.
	DeactivateByTokenHash(ctx context.Context, tokenHash string) error

	// TouchActivity updates the session's last-activity timestamp.
	TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error

	// CountActiveByUser returns the number of active sessions for a user.
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// DeleteExpired removes sessions that expired before the cutoff and returns
	// the number of rows deleted.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
