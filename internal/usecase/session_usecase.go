package usecase

import (
	"context"
	"time"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
)

// DeviceContext describes the device a user signs in from.
type DeviceContext struct {
	DeviceID  string
	IPAddress string
	Platform  string
	FCMToken  string
}

// SignInResult carries the issued token and its session record.
type SignInResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Session     *entity.Session
}

// AuthenticatedUser is the identity attached to a validated request.
type AuthenticatedUser struct {
	UserID    uuid.UUID
	Roles     entity.Roles
	SessionID uuid.UUID
}

// SessionUsecase defines the interface for session management operations.
type SessionUsecase interface {
	// SignIn issues a fresh access token for the user, deactivating every
	// previous session. At most one session per user is active.
	SignIn(ctx context.Context, userID uuid.UUID, device *DeviceContext) (*SignInResult, error)

	// Validate checks an access token against its stored session and returns
	// the authenticated identity.
	Validate(ctx context.Context, accessToken string) (*AuthenticatedUser, error)

	// SignOut deactivates the session behind the token. Idempotent.
	SignOut(ctx context.Context, accessToken string) error

	// CleanupExpiredSessions removes sessions past the retention window and
	// returns the number deleted.
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}
