package service

import (
	"time"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
)

// TokenClaims carries the identity parsed out of an access token.
type TokenClaims struct {
	UserID    uuid.UUID
	Roles     entity.Roles
	ExpiresAt time.Time
}

// TokenService issues and validates access tokens.
type TokenService interface {
	// GenerateAccessToken issues a signed access token for the user.
	GenerateAccessToken(userID uuid.UUID, roles entity.Roles) (string, error)

	// ValidateToken parses and verifies an access token and returns its claims.
	ValidateToken(tokenString string) (*TokenClaims, error)
}
