// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for device persistence.
var (
	// ErrDeviceNotFound is returned when a device registration is not found.
	ErrDeviceNotFound = errors.New("device not found")
)

// DeviceRepository defines the interface for user-device database operations.
type DeviceRepository interface {
	// Create persists a new device registration.
	Create(ctx context.Context, device *entity.UserDevice) error

	// FindByUserAndDeviceID retrieves the registration for a user's device.
	FindByUserAndDeviceID(ctx context.Context, userID uuid.UUID, deviceID string) (*entity.UserDevice, error)

	// FindActiveByUser retrieves all active device registrations for a user.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)

	// UpdateToken replaces the push token stored for a device.
	UpdateToken(ctx context.Context, id uuid.UUID, fcmToken string) error

	// DeactivateByTokens marks registrations carrying any of the given push
	// tokens inactive. Used to prune tokens the gateway reports as dead.
	DeactivateByTokens(ctx context.Context, tokens []string) error

	// Deactivate marks a single device registration inactive.
	Deactivate(ctx context.Context, id uuid.UUID) error
}
