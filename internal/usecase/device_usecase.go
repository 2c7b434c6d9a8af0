package usecase

import (
	"context"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterDeviceInput carries the fields for registering a push device.
type RegisterDeviceInput struct {
	UserID   uuid.UUID
	DeviceID string
	FCMToken string
	Platform string
}

// DeviceUsecase defines the interface for push device management.
type DeviceUsecase interface {
	// RegisterDevice registers a device or replaces the push token of an
	// existing registration for the same device.
	RegisterDevice(ctx context.Context, input *RegisterDeviceInput) (*entity.UserDevice, error)

	// GetUserDevices retrieves all active device registrations for a user.
	GetUserDevices(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)

	// DeactivateDevice deactivates one of the user's device registrations.
	DeactivateDevice(ctx context.Context, userID, deviceID uuid.UUID) error
}
