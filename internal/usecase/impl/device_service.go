package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "daansetu/internal/delivery/context"
	"daansetu/internal/domain/entity"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/domain/repository"
	"daansetu/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// deviceService implements the DeviceUsecase interface.
type deviceService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewDeviceService is the constructor for deviceService.
func NewDeviceService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.DeviceUsecase {
	return &deviceService{
		txManager: txManager,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *deviceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterDevice registers a device or replaces the push token of an existing
// registration for the same device. One row per (user, device) pair; a new
// token overwrites the old one.
func (srv *deviceService) RegisterDevice(ctx context.Context, input *usecase.RegisterDeviceInput) (*entity.UserDevice, error) {
	srv.log(ctx).Info("Registering device", slog.Any("user_id", input.UserID), slog.String("device_id", input.DeviceID))

	if input.DeviceID == "" || input.FCMToken == "" {
		return nil, errors.Wrap(domainerrors.ErrInvalidArgument, "device_id and fcm_token are required")
	}

	var device *entity.UserDevice

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		existing, err := repoFactory.DeviceRepo().FindByUserAndDeviceID(ctx, input.UserID, input.DeviceID)
		if err != nil {
			if !errors.Is(err, repository.ErrDeviceNotFound) {
				return errors.Wrap(err, "failed to find device")
			}

			now := time.Now()
			device = &entity.UserDevice{
				ID:        uuid.New(),
				UserID:    input.UserID,
				DeviceID:  input.DeviceID,
				FCMToken:  input.FCMToken,
				Platform:  input.Platform,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}

			return errors.Wrap(repoFactory.DeviceRepo().Create(ctx, device), "failed to create device")
		}

		if err := repoFactory.DeviceRepo().UpdateToken(ctx, existing.ID, input.FCMToken); err != nil {
			return errors.Wrap(err, "failed to update device token")
		}
		existing.FCMToken = input.FCMToken
		existing.IsActive = true
		existing.UpdatedAt = time.Now()
		device = existing

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to register device", slog.Any("error", err), slog.Any("user_id", input.UserID))

		return nil, errors.Wrap(err, "failed to register device")
	}
	srv.log(ctx).Info("Successfully registered device", slog.Any("user_id", input.UserID), slog.Any("device_id", device.ID))

	return device, nil
}

// GetUserDevices retrieves all active device registrations for a user.
func (srv *deviceService) GetUserDevices(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	var devices []*entity.UserDevice

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.DeviceRepo().FindActiveByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to find devices")
		}
		devices = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to get user devices", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, errors.Wrap(err, "failed to get user devices")
	}

	return devices, nil
}

// DeactivateDevice deactivates one of the user's device registrations.
func (srv *deviceService) DeactivateDevice(ctx context.Context, userID, deviceID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		devices, err := repoFactory.DeviceRepo().FindActiveByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to find devices")
		}

		for _, device := range devices {
			if device.ID == deviceID {
				return errors.Wrap(repoFactory.DeviceRepo().Deactivate(ctx, deviceID), "failed to deactivate device")
			}
		}

		return errors.Wrap(domainerrors.ErrNotFound, "device not found")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to deactivate device", slog.Any("error", err),
			slog.Any("user_id", userID), slog.Any("device_id", deviceID))

		return errors.Wrap(err, "failed to deactivate device")
	}
	srv.log(ctx).Info("Deactivated device", slog.Any("user_id", userID), slog.Any("device_id", deviceID))

	return nil
}
