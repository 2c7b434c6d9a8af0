package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"daansetu/internal/domain/entity"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/domain/repository"
	mockRepo "daansetu/internal/mocks/repository"
	"daansetu/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// deviceServiceFixtures holds all test dependencies for device service tests.
type deviceServiceFixtures struct {
	service usecase.DeviceUsecase
	factory *mockRepo.MockRepositoryFactory
}

func createTestDeviceService(t *testing.T) deviceServiceFixtures {
	factory := mockRepo.NewMockRepositoryFactory(t)
	txManager := &mockRepo.MockTransactionManager{Factory: factory}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewDeviceService(txManager, logger)

	return deviceServiceFixtures{
		service: service,
		factory: factory,
	}
}

func TestDeviceService_RegisterDevice_New(t *testing.T) {
	fx := createTestDeviceService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.factory.Devices.On("FindByUserAndDeviceID", ctx, userID, "iphone-15").
		Return(nil, repository.ErrDeviceNotFound)
	fx.factory.Devices.On("Create", ctx, mock.AnythingOfType("*entity.UserDevice")).Return(nil)

	device, err := fx.service.RegisterDevice(ctx, &usecase.RegisterDeviceInput{
		UserID:   userID,
		DeviceID: "iphone-15",
		FCMToken: "fcm-token-9",
		Platform: "ios",
	})

	require.NoError(t, err)
	assert.Equal(t, userID, device.UserID)
	assert.Equal(t, "iphone-15", device.DeviceID)
	assert.Equal(t, "fcm-token-9", device.FCMToken)
	assert.True(t, device.IsActive)
}

func TestDeviceService_RegisterDevice_ExistingUpdatesToken(t *testing.T) {
	fx := createTestDeviceService(t)

	ctx := context.Background()
	userID := uuid.New()
	existing := &entity.UserDevice{
		ID:        uuid.New(),
		UserID:    userID,
		DeviceID:  "iphone-15",
		FCMToken:  "old-token",
		Platform:  "ios",
		IsActive:  false,
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}

	fx.factory.Devices.On("FindByUserAndDeviceID", ctx, userID, "iphone-15").Return(existing, nil)
	fx.factory.Devices.On("UpdateToken", ctx, existing.ID, "new-token").Return(nil)

	device, err := fx.service.RegisterDevice(ctx, &usecase.RegisterDeviceInput{
		UserID:   userID,
		DeviceID: "iphone-15",
		FCMToken: "new-token",
		Platform: "ios",
	})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, device.ID)
	assert.Equal(t, "new-token", device.FCMToken)
	assert.True(t, device.IsActive)
}

func TestDeviceService_RegisterDevice_MissingFields(t *testing.T) {
	fx := createTestDeviceService(t)

	ctx := context.Background()

	device, err := fx.service.RegisterDevice(ctx, &usecase.RegisterDeviceInput{
		UserID:   uuid.New(),
		DeviceID: "",
		FCMToken: "token",
	})

	require.Error(t, err)
	assert.Nil(t, device)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidArgument))
}

func TestDeviceService_GetUserDevices(t *testing.T) {
	fx := createTestDeviceService(t)

	ctx := context.Background()
	userID := uuid.New()
	expected := []*entity.UserDevice{
		{ID: uuid.New(), UserID: userID, DeviceID: "a", IsActive: true},
		{ID: uuid.New(), UserID: userID, DeviceID: "b", IsActive: true},
	}

	fx.factory.Devices.On("FindActiveByUser", ctx, userID).Return(expected, nil)

	devices, err := fx.service.GetUserDevices(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, expected, devices)
}

func TestDeviceService_DeactivateDevice_Success(t *testing.T) {
	fx := createTestDeviceService(t)

	ctx := context.Background()
	userID := uuid.New()
	deviceID := uuid.New()

	fx.factory.Devices.On("FindActiveByUser", ctx, userID).Return([]*entity.UserDevice{
		{ID: deviceID, UserID: userID, DeviceID: "pixel-7", IsActive: true},
	}, nil)
	fx.factory.Devices.On("Deactivate", ctx, deviceID).Return(nil)

	require.NoError(t, fx.service.DeactivateDevice(ctx, userID, deviceID))
}

func TestDeviceService_DeactivateDevice_NotOwned(t *testing.T) {
	fx := createTestDeviceService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.factory.Devices.On("FindActiveByUser", ctx, userID).Return([]*entity.UserDevice{
		{ID: uuid.New(), UserID: userID, DeviceID: "other", IsActive: true},
	}, nil)

	err := fx.service.DeactivateDevice(ctx, userID, uuid.New())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	fx.factory.Devices.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
}
