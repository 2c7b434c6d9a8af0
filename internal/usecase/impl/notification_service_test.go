package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"daansetu/config"
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

// notificationServiceFixtures holds all test dependencies for notification service tests.
type notificationServiceFixtures struct {
	service usecase.NotificationUsecase
	factory *mockRepo.MockRepositoryFactory
}

func createTestNotificationService(t *testing.T) notificationServiceFixtures {
	factory := mockRepo.NewMockRepositoryFactory(t)
	txManager := &mockRepo.MockTransactionManager{Factory: factory}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewNotificationService(&config.Config{}, txManager, logger)

	return notificationServiceFixtures{
		service: service,
		factory: factory,
	}
}

func TestNotificationService_ListNotifications_DefaultsAndClampsPaging(t *testing.T) {
	recipientID := uuid.New()
	ctx := context.Background()

	tests := []struct {
		name          string
		limit         int
		offset        int
		expectedLimit int
		expectedOff   int
	}{
		{name: "zero limit uses default", limit: 0, offset: 0, expectedLimit: 20, expectedOff: 0},
		{name: "oversized limit is clamped", limit: 1000, offset: 10, expectedLimit: 100, expectedOff: 10},
		{name: "negative offset is reset", limit: 5, offset: -3, expectedLimit: 5, expectedOff: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestNotificationService(t)

			fx.factory.Notifications.On("FindByRecipient", ctx, recipientID, tt.expectedLimit, tt.expectedOff).
				Return([]*entity.Notification{}, nil)

			_, err := fx.service.ListNotifications(ctx, recipientID, tt.limit, tt.offset)
			require.NoError(t, err)
		})
	}
}

func TestNotificationService_ListNotifications_ConfiguredPageSize(t *testing.T) {
	factory := mockRepo.NewMockRepositoryFactory(t)
	txManager := &mockRepo.MockTransactionManager{Factory: factory}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{Notification: &config.NotificationConfig{PageSize: 50}}
	service := NewNotificationService(cfg, txManager, logger)

	ctx := context.Background()
	recipientID := uuid.New()

	factory.Notifications.On("FindByRecipient", ctx, recipientID, 50, 0).
		Return([]*entity.Notification{}, nil)

	_, err := service.ListNotifications(ctx, recipientID, 0, 0)
	require.NoError(t, err)
}

func TestNotificationService_UnreadCount(t *testing.T) {
	fx := createTestNotificationService(t)

	ctx := context.Background()
	recipientID := uuid.New()

	fx.factory.Notifications.On("CountUnread", ctx, recipientID).Return(int64(7), nil)

	count, err := fx.service.UnreadCount(ctx, recipientID)

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestNotificationService_MarkRead_Success(t *testing.T) {
	fx := createTestNotificationService(t)

	ctx := context.Background()
	recipientID := uuid.New()
	notificationID := uuid.New()

	fx.factory.Notifications.On("FindByID", ctx, notificationID).Return(&entity.Notification{
		ID:          notificationID,
		RecipientID: recipientID,
	}, nil)
	fx.factory.Notifications.On("MarkRead", ctx, notificationID).Return(nil)

	require.NoError(t, fx.service.MarkRead(ctx, recipientID, notificationID))
}

func TestNotificationService_MarkRead_WrongRecipient(t *testing.T) {
	fx := createTestNotificationService(t)

	ctx := context.Background()
	notificationID := uuid.New()

	fx.factory.Notifications.On("FindByID", ctx, notificationID).Return(&entity.Notification{
		ID:          notificationID,
		RecipientID: uuid.New(),
	}, nil)

	err := fx.service.MarkRead(ctx, uuid.New(), notificationID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	fx.factory.Notifications.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestNotificationService_MarkRead_AlreadyRead(t *testing.T) {
	fx := createTestNotificationService(t)

	ctx := context.Background()
	recipientID := uuid.New()
	notificationID := uuid.New()

	fx.factory.Notifications.On("FindByID", ctx, notificationID).Return(&entity.Notification{
		ID:          notificationID,
		RecipientID: recipientID,
		IsRead:      true,
	}, nil)

	require.NoError(t, fx.service.MarkRead(ctx, recipientID, notificationID))
	fx.factory.Notifications.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestNotificationService_MarkRead_NotFound(t *testing.T) {
	fx := createTestNotificationService(t)

	ctx := context.Background()
	notificationID := uuid.New()

	fx.factory.Notifications.On("FindByID", ctx, notificationID).
		Return(nil, repository.ErrNotificationNotFound)

	err := fx.service.MarkRead(ctx, uuid.New(), notificationID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestNotificationService_NotificationsEnabled(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		enabled bool
	}{
		{name: "opted in", enabled: true},
		{name: "opted out", enabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestNotificationService(t)
			userID := uuid.New()

			fx.factory.Users.On("FindByID", ctx, userID).Return(&entity.User{
				ID:            userID,
				NotifyEnabled: tt.enabled,
			}, nil)

			enabled, err := fx.service.NotificationsEnabled(ctx, userID)

			require.NoError(t, err)
			assert.Equal(t, tt.enabled, enabled)
		})
	}
}

func TestNotificationService_NotificationsEnabled_UnknownUser(t *testing.T) {
	fx := createTestNotificationService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.factory.Users.On("FindByID", ctx, userID).Return(nil, repository.ErrUserNotFound)

	enabled, err := fx.service.NotificationsEnabled(ctx, userID)

	require.Error(t, err)
	assert.False(t, enabled)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestNotificationService_ClearAll(t *testing.T) {
	fx := createTestNotificationService(t)

	ctx := context.Background()
	recipientID := uuid.New()

	fx.factory.Notifications.On("DeleteByRecipient", ctx, recipientID).Return(nil)

	require.NoError(t, fx.service.ClearAll(ctx, recipientID))
}
