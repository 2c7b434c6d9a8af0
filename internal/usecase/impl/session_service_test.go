package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"daansetu/config"
	"daansetu/internal/domain/entity"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/domain/repository"
	"daansetu/internal/domain/service"
	mockRepo "daansetu/internal/mocks/repository"
	mockSvc "daansetu/internal/mocks/service"
	"daansetu/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// sessionServiceFixtures holds all test dependencies for session service tests.
type sessionServiceFixtures struct {
	service  usecase.SessionUsecase
	factory  *mockRepo.MockRepositoryFactory
	tokenSvc *mockSvc.MockTokenService
	cfg      *config.Config
}

func createTestSessionService(t *testing.T) sessionServiceFixtures {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			AccessTokenTTL:   time.Hour,
			SessionRetention: 30 * 24 * time.Hour,
		},
	}
	factory := mockRepo.NewMockRepositoryFactory(t)
	txManager := &mockRepo.MockTransactionManager{Factory: factory}
	tokenSvc := mockSvc.NewMockTokenService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewSessionService(cfg, txManager, tokenSvc, logger)

	return sessionServiceFixtures{
		service:  service,
		factory:  factory,
		tokenSvc: tokenSvc,
		cfg:      cfg,
	}
}

func TestSessionService_SignIn_SupersedesPreviousSessions(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{
		ID:    userID,
		Name:  "Asha",
		Roles: entity.Roles{entity.RoleDonor},
	}

	fx.factory.Users.On("FindByID", ctx, userID).Return(user, nil)
	fx.tokenSvc.On("GenerateAccessToken", userID, user.Roles).Return("token-abc", nil)
	fx.factory.Sessions.On("DeactivateAllForUser", ctx, userID).Return(nil)

	var created *entity.Session
	fx.factory.Sessions.On("Create", ctx, mock.AnythingOfType("*entity.Session")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*entity.Session)
		}).
		Return(nil)

	result, err := fx.service.SignIn(ctx, userID, &usecase.DeviceContext{IPAddress: "10.0.0.7"})

	require.NoError(t, err)
	assert.Equal(t, "token-abc", result.AccessToken)

	require.NotNil(t, created)
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, hashToken("token-abc"), created.TokenHash)
	assert.True(t, created.IsActive)
	assert.WithinDuration(t, time.Now().Add(fx.cfg.Auth.AccessTokenTTL), created.ExpiresAt, 5*time.Second)
}

func TestSessionService_SignIn_RegistersDevice(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, Roles: entity.Roles{entity.RoleVolunteer}}

	fx.factory.Users.On("FindByID", ctx, userID).Return(user, nil)
	fx.tokenSvc.On("GenerateAccessToken", userID, user.Roles).Return("token-xyz", nil)
	fx.factory.Sessions.On("DeactivateAllForUser", ctx, userID).Return(nil)
	fx.factory.Sessions.On("Create", ctx, mock.AnythingOfType("*entity.Session")).Return(nil)

	fx.factory.Devices.On("FindByUserAndDeviceID", ctx, userID, "pixel-7").
		Return(nil, repository.ErrDeviceNotFound)

	var registered *entity.UserDevice
	fx.factory.Devices.On("Create", ctx, mock.AnythingOfType("*entity.UserDevice")).
		Run(func(args mock.Arguments) {
			registered = args.Get(1).(*entity.UserDevice)
		}).
		Return(nil)

	_, err := fx.service.SignIn(ctx, userID, &usecase.DeviceContext{
		DeviceID: "pixel-7",
		Platform: "android",
		FCMToken: "fcm-token-1",
	})

	require.NoError(t, err)
	require.NotNil(t, registered)
	assert.Equal(t, "pixel-7", registered.DeviceID)
	assert.Equal(t, "fcm-token-1", registered.FCMToken)
	assert.True(t, registered.IsActive)
}

func TestSessionService_SignIn_UserNotFound(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.factory.Users.On("FindByID", ctx, userID).Return(nil, repository.ErrUserNotFound)

	result, err := fx.service.SignIn(ctx, userID, &usecase.DeviceContext{})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestSessionService_Validate_Success(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	userID := uuid.New()
	sessionID := uuid.New()
	token := "valid-token"

	fx.tokenSvc.On("ValidateToken", token).Return(&service.TokenClaims{
		UserID:    userID,
		Roles:     entity.Roles{entity.RoleDealer},
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	fx.factory.Sessions.On("FindByTokenHash", ctx, hashToken(token)).Return(&entity.Session{
		ID:        sessionID,
		UserID:    userID,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().Add(time.Hour),
		IsActive:  true,
	}, nil)
	fx.factory.Sessions.On("TouchActivity", ctx, sessionID, mock.AnythingOfType("time.Time")).Return(nil)

	authUser, err := fx.service.Validate(ctx, token)

	require.NoError(t, err)
	assert.Equal(t, userID, authUser.UserID)
	assert.Equal(t, sessionID, authUser.SessionID)
	assert.True(t, authUser.Roles.Contains(entity.RoleDealer))
}

func TestSessionService_Validate_SupersededSession(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	token := "stale-token"

	fx.tokenSvc.On("ValidateToken", token).Return(&service.TokenClaims{
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	fx.factory.Sessions.On("FindByTokenHash", ctx, hashToken(token)).Return(&entity.Session{
		ID:        uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
		IsActive:  false,
	}, nil)

	authUser, err := fx.service.Validate(ctx, token)

	require.Error(t, err)
	assert.Nil(t, authUser)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))
}

func TestSessionService_Validate_ExpiredSession(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	token := "old-token"

	fx.tokenSvc.On("ValidateToken", token).Return(&service.TokenClaims{
		UserID: uuid.New(),
	}, nil)
	fx.factory.Sessions.On("FindByTokenHash", ctx, hashToken(token)).Return(&entity.Session{
		ID:        uuid.New(),
		ExpiresAt: time.Now().Add(-time.Minute),
		IsActive:  true,
	}, nil)

	authUser, err := fx.service.Validate(ctx, token)

	require.Error(t, err)
	assert.Nil(t, authUser)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))
}

func TestSessionService_Validate_BadToken(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()

	fx.tokenSvc.On("ValidateToken", "garbage").Return(nil, errors.New("failed to parse token structure"))

	authUser, err := fx.service.Validate(ctx, "garbage")

	require.Error(t, err)
	assert.Nil(t, authUser)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))
}

func TestSessionService_SignOut_Idempotent(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	token := "some-token"

	fx.factory.Sessions.On("DeactivateByTokenHash", ctx, hashToken(token)).Return(nil).Times(2)

	require.NoError(t, fx.service.SignOut(ctx, token))
	require.NoError(t, fx.service.SignOut(ctx, token))
}

func TestSessionService_CleanupExpiredSessions(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()

	var cutoff time.Time
	fx.factory.Sessions.On("DeleteExpired", ctx, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			cutoff = args.Get(1).(time.Time)
		}).
		Return(int64(3), nil)

	deleted, err := fx.service.CleanupExpiredSessions(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.WithinDuration(t, time.Now().Add(-fx.cfg.Auth.SessionRetention), cutoff, 5*time.Second)
}
