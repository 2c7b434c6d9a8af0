package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"daansetu/config"
	deliverycontext "daansetu/internal/delivery/context"
	"daansetu/internal/domain/entity"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/domain/repository"
	"daansetu/internal/domain/service"
	"daansetu/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// sessionService implements the SessionUsecase interface. A user holds at
// most one active session; signing in supersedes every previous one.
type sessionService struct {
	cfg       *config.Config
	txManager repository.TransactionManager
	tokenSvc  service.TokenService
	logger    *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(
	cfg *config.Config,
	txManager repository.TransactionManager,
	tokenSvc service.TokenService,
	logger *slog.Logger,
) usecase.SessionUsecase {
	return &sessionService{
		cfg:       cfg,
		txManager: txManager,
		tokenSvc:  tokenSvc,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// hashToken stores only a digest of the access token, never the token itself.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

// SignIn issues a fresh access token for the user and deactivates every
// previous session in the same transaction.
func (srv *sessionService) SignIn(ctx context.Context, userID uuid.UUID, device *usecase.DeviceContext) (*usecase.SignInResult, error) {
	srv.log(ctx).Info("Signing in", slog.Any("user_id", userID))

	var result *usecase.SignInResult

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user")
		}

		accessToken, err := srv.tokenSvc.GenerateAccessToken(user.ID, user.Roles)
		if err != nil {
			return errors.Wrap(err, "failed to generate access token")
		}

		now := time.Now()
		session := &entity.Session{
			ID:             uuid.New(),
			UserID:         user.ID,
			TokenHash:      hashToken(accessToken),
			DeviceID:       device.DeviceID,
			IPAddress:      device.IPAddress,
			LoginAt:        now,
			LastActivityAt: now,
			ExpiresAt:      now.Add(srv.cfg.Auth.AccessTokenTTL),
			IsActive:       true,
		}

		// Single-session invariant: deactivate everything first, then insert.
		if err := repoFactory.SessionRepo().DeactivateAllForUser(ctx, user.ID); err != nil {
			return errors.Wrap(err, "failed to deactivate previous sessions")
		}
		if err := repoFactory.SessionRepo().Create(ctx, session); err != nil {
			return errors.Wrap(err, "failed to create session")
		}

		if device.DeviceID != "" && device.FCMToken != "" {
			if err := srv.upsertDevice(ctx, repoFactory, user.ID, device); err != nil {
				return err
			}
		}

		result = &usecase.SignInResult{
			AccessToken: accessToken,
			ExpiresAt:   session.ExpiresAt,
			Session:     session,
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to sign in", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, errors.Wrap(err, "failed to sign in")
	}
	srv.log(ctx).Info("Successfully signed in", slog.Any("user_id", userID), slog.Any("session_id", result.Session.ID))

	return result, nil
}

func (srv *sessionService) upsertDevice(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	userID uuid.UUID,
	device *usecase.DeviceContext,
) error {
	existing, err := repoFactory.DeviceRepo().FindByUserAndDeviceID(ctx, userID, device.DeviceID)
	if err != nil {
		if !errors.Is(err, repository.ErrDeviceNotFound) {
			return errors.Wrap(err, "failed to find device")
		}

		now := time.Now()
		newDevice := &entity.UserDevice{
			ID:        uuid.New(),
			UserID:    userID,
			DeviceID:  device.DeviceID,
			FCMToken:  device.FCMToken,
			Platform:  device.Platform,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}

		return errors.Wrap(repoFactory.DeviceRepo().Create(ctx, newDevice), "failed to register device")
	}

	return errors.Wrap(repoFactory.DeviceRepo().UpdateToken(ctx, existing.ID, device.FCMToken), "failed to update device token")
}

// Validate checks an access token against its stored session.
func (srv *sessionService) Validate(ctx context.Context, accessToken string) (*usecase.AuthenticatedUser, error) {
	claims, err := srv.tokenSvc.ValidateToken(accessToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "invalid access token")
	}

	var authUser *usecase.AuthenticatedUser

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		session, err := repoFactory.SessionRepo().FindByTokenHash(ctx, hashToken(accessToken))
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return errors.Wrap(domainerrors.ErrUnauthenticated, "no session for token")
			}

			return errors.Wrap(err, "failed to find session")
		}

		now := time.Now()
		if !session.IsActive {
			return errors.Wrap(domainerrors.ErrUnauthenticated, "session superseded or signed out")
		}
		if session.Expired(now) {
			return errors.Wrap(domainerrors.ErrUnauthenticated, "session expired")
		}

		if err := repoFactory.SessionRepo().TouchActivity(ctx, session.ID, now); err != nil {
			srv.log(ctx).Warn("Failed to touch session activity", slog.Any("error", err), slog.Any("session_id", session.ID))
		}

		authUser = &usecase.AuthenticatedUser{
			UserID:    claims.UserID,
			Roles:     claims.Roles,
			SessionID: session.ID,
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate session")
	}

	return authUser, nil
}

// SignOut deactivates the session behind the token. Signing out twice, or
// with a token whose session is already gone, succeeds quietly.
func (srv *sessionService) SignOut(ctx context.Context, accessToken string) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return errors.Wrap(
			repoFactory.SessionRepo().DeactivateByTokenHash(ctx, hashToken(accessToken)),
			"failed to deactivate session")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to sign out", slog.Any("error", err))

		return errors.Wrap(err, "failed to sign out")
	}

	return nil
}

// CleanupExpiredSessions removes sessions past the retention window.
func (srv *sessionService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	srv.log(ctx).Info("Cleaning up expired sessions")

	var deleted int64

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cutoff := time.Now().Add(-srv.cfg.Auth.SessionRetention)
		count, err := repoFactory.SessionRepo().DeleteExpired(ctx, cutoff)
		if err != nil {
			return errors.Wrap(err, "failed to delete expired sessions")
		}
		deleted = count

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to cleanup expired sessions", slog.Any("error", err))

		return 0, errors.Wrap(err, "failed to cleanup expired sessions")
	}
	srv.log(ctx).Info("Successfully cleaned up expired sessions", slog.Int64("deleted_count", deleted))

	return deleted, nil
}
