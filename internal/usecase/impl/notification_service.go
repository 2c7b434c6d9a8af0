package impl

import (
	"context"
	"log/slog"

	"daansetu/config"
	deliverycontext "daansetu/internal/delivery/context"
	"daansetu/internal/domain/entity"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/domain/repository"
	"daansetu/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultNotificationPageSize = 20
	maxNotificationPageSize     = 100
)

// notificationService implements the NotificationUsecase interface.
type notificationService struct {
	txManager repository.TransactionManager
	pageSize  int
	logger    *slog.Logger
}

// NewNotificationService is the constructor for notificationService.
func NewNotificationService(
	cfg *config.Config,
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.NotificationUsecase {
	pageSize := defaultNotificationPageSize
	if cfg.Notification != nil && cfg.Notification.PageSize > 0 {
		pageSize = cfg.Notification.PageSize
	}

	return &notificationService{
		txManager: txManager,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListNotifications retrieves a recipient's notifications, newest first.
func (srv *notificationService) ListNotifications(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	if limit <= 0 {
		limit = srv.pageSize
	}
	if limit > maxNotificationPageSize {
		limit = maxNotificationPageSize
	}
	if offset < 0 {
		offset = 0
	}

	var notifications []*entity.Notification

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NotificationRepo().FindByRecipient(ctx, recipientID, limit, offset)
		if err != nil {
			return errors.Wrap(err, "failed to find notifications")
		}
		notifications = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list notifications", slog.Any("error", err), slog.Any("recipient_id", recipientID))

		return nil, errors.Wrap(err, "failed to list notifications")
	}

	return notifications, nil
}

// UnreadCount returns the number of unread notifications for a recipient.
func (srv *notificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NotificationRepo().CountUnread(ctx, recipientID)
		if err != nil {
			return errors.Wrap(err, "failed to count unread notifications")
		}
		count = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to count unread notifications", slog.Any("error", err), slog.Any("recipient_id", recipientID))

		return 0, errors.Wrap(err, "failed to count unread notifications")
	}

	return count, nil
}

// MarkRead marks one notification as read. Only the recipient may do so.
func (srv *notificationService) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		notification, err := repoFactory.NotificationRepo().FindByID(ctx, notificationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotificationNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "notification not found")
			}

			return errors.Wrap(err, "failed to find notification")
		}

		if notification.RecipientID != recipientID {
			return errors.Wrap(domainerrors.ErrForbidden, "notification does not belong to user")
		}

		if notification.IsRead {
			return nil
		}

		if err := repoFactory.NotificationRepo().MarkRead(ctx, notificationID); err != nil {
			return errors.Wrap(err, "failed to mark notification read")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to mark notification read", slog.Any("error", err),
			slog.Any("recipient_id", recipientID), slog.Any("notification_id", notificationID))

		return errors.Wrap(err, "failed to mark notification read")
	}

	return nil
}

// NotificationsEnabled reports whether the user has notifications turned on.
func (srv *notificationService) NotificationsEnabled(ctx context.Context, userID uuid.UUID) (bool, error) {
	var enabled bool

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user")
		}
		enabled = user.NotifyEnabled

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to resolve notification preference", slog.Any("error", err), slog.Any("user_id", userID))

		return false, errors.Wrap(err, "failed to resolve notification preference")
	}

	return enabled, nil
}

// ClearAll removes every notification belonging to a recipient.
func (srv *notificationService) ClearAll(ctx context.Context, recipientID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NotificationRepo().DeleteByRecipient(ctx, recipientID); err != nil {
			return errors.Wrap(err, "failed to delete notifications")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to clear notifications", slog.Any("error", err), slog.Any("recipient_id", recipientID))

		return errors.Wrap(err, "failed to clear notifications")
	}
	srv.log(ctx).Info("Cleared notifications", slog.Any("recipient_id", recipientID))

	return nil
}
