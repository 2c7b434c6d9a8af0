package postgres

import (
	"context"
	"time"

	"daansetu/internal/domain/entity"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/domain/repository"
	"daansetu/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// sessionRepository implements the repository.SessionRepository interface.
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository is the constructor for sessionRepository.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{
		db: db,
	}
}

// Create persists a new session record.
func (repo *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	sessionM := fromSessionDomain(session)

	if err := repo.db.WithContext(ctx).Create(sessionM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("session token already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create session")
	}

	// Update the entity with generated values
	session.ID = sessionM.ID

	return nil
}

// FindByTokenHash retrieves a session by the hash of its access token.
func (repo *sessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error) {
	var sessionM model.SessionModel

	if err := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&sessionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to find session by token hash")
	}

	return toSessionDomain(&sessionM), nil
}

// DeactivateAllForUser marks every active session of the user inactive in a
// single statement.
func (repo *sessionRepository) DeactivateAllForUser(ctx context.Context, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.SessionModel{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).Error; err != nil {
		return errors.Wrap(err, "failed to deactivate sessions for user")
	}

	return nil
}

// DeactivateByTokenHash marks the session with the given token hash inactive.
// Missing or already-inactive sessions are not an error.
func (repo *sessionRepository) DeactivateByTokenHash(ctx context.Context, tokenHash string) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.SessionModel{}).
		Where("token_hash = ?", tokenHash).
		Update("is_active", false).Error; err != nil {
		return errors.Wrap(err, "failed to deactivate session by token hash")
	}

	return nil
}

// TouchActivity updates the session's last-activity timestamp.
func (repo *sessionRepository) TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.SessionModel{}).
		Where("id = ?", id).
		Update("last_activity_at", at)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to touch session activity")
	}

	if result.RowsAffected == 0 {
		return repository.ErrSessionNotFound
	}

	return nil
}

// CountActiveByUser returns the number of active sessions for a user.
func (repo *sessionRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.SessionModel{}).
		Where("user_id = ? AND is_active = ? AND expires_at > ?", userID, true, time.Now()).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count active sessions")
	}

	return count, nil
}

// DeleteExpired removes sessions that expired before the cutoff.
func (repo *sessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&model.SessionModel{})

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete expired sessions")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

// toSessionDomain converts a GORM SessionModel to a domain Session entity.
func toSessionDomain(data *model.SessionModel) *entity.Session {
	if data == nil {
		return nil
	}

	return &entity.Session{
		ID:             data.ID,
		UserID:         data.UserID,
		TokenHash:      data.TokenHash,
		DeviceID:       data.DeviceID,
		IPAddress:      data.IPAddress,
		LoginAt:        data.LoginAt,
		LastActivityAt: data.LastActivityAt,
		ExpiresAt:      data.ExpiresAt,
		IsActive:       data.IsActive,
	}
}

// fromSessionDomain converts a domain Session entity to a GORM SessionModel.
func fromSessionDomain(data *entity.Session) *model.SessionModel {
	if data == nil {
		return nil
	}

	return &model.SessionModel{
		ID:             data.ID,
		UserID:         data.UserID,
		TokenHash:      data.TokenHash,
		DeviceID:       data.DeviceID,
		IPAddress:      data.IPAddress,
		LoginAt:        data.LoginAt,
		LastActivityAt: data.LastActivityAt,
		ExpiresAt:      data.ExpiresAt,
		IsActive:       data.IsActive,
	}
}
