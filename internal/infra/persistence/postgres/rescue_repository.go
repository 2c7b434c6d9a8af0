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

// rescueRepository implements the repository.RescueRepository interface.
type rescueRepository struct {
	db *gorm.DB
}

// NewRescueRepository is the constructor for rescueRepository.
func NewRescueRepository(db *gorm.DB) repository.RescueRepository {
	return &rescueRepository{
		db: db,
	}
}

// Create persists a new rescue request in its initial status.
func (repo *rescueRepository) Create(ctx context.Context, rescue *entity.RescueRequest) error {
	rescueM := fromRescueDomain(rescue)

	if err := repo.db.WithContext(ctx).Create(rescueM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("invalid user reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("missing required rescue information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create rescue request")
	}

	// Update the entity with generated values
	rescue.ID = rescueM.ID
	rescue.CreatedAt = rescueM.CreatedAt
	rescue.UpdatedAt = rescueM.UpdatedAt

	return nil
}

// FindByID retrieves a rescue request with its full history, oldest entry first.
func (repo *rescueRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RescueRequest, error) {
	var rescueM model.RescueRequestModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rescueM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrEntityNotFound
		}

		return nil, errors.Wrap(err, "failed to find rescue request by ID")
	}

	rescue := toRescueDomain(&rescueM)

	history, err := loadAuditEntries(ctx, repo.db, entity.EntityRescue, id)
	if err != nil {
		return nil, err
	}
	rescue.History = history

	return rescue, nil
}

// FindByDonor retrieves rescue requests submitted by a donor, newest first.
func (repo *rescueRepository) FindByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*entity.RescueRequest, error) {
	var rescueModels []*model.RescueRequestModel

	if err := repo.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rescueModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find rescue requests by donor")
	}

	rescues := make([]*entity.RescueRequest, 0, len(rescueModels))
	for _, rescueM := range rescueModels {
		rescues = append(rescues, toRescueDomain(rescueM))
	}

	return rescues, nil
}

// UpdateStatusCAS performs the conditional status update keyed on fromStatus.
func (repo *rescueRepository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, fromStatus, toStatus entity.Status, assign repository.StatusAssignments) error {
	updates := map[string]any{
		"status":     toStatus.String(),
		"updated_at": time.Now(),
	}
	if assign.VolunteerID != nil {
		updates["volunteer_id"] = *assign.VolunteerID
	}
	if assign.ShelterID != nil {
		updates["shelter_id"] = *assign.ShelterID
	}

	result := repo.db.WithContext(ctx).
		Model(&model.RescueRequestModel{}).
		Where("id = ? AND status = ?", id, fromStatus.String()).
		Updates(updates)

	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrInvalidArgument.WrapMessage("invalid assignment reference")
		}

		return errors.Wrap(result.Error, "failed to update rescue status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrStatusConflict
	}

	return nil
}

// AppendHistory appends one audit entry to the rescue request's history.
func (repo *rescueRepository) AppendHistory(ctx context.Context, entry *entity.AuditEntry) error {
	return appendAuditEntry(ctx, repo.db, entry)
}

// --- Mapper Functions ---

// toRescueDomain converts a GORM RescueRequestModel to a domain RescueRequest entity.
func toRescueDomain(data *model.RescueRequestModel) *entity.RescueRequest {
	if data == nil {
		return nil
	}

	return &entity.RescueRequest{
		ID:          data.ID,
		DonorID:     data.DonorID,
		VolunteerID: data.VolunteerID,
		ShelterID:   data.ShelterID,
		AnimalType:  data.AnimalType,
		Condition:   data.Condition,
		Address:     data.Address,
		PickupAt:    data.PickupAt,
		Status:      entity.Status(data.Status),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromRescueDomain converts a domain RescueRequest entity to a GORM RescueRequestModel.
func fromRescueDomain(data *entity.RescueRequest) *model.RescueRequestModel {
	if data == nil {
		return nil
	}

	return &model.RescueRequestModel{
		ID:          data.ID,
		DonorID:     data.DonorID,
		VolunteerID: data.VolunteerID,
		ShelterID:   data.ShelterID,
		AnimalType:  data.AnimalType,
		Condition:   data.Condition,
		Address:     data.Address,
		PickupAt:    data.PickupAt,
		Status:      data.Status.String(),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
