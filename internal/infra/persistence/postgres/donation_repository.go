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

// donationRepository implements the repository.DonationRepository interface.
type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository is the constructor for donationRepository.
func NewDonationRepository(db *gorm.DB) repository.DonationRepository {
	return &donationRepository{
		db: db,
	}
}

// Create persists a new donation in its initial status.
func (repo *donationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	donationM := fromDonationDomain(donation)

	if err := repo.db.WithContext(ctx).Create(donationM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("invalid user reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("missing required donation information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create donation")
	}

	// Update the entity with generated values
	donation.ID = donationM.ID
	donation.CreatedAt = donationM.CreatedAt
	donation.UpdatedAt = donationM.UpdatedAt

	return nil
}

// FindByID retrieves a donation with its full history, oldest entry first.
func (repo *donationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	var donationM model.DonationModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&donationM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrEntityNotFound
		}

		return nil, errors.Wrap(err, "failed to find donation by ID")
	}

	donation := toDonationDomain(&donationM)

	history, err := loadAuditEntries(ctx, repo.db, entity.EntityDonation, id)
	if err != nil {
		return nil, err
	}
	donation.History = history

	return donation, nil
}

// FindByDonor retrieves donations submitted by a donor, newest first.
func (repo *donationRepository) FindByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*entity.Donation, error) {
	var donationModels []*model.DonationModel

	if err := repo.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&donationModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find donations by donor")
	}

	donations := make([]*entity.Donation, 0, len(donationModels))
	for _, donationM := range donationModels {
		donations = append(donations, toDonationDomain(donationM))
	}

	return donations, nil
}

// UpdateStatusCAS performs the conditional status update. The WHERE clause
// carries the expected current status so a concurrent transition makes this
// statement match zero rows instead of overwriting.
func (repo *donationRepository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, fromStatus, toStatus entity.Status, assign repository.StatusAssignments) error {
	updates := map[string]any{
		"status":     toStatus.String(),
		"updated_at": time.Now(),
	}
	if assign.DealerID != nil {
		updates["dealer_id"] = *assign.DealerID
	}
	if assign.RecyclerID != nil {
		updates["recycler_id"] = *assign.RecyclerID
	}

	result := repo.db.WithContext(ctx).
		Model(&model.DonationModel{}).
		Where("id = ? AND status = ?", id, fromStatus.String()).
		Updates(updates)

	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrInvalidArgument.WrapMessage("invalid assignment reference")
		}

		return errors.Wrap(result.Error, "failed to update donation status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrStatusConflict
	}

	return nil
}

// AppendHistory appends one audit entry to the donation's history.
func (repo *donationRepository) AppendHistory(ctx context.Context, entry *entity.AuditEntry) error {
	return appendAuditEntry(ctx, repo.db, entry)
}

// --- Mapper Functions ---

// toDonationDomain converts a GORM DonationModel to a domain Donation entity.
func toDonationDomain(data *model.DonationModel) *entity.Donation {
	if data == nil {
		return nil
	}

	return &entity.Donation{
		ID:          data.ID,
		DonorID:     data.DonorID,
		DealerID:    data.DealerID,
		RecyclerID:  data.RecyclerID,
		Category:    data.Category,
		Description: data.Description,
		WeightKg:    data.WeightKg,
		PickupAt:    data.PickupAt,
		Status:      entity.Status(data.Status),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromDonationDomain converts a domain Donation entity to a GORM DonationModel.
func fromDonationDomain(data *entity.Donation) *model.DonationModel {
	if data == nil {
		return nil
	}

	return &model.DonationModel{
		ID:          data.ID,
		DonorID:     data.DonorID,
		DealerID:    data.DealerID,
		RecyclerID:  data.RecyclerID,
		Category:    data.Category,
		Description: data.Description,
		WeightKg:    data.WeightKg,
		PickupAt:    data.PickupAt,
		Status:      data.Status.String(),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
