package postgres

import (
	"context"

	"daansetu/internal/domain/entity"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/domain/repository"
	"daansetu/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// shelterRepository implements the repository.ShelterRepository interface.
type shelterRepository struct {
	db *gorm.DB
}

// NewShelterRepository is the constructor for shelterRepository.
func NewShelterRepository(db *gorm.DB) repository.ShelterRepository {
	return &shelterRepository{
		db: db,
	}
}

// Create persists a new shelter.
func (repo *shelterRepository) Create(ctx context.Context, shelter *entity.Shelter) error {
	shelterM := fromShelterDomain(shelter)

	if err := repo.db.WithContext(ctx).Create(shelterM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("missing required shelter information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create shelter")
	}

	// Update the entity with generated values
	shelter.ID = shelterM.ID
	shelter.CreatedAt = shelterM.CreatedAt
	shelter.UpdatedAt = shelterM.UpdatedAt

	return nil
}

// FindByID retrieves a shelter by ID.
func (repo *shelterRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Shelter, error) {
	var shelterM model.ShelterModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&shelterM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrShelterNotFound
		}

		return nil, errors.Wrap(err, "failed to find shelter by ID")
	}

	return toShelterDomain(&shelterM), nil
}

// --- Mapper Functions ---

// toShelterDomain converts a GORM ShelterModel to a domain Shelter entity.
func toShelterDomain(data *model.ShelterModel) *entity.Shelter {
	if data == nil {
		return nil
	}

	return &entity.Shelter{
		ID:        data.ID,
		Name:      data.Name,
		Address:   data.Address,
		Capacity:  data.Capacity,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromShelterDomain converts a domain Shelter entity to a GORM ShelterModel.
func fromShelterDomain(data *entity.Shelter) *model.ShelterModel {
	if data == nil {
		return nil
	}

	return &model.ShelterModel{
		ID:        data.ID,
		Name:      data.Name,
		Address:   data.Address,
		Capacity:  data.Capacity,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
