package postgres

import (
	"context"

	"daansetu/internal/domain/entity"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// appendAuditEntry inserts one history row into the shared audit_entries
// table. Every workflow repository appends through this helper.
func appendAuditEntry(ctx context.Context, db *gorm.DB, entry *entity.AuditEntry) error {
	entryM := fromAuditDomain(entry)

	if err := db.WithContext(ctx).Create(entryM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("invalid entity reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("missing required audit information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to append audit entry")
	}

	// Update the entity with generated values
	entry.ID = entryM.ID
	entry.CreatedAt = entryM.CreatedAt

	return nil
}

// loadAuditEntries retrieves the full history of one entity, oldest first.
func loadAuditEntries(ctx context.Context, db *gorm.DB, entityType entity.EntityType, entityID uuid.UUID) ([]entity.AuditEntry, error) {
	var entryModels []*model.AuditEntryModel

	if err := db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType.String(), entityID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load audit entries")
	}

	entries := make([]entity.AuditEntry, 0, len(entryModels))
	for _, entryM := range entryModels {
		entries = append(entries, *toAuditDomain(entryM))
	}

	return entries, nil
}

// --- Mapper Functions ---

// toAuditDomain converts a GORM AuditEntryModel to a domain AuditEntry entity.
func toAuditDomain(data *model.AuditEntryModel) *entity.AuditEntry {
	if data == nil {
		return nil
	}

	return &entity.AuditEntry{
		ID:         data.ID,
		EntityType: entity.EntityType(data.EntityType),
		EntityID:   data.EntityID,
		Action:     data.Action,
		ActorID:    data.ActorID,
		ActorRole:  entity.Role(data.ActorRole),
		Note:       data.Note,
		CreatedAt:  data.CreatedAt,
	}
}

// fromAuditDomain converts a domain AuditEntry entity to a GORM AuditEntryModel.
func fromAuditDomain(data *entity.AuditEntry) *model.AuditEntryModel {
	if data == nil {
		return nil
	}

	return &model.AuditEntryModel{
		ID:         data.ID,
		EntityType: data.EntityType.String(),
		EntityID:   data.EntityID,
		Action:     data.Action,
		ActorID:    data.ActorID,
		ActorRole:  data.ActorRole.String(),
		Note:       data.Note,
		CreatedAt:  data.CreatedAt,
	}
}
