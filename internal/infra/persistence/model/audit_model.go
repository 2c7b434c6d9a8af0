package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntryModel is the GORM-specific struct for the 'audit_entries' table.
// One append-only table holds the history rows of every workflow entity,
// keyed by (entity_type, entity_id).
type AuditEntryModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	EntityType string    `gorm:"type:varchar(20);not null;index:idx_audit_entity"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_entity"`
	Action     string    `gorm:"type:varchar(50);not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole  string    `gorm:"type:varchar(20);not null"`
	Note       string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}
