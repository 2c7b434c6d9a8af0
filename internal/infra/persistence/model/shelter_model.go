package model

import (
	"time"

	"github.com/google/uuid"
)

// ShelterModel is the GORM-specific struct for the 'shelters' table.
type ShelterModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Address   string    `gorm:"type:text;not null"`
	Capacity  int       `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ShelterModel) TableName() string {
	return "shelters"
}
