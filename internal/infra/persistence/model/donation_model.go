// Package model contains the GORM-specific structs mapping domain entities
// to PostgreSQL tables.
package model

import (
	"time"

	"github.com/google/uuid"
)

// DonationModel is the GORM-specific struct for the 'donations' table.
type DonationModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	DonorID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	DealerID    *uuid.UUID `gorm:"type:uuid;index"`
	RecyclerID  *uuid.UUID `gorm:"type:uuid;index"`
	Category    string     `gorm:"type:varchar(100);not null"`
	Description string     `gorm:"type:text"`
	WeightKg    float64    `gorm:"not null;default:0"`
	PickupAt    time.Time  `gorm:"not null"`
	Status      string     `gorm:"type:varchar(20);not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (DonationModel) TableName() string {
	return "donations"
}
