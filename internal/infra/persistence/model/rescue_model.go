package model

import (
	"time"

	"github.com/google/uuid"
)

// RescueRequestModel is the GORM-specific struct for the 'gaudaan_requests' table.
type RescueRequestModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	DonorID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	VolunteerID *uuid.UUID `gorm:"type:uuid;index"`
	ShelterID   *uuid.UUID `gorm:"type:uuid;index"`
	AnimalType  string     `gorm:"type:varchar(100);not null"`
	Condition   string     `gorm:"type:text"`
	Address     string     `gorm:"type:text;not null"`
	PickupAt    time.Time  `gorm:"not null"`
	Status      string     `gorm:"type:varchar(20);not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (RescueRequestModel) TableName() string {
	return "gaudaan_requests"
}
