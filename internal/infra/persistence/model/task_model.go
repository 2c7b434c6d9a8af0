package model

import (
	"time"

	"github.com/google/uuid"
)

// VolunteerTaskModel is the GORM-specific struct for the 'volunteer_tasks' table.
type VolunteerTaskModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null;index"`
	VolunteerID *uuid.UUID `gorm:"type:uuid;index"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Details     string     `gorm:"type:text"`
	DueAt       time.Time  `gorm:"not null"`
	Status      string     `gorm:"type:varchar(20);not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (VolunteerTaskModel) TableName() string {
	return "volunteer_tasks"
}
