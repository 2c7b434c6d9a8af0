package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationModel is the GORM-specific struct for the 'notifications' table.
// It represents one stored notification for one recipient.
type NotificationModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"type:varchar(20);not null"`
	Message     string    `gorm:"type:text;not null"`
	Link        string    `gorm:"type:varchar(255)"`
	IsRead      bool      `gorm:"not null;default:false;index"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (NotificationModel) TableName() string {
	return "notifications"
}
