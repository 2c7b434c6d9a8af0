package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionModel is the GORM-specific struct for the 'sessions' table.
// TokenHash stores a SHA-256 digest; raw tokens are never persisted.
type SessionModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash      string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	DeviceID       string    `gorm:"type:varchar(255)"`
	IPAddress      string    `gorm:"type:varchar(45)"`
	LoginAt        time.Time `gorm:"not null"`
	LastActivityAt time.Time `gorm:"not null"`
	ExpiresAt      time.Time `gorm:"not null;index"`
	IsActive       bool      `gorm:"not null;default:true;index"`
}

// TableName explicitly sets the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}
