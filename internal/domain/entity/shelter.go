// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Shelter is a registered drop-off location for rescued animals. Rescue
// transitions that reference a shelter must point at an existing record.
type Shelter struct {
	ID        uuid.UUID `json:"id"`         // The unique ID of the shelter.
	Name      string    `json:"name"`       // Shelter display name.
	Address   string    `json:"address"`    // Physical address.
	Capacity  int       `json:"capacity"`   // Number of animals the shelter can hold.
	CreatedAt time.Time `json:"created_at"` // Timestamp of when this record was created.
	UpdatedAt time.Time `json:"updated_at"` // Timestamp of the last modification.
}
