// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// RescueRequest represents an animal-rescue (gaudaan) request submitted by a
// donor and carried out by an assigned volunteer.
//
// VolunteerID and ShelterID are assignment edges set by the "assigned" and
// "shelter"/"dropped" transitions respectively.
type RescueRequest struct {
	ID          uuid.UUID    `json:"id"`           // The unique ID of the rescue request.
	DonorID     uuid.UUID    `json:"donor_id"`     // The donor who reported the animal.
	VolunteerID *uuid.UUID   `json:"volunteer_id"` // The volunteer assigned to the rescue, if any.
	ShelterID   *uuid.UUID   `json:"shelter_id"`   // The shelter the animal was taken to, if any.
	AnimalType  string       `json:"animal_type"`  // Kind of animal, e.g. "cow", "calf".
	Condition   string       `json:"condition"`    // Reported condition of the animal.
	Address     string       `json:"address"`      // Pickup address supplied by the donor.
	PickupAt    time.Time    `json:"pickup_at"`    // Scheduled pickup date and time.
	Status      Status       `json:"status"`       // Current workflow status.
	History     []AuditEntry `json:"history"`      // Append-only audit trail, oldest first.
	CreatedAt   time.Time    `json:"created_at"`   // Timestamp of when this record was created.
	UpdatedAt   time.Time    `json:"updated_at"`   // Timestamp of the last modification.
}

// AssignedVolunteer reports whether the given user is the request's current volunteer.
func (r *RescueRequest) AssignedVolunteer(userID uuid.UUID) bool {
	return r.VolunteerID != nil && *r.VolunteerID == userID
}
