// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Donation represents a scrap donation moving through the
// donor -> dealer -> recycler workflow.
//
// DealerID and RecyclerID are assignment edges: each binds the donation to
// exactly one holder of that role at a time, set only by the corresponding
// assignment transition (a new assignment overwrites, it never accumulates).
type Donation struct {
	ID          uuid.UUID    `json:"id"`           // The unique ID of the donation.
	DonorID     uuid.UUID    `json:"donor_id"`     // The donor who submitted the donation.
	DealerID    *uuid.UUID   `json:"dealer_id"`    // The dealer assigned to collect, if any.
	RecyclerID  *uuid.UUID   `json:"recycler_id"`  // The recycler assigned to process, if any.
	Category    string       `json:"category"`     // Material category, e.g. "e-waste", "metal".
	Description string       `json:"description"`  // Free-text description supplied by the donor.
	WeightKg    float64      `json:"weight_kg"`    // Estimated weight of the donated material.
	PickupAt    time.Time    `json:"pickup_at"`    // Scheduled pickup date and time.
	Status      Status       `json:"status"`       // Current workflow status.
	History     []AuditEntry `json:"history"`      // Append-only audit trail, oldest first.
	CreatedAt   time.Time    `json:"created_at"`   // Timestamp of when this record was created.
	UpdatedAt   time.Time    `json:"updated_at"`   // Timestamp of the last modification.
}

// AssignedDealer reports whether the given user is the donation's current dealer.
func (d *Donation) AssignedDealer(userID uuid.UUID) bool {
	return d.DealerID != nil && *d.DealerID == userID
}

// AssignedRecycler reports whether the given user is the donation's current recycler.
func (d *Donation) AssignedRecycler(userID uuid.UUID) bool {
	return d.RecyclerID != nil && *d.RecyclerID == userID
}
