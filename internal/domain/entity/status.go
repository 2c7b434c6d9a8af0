// Package entity contains the core business objects of the project.
package entity

// EntityType identifies which workflow an entity belongs to.
type EntityType string

const (
	// EntityDonation is the scrap-donation workflow (donor -> dealer -> recycler).
	EntityDonation EntityType = "donation"
	// EntityRescue is the animal-rescue (gaudaan) workflow.
	EntityRescue EntityType = "gaudaan"
	// EntityTask is the volunteer-task workflow.
	EntityTask EntityType = "task"
)

// IsValid checks if the EntityType is a valid value.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityDonation, EntityRescue, EntityTask:
		return true
	default:
		return false
	}
}

// String returns the string representation of the EntityType.
func (t EntityType) String() string {
	return string(t)
}

// Status is a workflow state drawn from a closed, per-entity-type enum.
// The valid set for each entity type is defined below; the allowed moves
// between statuses live in the workflow transition table.
type Status string

const (
	// StatusPending is the initial state of donations and rescue requests.
	StatusPending Status = "pending"
	// StatusOpen is the initial state of volunteer tasks.
	StatusOpen Status = "open"
	// StatusAssigned means a dealer or volunteer has been bound to the entity.
	StatusAssigned Status = "assigned"
	// StatusInProgress means the assignee has started working.
	StatusInProgress Status = "in-progress"
	// StatusPickedUp means the material or animal has been collected.
	StatusPickedUp Status = "picked-up"
	// StatusDonated means the admin confirmed the donation handover.
	StatusDonated Status = "donated"
	// StatusProcessed means the recycler has processed the material.
	StatusProcessed Status = "processed"
	// StatusRecycled is the terminal success state of a donation.
	StatusRecycled Status = "recycled"
	// StatusShelter means the rescued animal reached a shelter.
	StatusShelter Status = "shelter"
	// StatusDropped is the terminal state after the animal was dropped at a shelter.
	StatusDropped Status = "dropped"
	// StatusRejected is the terminal state of a declined rescue request.
	StatusRejected Status = "rejected"
	// StatusCompleted is the terminal success state of a volunteer task.
	StatusCompleted Status = "completed"
	// StatusCancelled is the terminal state of an administratively cancelled entity.
	StatusCancelled Status = "cancelled"
)

// String returns the string representation of the Status.
func (s Status) String() string {
	return string(s)
}

var validStatuses = map[EntityType][]Status{
	EntityDonation: {
		StatusPending, StatusAssigned, StatusInProgress, StatusPickedUp,
		StatusDonated, StatusProcessed, StatusRecycled, StatusCancelled,
	},
	EntityRescue: {
		StatusPending, StatusAssigned, StatusPickedUp, StatusShelter,
		StatusDropped, StatusRejected, StatusCancelled,
	},
	EntityTask: {
		StatusOpen, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled,
	},
}

var terminalStatuses = map[EntityType][]Status{
	EntityDonation: {StatusRecycled, StatusCancelled},
	EntityRescue:   {StatusDropped, StatusRejected, StatusCancelled},
	EntityTask:     {StatusCompleted, StatusCancelled},
}

// ValidFor reports whether the status belongs to the closed enum of the entity type.
func (s Status) ValidFor(t EntityType) bool {
	for _, v := range validStatuses[t] {
		if v == s {
			return true
		}
	}

	return false
}

// TerminalFor reports whether the status is terminal for the entity type.
// No transition, including administrative cancellation, leaves a terminal status.
func (s Status) TerminalFor(t EntityType) bool {
	for _, v := range terminalStatuses[t] {
		if v == s {
			return true
		}
	}

	return false
}
