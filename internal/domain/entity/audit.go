// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one record of an entity's append-only history.
// Entries are only ever appended, never mutated or reordered; the entity's
// current status always equals the action of the most recent entry.
type AuditEntry struct {
	ID         uuid.UUID  `json:"id"`          // The unique ID of this history record.
	EntityType EntityType `json:"entity_type"` // The workflow the entry belongs to.
	EntityID   uuid.UUID  `json:"entity_id"`   // The entity whose history this entry extends.
	Action     string     `json:"action"`      // The committed action, e.g. "assigned", "recycler-assigned".
	ActorID    uuid.UUID  `json:"actor_id"`    // The user who performed the action.
	ActorRole  Role       `json:"actor_role"`  // The role the actor acted under.
	Note       string     `json:"note"`        // Optional free-text note supplied with the action.
	CreatedAt  time.Time  `json:"created_at"`  // Timestamp of when the action was committed.
}
