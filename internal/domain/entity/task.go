// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// VolunteerTask represents a unit of shelter or field work created by an
// admin and assigned to a single volunteer at a time.
type VolunteerTask struct {
	ID          uuid.UUID    `json:"id"`           // The unique ID of the task.
	CreatedBy   uuid.UUID    `json:"created_by"`   // The admin who created the task.
	VolunteerID *uuid.UUID   `json:"volunteer_id"` // The volunteer assigned to the task, if any.
	Title       string       `json:"title"`        // Short task title.
	Details     string       `json:"details"`      // Free-text task description.
	DueAt       time.Time    `json:"due_at"`       // When the task is due.
	Status      Status       `json:"status"`       // Current workflow status.
	History     []AuditEntry `json:"history"`      // Append-only audit trail, oldest first.
	CreatedAt   time.Time    `json:"created_at"`   // Timestamp of when this record was created.
	UpdatedAt   time.Time    `json:"updated_at"`   // Timestamp of the last modification.
}

// AssignedVolunteer reports whether the given user is the task's current volunteer.
func (t *VolunteerTask) AssignedVolunteer(userID uuid.UUID) bool {
	return t.VolunteerID != nil && *t.VolunteerID == userID
}
