// Package impl contains the application-specific business rules implementations.
package impl

import (
	"daansetu/internal/domain/entity"
)

// Audit actions recorded in entity history.
const (
	actionCreated          = "created"
	actionAssigned         = "assigned"
	actionInProgress       = "in-progress"
	actionPickedUp         = "picked-up"
	actionDonated          = "donated"
	actionRecyclerAssigned = "recycler-assigned"
	actionProcessed        = "processed"
	actionRecycled         = "recycled"
	actionShelter          = "shelter"
	actionDropped          = "dropped"
	actionRejected         = "rejected"
	actionCompleted        = "completed"
	actionCancelled        = "cancelled"
)

// relation names the bond the actor must hold with the entity for a rule to
// apply. relationNone means the role alone is enough.
type relation int

const (
	relationNone relation = iota
	relationAssignedDealer
	relationAssignedRecycler
	relationAssignedVolunteer
)

// sideChannel names the assignment reference a rule consumes. The referenced
// ID is required on the transition input and written onto the entity.
type sideChannel int

const (
	sideChannelNone sideChannel = iota
	sideChannelDealer
	sideChannelRecycler
	sideChannelVolunteer
	sideChannelShelter
)

// ruleKey addresses the rule set for one (entity type, current status, actor
// role) combination.
type ruleKey struct {
	entityType entity.EntityType
	current    entity.Status
	role       entity.Role
}

// transitionRule describes one allowed move out of a status. The target may
// equal the current status when the rule only changes an assignment edge,
// such as binding a recycler to an already donated donation.
type transitionRule struct {
	target   entity.Status
	action   string
	relation relation
	requires sideChannel
}

// transitionRules is the closed transition table. A (key, target) pair absent
// from this table is an invalid transition no matter who asks.
var transitionRules = map[ruleKey][]transitionRule{
	// Donation workflow: donor submits, admin assigns a dealer, the dealer
	// collects, admin confirms the handover, the dealer binds a recycler and
	// the recycler finishes the material.
	{entityType: entity.EntityDonation, current: entity.StatusPending, role: entity.RoleAdmin}: {
		{target: entity.StatusAssigned, action: actionAssigned, requires: sideChannelDealer},
		{target: entity.StatusCancelled, action: actionCancelled},
	},
	{entityType: entity.EntityDonation, current: entity.StatusAssigned, role: entity.RoleDealer}: {
		{target: entity.StatusInProgress, action: actionInProgress, relation: relationAssignedDealer},
	},
	{entityType: entity.EntityDonation, current: entity.StatusAssigned, role: entity.RoleAdmin}: {
		{target: entity.StatusCancelled, action: actionCancelled},
	},
	{entityType: entity.EntityDonation, current: entity.StatusInProgress, role: entity.RoleDealer}: {
		{target: entity.StatusPickedUp, action: actionPickedUp, relation: relationAssignedDealer},
	},
	{entityType: entity.EntityDonation, current: entity.StatusInProgress, role: entity.RoleAdmin}: {
		{target: entity.StatusCancelled, action: actionCancelled},
	},
	{entityType: entity.EntityDonation, current: entity.StatusPickedUp, role: entity.RoleAdmin}: {
		{target: entity.StatusDonated, action: actionDonated},
		{target: entity.StatusCancelled, action: actionCancelled},
	},
	{entityType: entity.EntityDonation, current: entity.StatusDonated, role: entity.RoleDealer}: {
		// Self-loop: binds the recycler without changing the status.
		{target: entity.StatusDonated, action: actionRecyclerAssigned, relation: relationAssignedDealer, requires: sideChannelRecycler},
	},
	{entityType: entity.EntityDonation, current: entity.StatusDonated, role: entity.RoleRecycler}: {
		{target: entity.StatusProcessed, action: actionProcessed, relation: relationAssignedRecycler},
	},
	{entityType: entity.EntityDonation, current: entity.StatusDonated, role: entity.RoleAdmin}: {
		{target: entity.StatusCancelled, action: actionCancelled},
	},
	{entityType: entity.EntityDonation, current: entity.StatusProcessed, role: entity.RoleRecycler}: {
		{target: entity.StatusRecycled, action: actionRecycled, relation: relationAssignedRecycler},
	},
	{entityType: entity.EntityDonation, current: entity.StatusProcessed, role: entity.RoleAdmin}: {
		{target: entity.StatusCancelled, action: actionCancelled},
	},

	// Rescue workflow: donor reports, admin assigns a volunteer or rejects,
	// the volunteer collects the animal and brings it to a shelter.
	{entityType: entity.EntityRescue, current: entity.StatusPending, role: entity.RoleAdmin}: {
		{target: entity.StatusAssigned, action: actionAssigned, requires: sideChannelVolunteer},
		{target: entity.StatusRejected, action: actionRejected},
		{target: entity.StatusCancelled, action: actionCancelled},
	},
	{entityType: entity.EntityRescue, current: entity.StatusAssigned, role: entity.RoleVolunteer}: {
		{target: entity.StatusPickedUp, action: actionPickedUp, relation: relationAssignedVolunteer},
		{target: entity.StatusShelter, action: actionShelter, relation: relationAssignedVolunteer, requires: sideChannelShelter},
	},
	{entityType: entity.EntityRescue, current: entity.StatusAssigned, role: entity.RoleAdmin}: {
		{target: entity.StatusCancelled, action: actionCancelled},
	},
	{entityType: entity.EntityRescue, current: entity.StatusPickedUp, role: entity.RoleVolunteer}: {
		{target: entity.StatusShelter, action: actionShelter, relation: relationAssignedVolunteer, requires: sideChannelShelter},
		{target: entity.StatusDropped, action: actionDropped, relation: relationAssignedVolunteer, requires: sideChannelShelter},
	},
	{entityType: entity.EntityRescue, current: entity.StatusPickedUp, role: entity.RoleAdmin}: {
		{target: entity.StatusCancelled, action: actionCancelled},
	},
	{entityType: entity.EntityRescue, current: entity.StatusShelter, role: entity.RoleVolunteer}: {
		{target: entity.StatusDropped, action: actionDropped, relation: relationAssignedVolunteer},
	},
	{entityType: entity.EntityRescue, current: entity.StatusShelter, role: entity.RoleAdmin}: {
		{target: entity.StatusCancelled, action: actionCancelled},
	},

	// Task workflow: admin creates and assigns, the volunteer works it to
	// completion.
	{entityType: entity.EntityTask, current: entity.StatusOpen, role: entity.RoleAdmin}: {
		{target: entity.StatusAssigned, action: actionAssigned, requires: sideChannelVolunteer},
		{target: entity.StatusCancelled, action: actionCancelled},
	},
	{entityType: entity.EntityTask, current: entity.StatusAssigned, role: entity.RoleVolunteer}: {
		{target: entity.StatusInProgress, action: actionInProgress, relation: relationAssignedVolunteer},
	},
	{entityType: entity.EntityTask, current: entity.StatusAssigned, role: entity.RoleAdmin}: {
		{target: entity.StatusCancelled, action: actionCancelled},
	},
	{entityType: entity.EntityTask, current: entity.StatusInProgress, role: entity.RoleVolunteer}: {
		{target: entity.StatusCompleted, action: actionCompleted, relation: relationAssignedVolunteer},
	},
	{entityType: entity.EntityTask, current: entity.StatusInProgress, role: entity.RoleAdmin}: {
		{target: entity.StatusCancelled, action: actionCancelled},
	},
}

// findTransitionRule looks up the rule for one requested move. It returns nil
// when the table has no entry, which callers map to an invalid-transition
// error.
func findTransitionRule(entityType entity.EntityType, current entity.Status, role entity.Role, target entity.Status) *transitionRule {
	for _, rule := range transitionRules[ruleKey{entityType: entityType, current: current, role: role}] {
		if rule.target == target {
			ruleCopy := rule

			return &ruleCopy
		}
	}

	return nil
}
