package impl

import (
	"testing"

	"daansetu/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTransitionRule_DonationAssignment(t *testing.T) {
	rule := findTransitionRule(entity.EntityDonation, entity.StatusPending, entity.RoleAdmin, entity.StatusAssigned)

	require.NotNil(t, rule)
	assert.Equal(t, entity.StatusAssigned, rule.target)
	assert.Equal(t, actionAssigned, rule.action)
	assert.Equal(t, relationNone, rule.relation)
	assert.Equal(t, sideChannelDealer, rule.requires)
}

func TestFindTransitionRule_RecyclerSelfLoop(t *testing.T) {
	rule := findTransitionRule(entity.EntityDonation, entity.StatusDonated, entity.RoleDealer, entity.StatusDonated)

	require.NotNil(t, rule)
	assert.Equal(t, entity.StatusDonated, rule.target)
	assert.Equal(t, actionRecyclerAssigned, rule.action)
	assert.Equal(t, relationAssignedDealer, rule.relation)
	assert.Equal(t, sideChannelRecycler, rule.requires)
}

func TestFindTransitionRule_RescueDropRequiresShelter(t *testing.T) {
	rule := findTransitionRule(entity.EntityRescue, entity.StatusPickedUp, entity.RoleVolunteer, entity.StatusDropped)

	require.NotNil(t, rule)
	assert.Equal(t, relationAssignedVolunteer, rule.relation)
	assert.Equal(t, sideChannelShelter, rule.requires)
}

func TestFindTransitionRule_UnknownMove(t *testing.T) {
	assert.Nil(t, findTransitionRule(entity.EntityDonation, entity.StatusPending, entity.RoleDonor, entity.StatusAssigned))
	assert.Nil(t, findTransitionRule(entity.EntityDonation, entity.StatusPending, entity.RoleAdmin, entity.StatusRecycled))
	assert.Nil(t, findTransitionRule(entity.EntityTask, entity.StatusOpen, entity.RoleVolunteer, entity.StatusAssigned))
}

func TestFindTransitionRule_TerminalStatusesHaveNoMoves(t *testing.T) {
	terminal := map[entity.EntityType][]entity.Status{
		entity.EntityDonation: {entity.StatusRecycled, entity.StatusCancelled},
		entity.EntityRescue:   {entity.StatusDropped, entity.StatusRejected, entity.StatusCancelled},
		entity.EntityTask:     {entity.StatusCompleted, entity.StatusCancelled},
	}

	roles := entity.Roles{
		entity.RoleAdmin, entity.RoleDonor, entity.RoleDealer,
		entity.RoleRecycler, entity.RoleVolunteer,
	}

	for entityType, statuses := range terminal {
		for _, current := range statuses {
			for _, role := range roles {
				for _, target := range []entity.Status{
					entity.StatusPending, entity.StatusAssigned, entity.StatusCancelled, current,
				} {
					assert.Nil(t, findTransitionRule(entityType, current, role, target),
						"unexpected rule out of terminal status %s for %s/%s", current, entityType, role)
				}
			}
		}
	}
}
