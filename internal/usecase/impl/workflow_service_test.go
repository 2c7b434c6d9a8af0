package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"daansetu/internal/domain/entity"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/domain/repository"
	"daansetu/internal/domain/service"
	mockRepo "daansetu/internal/mocks/repository"
	mockSvc "daansetu/internal/mocks/service"
	"daansetu/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// workflowServiceFixtures holds all test dependencies for workflow service tests.
type workflowServiceFixtures struct {
	service   usecase.WorkflowUsecase
	factory   *mockRepo.MockRepositoryFactory
	publisher *mockSvc.MockEventPublisher
}

func createTestWorkflowService(t *testing.T) workflowServiceFixtures {
	factory := mockRepo.NewMockRepositoryFactory(t)
	txManager := &mockRepo.MockTransactionManager{Factory: factory}
	publisher := mockSvc.NewMockEventPublisher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewWorkflowService(txManager, publisher, logger)

	return workflowServiceFixtures{
		service:   service,
		factory:   factory,
		publisher: publisher,
	}
}

func TestWorkflowService_CreateDonation_Success(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()
	donorID := uuid.New()
	donor := &entity.User{
		ID:    donorID,
		Name:  "Asha",
		Roles: entity.Roles{entity.RoleDonor},
	}

	fx.factory.Users.On("FindByID", ctx, donorID).Return(donor, nil)
	fx.factory.Donations.On("Create", ctx, mock.AnythingOfType("*entity.Donation")).Return(nil)
	fx.factory.Donations.On("AppendHistory", ctx, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)

	donation, err := fx.service.CreateDonation(ctx, &usecase.CreateDonationInput{
		DonorID:     donorID,
		Category:    "plastic",
		Description: "two bags of bottles",
		WeightKg:    4.5,
		PickupAt:    time.Now().Add(24 * time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, donorID, donation.DonorID)
	assert.Equal(t, entity.StatusPending, donation.Status)
	require.Len(t, donation.History, 1)
	assert.Equal(t, "created", donation.History[0].Action)
	assert.Equal(t, donorID, donation.History[0].ActorID)
}

func TestWorkflowService_CreateDonation_NotADonor(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{
		ID:    userID,
		Roles: entity.Roles{entity.RoleDealer},
	}

	fx.factory.Users.On("FindByID", ctx, userID).Return(user, nil)

	donation, err := fx.service.CreateDonation(ctx, &usecase.CreateDonationInput{
		DonorID:  userID,
		Category: "metal",
	})

	require.Error(t, err)
	assert.Nil(t, donation)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidArgument))
}

func TestWorkflowService_CreateTask_RequiresAdmin(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()
	creatorID := uuid.New()
	creator := &entity.User{
		ID:    creatorID,
		Roles: entity.Roles{entity.RoleVolunteer},
	}

	fx.factory.Users.On("FindByID", ctx, creatorID).Return(creator, nil)

	task, err := fx.service.CreateTask(ctx, &usecase.CreateTaskInput{
		CreatedBy: creatorID,
		Title:     "Feed the shelter animals",
	})

	require.Error(t, err)
	assert.Nil(t, task)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidArgument))
}

func TestWorkflowService_AttemptTransition_AssignDealer_Success(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()
	donationID := uuid.New()
	adminID := uuid.New()
	dealerID := uuid.New()

	donation := &entity.Donation{
		ID:       donationID,
		DonorID:  uuid.New(),
		Category: "paper",
		Status:   entity.StatusPending,
	}
	dealer := &entity.User{
		ID:    dealerID,
		Roles: entity.Roles{entity.RoleDealer},
	}

	fx.factory.Donations.On("FindByID", ctx, donationID).Return(donation, nil)
	fx.factory.Users.On("FindByID", ctx, dealerID).Return(dealer, nil)
	fx.factory.Donations.On("UpdateStatusCAS", ctx, donationID, entity.StatusPending, entity.StatusAssigned,
		repository.StatusAssignments{DealerID: &dealerID}).Return(nil)
	fx.factory.Donations.On("AppendHistory", ctx, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)

	var published *service.TransitionEvent
	fx.publisher.On("PublishTransitionEvent", ctx, mock.AnythingOfType("*service.TransitionEvent")).
		Run(func(args mock.Arguments) {
			published = args.Get(1).(*service.TransitionEvent)
		}).
		Return(nil)

	result, err := fx.service.AttemptTransition(ctx, &usecase.TransitionInput{
		EntityType: entity.EntityDonation,
		EntityID:   donationID,
		ActorID:    adminID,
		ActorRole:  entity.RoleAdmin,
		Target:     entity.StatusAssigned,
		DealerID:   &dealerID,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusAssigned, result.Donation.Status)
	require.NotNil(t, result.Donation.DealerID)
	assert.Equal(t, dealerID, *result.Donation.DealerID)
	assert.Equal(t, "assigned", result.Audit.Action)

	require.NotNil(t, published)
	assert.Equal(t, entity.EntityDonation, published.EntityType)
	assert.Equal(t, entity.StatusPending, published.FromStatus)
	assert.Equal(t, entity.StatusAssigned, published.ToStatus)
	assert.Equal(t, adminID, published.ActorID)
}

func TestWorkflowService_AttemptTransition_WrongDealer_Forbidden(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()
	donationID := uuid.New()
	assignedDealerID := uuid.New()
	otherDealerID := uuid.New()

	donation := &entity.Donation{
		ID:       donationID,
		DonorID:  uuid.New(),
		DealerID: &assignedDealerID,
		Status:   entity.StatusAssigned,
	}

	fx.factory.Donations.On("FindByID", ctx, donationID).Return(donation, nil)

	result, err := fx.service.AttemptTransition(ctx, &usecase.TransitionInput{
		EntityType: entity.EntityDonation,
		EntityID:   donationID,
		ActorID:    otherDealerID,
		ActorRole:  entity.RoleDealer,
		Target:     entity.StatusInProgress,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestWorkflowService_AttemptTransition_NoRule_InvalidTransition(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()
	donationID := uuid.New()
	donorID := uuid.New()

	donation := &entity.Donation{
		ID:      donationID,
		DonorID: donorID,
		Status:  entity.StatusPending,
	}

	fx.factory.Donations.On("FindByID", ctx, donationID).Return(donation, nil)

	result, err := fx.service.AttemptTransition(ctx, &usecase.TransitionInput{
		EntityType: entity.EntityDonation,
		EntityID:   donationID,
		ActorID:    donorID,
		ActorRole:  entity.RoleDonor,
		Target:     entity.StatusPickedUp,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidTransition))
}

func TestWorkflowService_AttemptTransition_TargetOutsideEnum(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()

	// "open" belongs to the task enum, not the donation enum. The request is
	// rejected before any repository access.
	result, err := fx.service.AttemptTransition(ctx, &usecase.TransitionInput{
		EntityType: entity.EntityDonation,
		EntityID:   uuid.New(),
		ActorID:    uuid.New(),
		ActorRole:  entity.RoleAdmin,
		Target:     entity.StatusOpen,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidTransition))
}

func TestWorkflowService_AttemptTransition_RecyclerAlreadyAssigned(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()
	donationID := uuid.New()
	dealerID := uuid.New()
	boundRecyclerID := uuid.New()
	newRecyclerID := uuid.New()

	donation := &entity.Donation{
		ID:         donationID,
		DonorID:    uuid.New(),
		DealerID:   &dealerID,
		RecyclerID: &boundRecyclerID,
		Status:     entity.StatusDonated,
	}

	fx.factory.Donations.On("FindByID", ctx, donationID).Return(donation, nil)

	result, err := fx.service.AttemptTransition(ctx, &usecase.TransitionInput{
		EntityType: entity.EntityDonation,
		EntityID:   donationID,
		ActorID:    dealerID,
		ActorRole:  entity.RoleDealer,
		Target:     entity.StatusDonated,
		RecyclerID: &newRecyclerID,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidTransition))
}

func TestWorkflowService_AttemptTransition_ConcurrentUpdate_Conflict(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()
	taskID := uuid.New()
	volunteerID := uuid.New()

	task := &entity.VolunteerTask{
		ID:          taskID,
		CreatedBy:   uuid.New(),
		VolunteerID: &volunteerID,
		Status:      entity.StatusInProgress,
	}

	fx.factory.Tasks.On("FindByID", ctx, taskID).Return(task, nil)
	fx.factory.Tasks.On("UpdateStatusCAS", ctx, taskID, entity.StatusInProgress, entity.StatusCompleted,
		repository.StatusAssignments{}).Return(repository.ErrStatusConflict)

	result, err := fx.service.AttemptTransition(ctx, &usecase.TransitionInput{
		EntityType: entity.EntityTask,
		EntityID:   taskID,
		ActorID:    volunteerID,
		ActorRole:  entity.RoleVolunteer,
		Target:     entity.StatusCompleted,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
}

func TestWorkflowService_AttemptTransition_MissingVolunteerReference(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()
	rescueID := uuid.New()

	rescue := &entity.RescueRequest{
		ID:      rescueID,
		DonorID: uuid.New(),
		Status:  entity.StatusPending,
	}

	fx.factory.Rescues.On("FindByID", ctx, rescueID).Return(rescue, nil)

	result, err := fx.service.AttemptTransition(ctx, &usecase.TransitionInput{
		EntityType: entity.EntityRescue,
		EntityID:   rescueID,
		ActorID:    uuid.New(),
		ActorRole:  entity.RoleAdmin,
		Target:     entity.StatusAssigned,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidArgument))
}

func TestWorkflowService_AttemptTransition_MissingShelterReference(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()
	rescueID := uuid.New()
	volunteerID := uuid.New()

	rescue := &entity.RescueRequest{
		ID:          rescueID,
		DonorID:     uuid.New(),
		VolunteerID: &volunteerID,
		Status:      entity.StatusAssigned,
	}

	fx.factory.Rescues.On("FindByID", ctx, rescueID).Return(rescue, nil)

	result, err := fx.service.AttemptTransition(ctx, &usecase.TransitionInput{
		EntityType: entity.EntityRescue,
		EntityID:   rescueID,
		ActorID:    volunteerID,
		ActorRole:  entity.RoleVolunteer,
		Target:     entity.StatusShelter,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidArgument))
	fx.factory.Shelters.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestWorkflowService_AttemptTransition_UnknownShelter(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()
	rescueID := uuid.New()
	volunteerID := uuid.New()
	shelterID := uuid.New()

	rescue := &entity.RescueRequest{
		ID:          rescueID,
		DonorID:     uuid.New(),
		VolunteerID: &volunteerID,
		Status:      entity.StatusAssigned,
	}

	fx.factory.Rescues.On("FindByID", ctx, rescueID).Return(rescue, nil)
	fx.factory.Shelters.On("FindByID", ctx, shelterID).Return(nil, repository.ErrShelterNotFound)

	result, err := fx.service.AttemptTransition(ctx, &usecase.TransitionInput{
		EntityType: entity.EntityRescue,
		EntityID:   rescueID,
		ActorID:    volunteerID,
		ActorRole:  entity.RoleVolunteer,
		Target:     entity.StatusShelter,
		ShelterID:  &shelterID,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidArgument))
	fx.factory.Rescues.AssertNotCalled(t, "UpdateStatusCAS",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkflowService_AttemptTransition_PublishFailureTolerated(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()
	donationID := uuid.New()
	adminID := uuid.New()

	donation := &entity.Donation{
		ID:      donationID,
		DonorID: uuid.New(),
		Status:  entity.StatusPickedUp,
	}

	fx.factory.Donations.On("FindByID", ctx, donationID).Return(donation, nil)
	fx.factory.Donations.On("UpdateStatusCAS", ctx, donationID, entity.StatusPickedUp, entity.StatusDonated,
		repository.StatusAssignments{}).Return(nil)
	fx.factory.Donations.On("AppendHistory", ctx, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)
	fx.publisher.On("PublishTransitionEvent", ctx, mock.AnythingOfType("*service.TransitionEvent")).
		Return(errors.New("broker unavailable"))

	result, err := fx.service.AttemptTransition(ctx, &usecase.TransitionInput{
		EntityType: entity.EntityDonation,
		EntityID:   donationID,
		ActorID:    adminID,
		ActorRole:  entity.RoleAdmin,
		Target:     entity.StatusDonated,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusDonated, result.Donation.Status)
}

func TestWorkflowService_GetDonation_NotFound(t *testing.T) {
	fx := createTestWorkflowService(t)

	ctx := context.Background()
	donationID := uuid.New()

	fx.factory.Donations.On("FindByID", ctx, donationID).Return(nil, repository.ErrEntityNotFound)

	donation, err := fx.service.GetDonation(ctx, donationID)

	require.Error(t, err)
	assert.Nil(t, donation)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}
