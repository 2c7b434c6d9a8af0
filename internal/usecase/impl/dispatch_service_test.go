package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"daansetu/internal/domain/entity"
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

// dispatchServiceFixtures holds all test dependencies for dispatch service tests.
type dispatchServiceFixtures struct {
	service  usecase.DispatchUsecase
	factory  *mockRepo.MockRepositoryFactory
	pushSvc  *mockSvc.MockPushService
	realtime *mockSvc.MockRealtimePublisher
}

func createTestDispatchService(t *testing.T) dispatchServiceFixtures {
	factory := mockRepo.NewMockRepositoryFactory(t)
	txManager := &mockRepo.MockTransactionManager{Factory: factory}
	pushSvc := mockSvc.NewMockPushService(t)
	realtime := mockSvc.NewMockRealtimePublisher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewDispatchService(txManager, pushSvc, realtime, logger)

	return dispatchServiceFixtures{
		service:  service,
		factory:  factory,
		pushSvc:  pushSvc,
		realtime: realtime,
	}
}

func TestDispatchService_DispatchTransition_DonationAssigned(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()
	donationID := uuid.New()
	donorID := uuid.New()
	dealerID := uuid.New()

	pickupAt := time.Date(2026, time.September, 3, 14, 30, 0, 0, time.UTC)
	donation := &entity.Donation{
		ID:       donationID,
		DonorID:  donorID,
		DealerID: &dealerID,
		Category: "plastic",
		Status:   entity.StatusAssigned,
		PickupAt: pickupAt,
	}
	users := map[uuid.UUID]*entity.User{
		donorID:  {ID: donorID, Name: "Asha", NotifyEnabled: true},
		dealerID: {ID: dealerID, Name: "Ravi", NotifyEnabled: true},
	}

	dealerMessage := "You have been assigned the plastic donation, pickup at " + pickupAt.Format(pickupTimeLayout)
	donorMessage := "Your plastic donation was assigned to dealer Ravi, pickup at " + pickupAt.Format(pickupTimeLayout)

	fx.factory.Donations.On("FindByID", ctx, donationID).Return(donation, nil)
	fx.factory.Users.On("FindByIDs", ctx, []uuid.UUID{donorID, dealerID}).Return(users, nil)

	var stored []*entity.Notification
	fx.factory.Notifications.On("Create", ctx, mock.AnythingOfType("*entity.Notification")).
		Run(func(args mock.Arguments) {
			stored = append(stored, args.Get(1).(*entity.Notification))
		}).
		Return(nil).Times(2)

	fx.factory.Devices.On("FindActiveByUser", ctx, dealerID).Return([]*entity.UserDevice{
		{ID: uuid.New(), UserID: dealerID, FCMToken: "tok-dealer", IsActive: true},
	}, nil)
	fx.factory.Devices.On("FindActiveByUser", ctx, donorID).Return([]*entity.UserDevice{
		{ID: uuid.New(), UserID: donorID, FCMToken: "tok-donor", IsActive: true},
	}, nil)

	fx.realtime.On("Publish", dealerID, mock.AnythingOfType("*entity.Notification")).Return()
	fx.realtime.On("Publish", donorID, mock.AnythingOfType("*entity.Notification")).Return()

	// Each recipient's push carries the message worded for them.
	fx.pushSvc.On("SendMulticast", ctx, []string{"tok-dealer"}, "Donation update",
		dealerMessage, mock.AnythingOfType("map[string]string")).
		Return(&service.MulticastResult{SuccessCount: 1}, nil)
	fx.pushSvc.On("SendMulticast", ctx, []string{"tok-donor"}, "Donation update",
		donorMessage, mock.AnythingOfType("map[string]string")).
		Return(&service.MulticastResult{SuccessCount: 1}, nil)

	err := fx.service.DispatchTransition(ctx, &service.TransitionEvent{
		EntityType: entity.EntityDonation,
		EntityID:   donationID,
		Action:     actionAssigned,
		FromStatus: entity.StatusPending,
		ToStatus:   entity.StatusAssigned,
	})

	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, dealerID, stored[0].RecipientID)
	assert.Equal(t, dealerMessage, stored[0].Message)
	assert.Equal(t, donorID, stored[1].RecipientID)
	assert.Equal(t, donorMessage, stored[1].Message)
	for _, notification := range stored {
		assert.Equal(t, entity.EntityDonation, notification.Type)
		assert.Equal(t, "/donations/"+donationID.String(), notification.Link)
		assert.False(t, notification.IsRead)
	}
}

func TestDispatchService_DispatchTransition_NoRecipients(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()
	taskID := uuid.New()

	// Cancelling an unassigned task notifies nobody.
	task := &entity.VolunteerTask{
		ID:        taskID,
		CreatedBy: uuid.New(),
		Title:     "Clean kennels",
		Status:    entity.StatusCancelled,
	}

	fx.factory.Tasks.On("FindByID", ctx, taskID).Return(task, nil)

	err := fx.service.DispatchTransition(ctx, &service.TransitionEvent{
		EntityType: entity.EntityTask,
		EntityID:   taskID,
		Action:     actionCancelled,
		FromStatus: entity.StatusOpen,
		ToStatus:   entity.StatusCancelled,
	})

	require.NoError(t, err)
}

func TestDispatchService_DispatchTransition_StoreFailure(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()
	rescueID := uuid.New()
	donorID := uuid.New()

	rescue := &entity.RescueRequest{
		ID:         rescueID,
		DonorID:    donorID,
		AnimalType: "cow",
		Status:     entity.StatusRejected,
	}

	fx.factory.Rescues.On("FindByID", ctx, rescueID).Return(rescue, nil)
	fx.factory.Users.On("FindByIDs", ctx, []uuid.UUID{donorID}).Return(map[uuid.UUID]*entity.User{
		donorID: {ID: donorID, Name: "Asha", NotifyEnabled: true},
	}, nil)
	fx.factory.Notifications.On("Create", ctx, mock.AnythingOfType("*entity.Notification")).
		Return(errors.New("insert failed"))

	err := fx.service.DispatchTransition(ctx, &service.TransitionEvent{
		EntityType: entity.EntityRescue,
		EntityID:   rescueID,
		Action:     actionRejected,
		FromStatus: entity.StatusPending,
		ToStatus:   entity.StatusRejected,
	})

	require.Error(t, err)
	fx.realtime.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	fx.pushSvc.AssertNotCalled(t, "SendMulticast", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchService_DispatchTransition_PrunesInvalidTokens(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()
	donationID := uuid.New()
	donorID := uuid.New()

	donation := &entity.Donation{
		ID:       donationID,
		DonorID:  donorID,
		Category: "metal",
		Status:   entity.StatusPickedUp,
	}

	fx.factory.Donations.On("FindByID", ctx, donationID).Return(donation, nil)
	fx.factory.Users.On("FindByIDs", ctx, []uuid.UUID{donorID}).Return(map[uuid.UUID]*entity.User{
		donorID: {ID: donorID, Name: "Asha", NotifyEnabled: true},
	}, nil)
	fx.factory.Notifications.On("Create", ctx, mock.AnythingOfType("*entity.Notification")).Return(nil)
	fx.factory.Devices.On("FindActiveByUser", ctx, donorID).Return([]*entity.UserDevice{
		{ID: uuid.New(), UserID: donorID, FCMToken: "dead-token", IsActive: true},
	}, nil)

	fx.realtime.On("Publish", donorID, mock.AnythingOfType("*entity.Notification")).Return()

	fx.pushSvc.On("SendMulticast", ctx, []string{"dead-token"}, "Donation update",
		mock.AnythingOfType("string"), mock.AnythingOfType("map[string]string")).
		Return(&service.MulticastResult{FailureCount: 1, InvalidTokens: []string{"dead-token"}}, nil)

	fx.factory.Devices.On("DeactivateByTokens", ctx, []string{"dead-token"}).Return(nil)

	err := fx.service.DispatchTransition(ctx, &service.TransitionEvent{
		EntityType: entity.EntityDonation,
		EntityID:   donationID,
		Action:     actionPickedUp,
		FromStatus: entity.StatusInProgress,
		ToStatus:   entity.StatusPickedUp,
	})

	require.NoError(t, err)
}

func TestDispatchService_DispatchTransition_OptOutSkipsPush(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()
	donationID := uuid.New()
	donorID := uuid.New()

	donation := &entity.Donation{
		ID:       donationID,
		DonorID:  donorID,
		Category: "paper",
		Status:   entity.StatusInProgress,
	}

	fx.factory.Donations.On("FindByID", ctx, donationID).Return(donation, nil)
	fx.factory.Users.On("FindByIDs", ctx, []uuid.UUID{donorID}).Return(map[uuid.UUID]*entity.User{
		donorID: {ID: donorID, Name: "Asha", NotifyEnabled: false},
	}, nil)
	fx.factory.Notifications.On("Create", ctx, mock.AnythingOfType("*entity.Notification")).Return(nil)

	fx.realtime.On("Publish", donorID, mock.AnythingOfType("*entity.Notification")).Return()

	err := fx.service.DispatchTransition(ctx, &service.TransitionEvent{
		EntityType: entity.EntityDonation,
		EntityID:   donationID,
		Action:     actionInProgress,
		FromStatus: entity.StatusAssigned,
		ToStatus:   entity.StatusInProgress,
	})

	require.NoError(t, err)
	fx.factory.Devices.AssertNotCalled(t, "FindActiveByUser", mock.Anything, mock.Anything)
	fx.pushSvc.AssertNotCalled(t, "SendMulticast", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchService_RecipientsFor_Dedupes(t *testing.T) {
	donorID := uuid.New()

	// A donor acting as their own dealer must not receive the notification twice.
	recipients := recipientsFor(&service.TransitionEvent{
		EntityType: entity.EntityDonation,
		Action:     actionDonated,
	}, &transitionParticipants{
		donorID:  donorID,
		dealerID: &donorID,
	})

	assert.Equal(t, []uuid.UUID{donorID}, recipients)
}

func TestDispatchService_ComposeMessageFor_PerRecipientWording(t *testing.T) {
	donorID := uuid.New()
	volunteerID := uuid.New()
	pickupAt := time.Date(2026, time.September, 10, 9, 0, 0, 0, time.UTC)

	users := map[uuid.UUID]*entity.User{
		donorID:     {ID: donorID, Name: "Asha"},
		volunteerID: {ID: volunteerID, Name: "Meera"},
	}

	tests := []struct {
		name         string
		event        *service.TransitionEvent
		recipientID  uuid.UUID
		subject      string
		participants *transitionParticipants
		expected     string
	}{
		{
			name:        "rescue assignment addresses the volunteer",
			event:       &service.TransitionEvent{EntityType: entity.EntityRescue, Action: actionAssigned},
			recipientID: volunteerID,
			subject:     "cow",
			participants: &transitionParticipants{
				donorID: donorID, volunteerID: &volunteerID, pickupAt: pickupAt,
			},
			expected: "You have been assigned the cow rescue, pickup at " + pickupAt.Format(pickupTimeLayout),
		},
		{
			name:        "rescue assignment tells the donor who got it",
			event:       &service.TransitionEvent{EntityType: entity.EntityRescue, Action: actionAssigned},
			recipientID: donorID,
			subject:     "cow",
			participants: &transitionParticipants{
				donorID: donorID, volunteerID: &volunteerID, pickupAt: pickupAt,
			},
			expected: "Your cow rescue was assigned to volunteer Meera, pickup at " + pickupAt.Format(pickupTimeLayout),
		},
		{
			name:        "task assignment carries the due time",
			event:       &service.TransitionEvent{EntityType: entity.EntityTask, Action: actionAssigned},
			recipientID: volunteerID,
			subject:     "Clean kennels",
			participants: &transitionParticipants{
				creatorID: donorID, volunteerID: &volunteerID, pickupAt: pickupAt,
			},
			expected: "You have been assigned task \"Clean kennels\", due " + pickupAt.Format(pickupTimeLayout),
		},
		{
			name:        "unscheduled rescue drop omits the time clause",
			event:       &service.TransitionEvent{EntityType: entity.EntityRescue, Action: actionDropped},
			recipientID: volunteerID,
			subject:     "dog",
			participants: &transitionParticipants{
				donorID: donorID, volunteerID: &volunteerID,
			},
			expected: "The dog rescue you handled was dropped off at a shelter",
		},
		{
			name:        "rescue drop tells the donor",
			event:       &service.TransitionEvent{EntityType: entity.EntityRescue, Action: actionDropped},
			recipientID: donorID,
			subject:     "dog",
			participants: &transitionParticipants{
				donorID: donorID, volunteerID: &volunteerID,
			},
			expected: "Your dog was dropped off at a shelter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := composeMessageFor(tt.event, tt.recipientID, tt.subject, users, tt.participants)
			assert.Equal(t, tt.expected, message)
		})
	}
}
