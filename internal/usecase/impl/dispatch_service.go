package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "daansetu/internal/delivery/context"
	"daansetu/internal/domain/entity"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/domain/repository"
	"daansetu/internal/domain/service"
	"daansetu/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// Firebase multicast batch size limit.
	firebaseBatchSize = 500

	pickupTimeLayout = "Mon, 02 Jan 2006 15:04"
)

// transitionParticipants holds the user edges of the entity at dispatch time,
// plus the scheduled pickup (or due) time used in message templates.
type transitionParticipants struct {
	donorID     uuid.UUID
	creatorID   uuid.UUID
	dealerID    *uuid.UUID
	recyclerID  *uuid.UUID
	volunteerID *uuid.UUID
	pickupAt    time.Time
}

// pushTarget is one recipient's device tokens paired with the message worded
// for that recipient.
type pushTarget struct {
	tokens []string
	body   string
}

// dispatchService implements the DispatchUsecase interface. It turns one
// committed transition event into stored notifications, realtime pushes and
// mobile pushes. Only the store step can fail the dispatch; the live channels
// are best-effort.
type dispatchService struct {
	txManager repository.TransactionManager
	pushSvc   service.PushService
	realtime  service.RealtimePublisher
	logger    *slog.Logger
}

// NewDispatchService is the constructor for dispatchService.
func NewDispatchService(
	txManager repository.TransactionManager,
	pushSvc service.PushService,
	realtime service.RealtimePublisher,
	logger *slog.Logger,
) usecase.DispatchUsecase {
	return &dispatchService{
		txManager: txManager,
		pushSvc:   pushSvc,
		realtime:  realtime,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *dispatchService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// DispatchTransition fans one transition event out to every channel.
func (srv *dispatchService) DispatchTransition(ctx context.Context, event *service.TransitionEvent) error {
	srv.log(ctx).Info("Dispatching transition event",
		slog.String("entity_type", event.EntityType.String()),
		slog.Any("entity_id", event.EntityID),
		slog.String("action", event.Action))

	var (
		notifications []*entity.Notification
		pushTargets   []pushTarget
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		participants, subject, err := srv.loadParticipants(ctx, repoFactory, event)
		if err != nil {
			return err
		}

		recipients := recipientsFor(event, participants)
		if len(recipients) == 0 {
			return nil
		}

		users, err := repoFactory.UserRepo().FindByIDs(ctx, participantIDs(participants))
		if err != nil {
			return errors.Wrap(err, "failed to resolve participants")
		}

		link := linkFor(event)
		now := time.Now()

		for _, recipientID := range recipients {
			// Each recipient gets a message worded for their side of the
			// transition, reused verbatim as their push body.
			message := composeMessageFor(event, recipientID, subject, users, participants)

			notification := &entity.Notification{
				ID:          uuid.New(),
				RecipientID: recipientID,
				Type:        event.EntityType,
				Message:     message,
				Link:        link,
				CreatedAt:   now,
			}

			if err := repoFactory.NotificationRepo().Create(ctx, notification); err != nil {
				return errors.Wrap(err, "failed to store notification")
			}
			notifications = append(notifications, notification)

			user, ok := users[recipientID]
			if !ok || !user.NotifyEnabled {
				continue
			}

			devices, err := repoFactory.DeviceRepo().FindActiveByUser(ctx, recipientID)
			if err != nil {
				srv.log(ctx).Warn("Failed to load devices for recipient",
					slog.Any("error", err), slog.Any("recipient_id", recipientID))

				continue
			}

			var tokens []string
			for _, device := range devices {
				if device.FCMToken != "" {
					tokens = append(tokens, device.FCMToken)
				}
			}
			if len(tokens) > 0 {
				pushTargets = append(pushTargets, pushTarget{tokens: tokens, body: message})
			}
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to dispatch transition event", slog.Any("error", err),
			slog.Any("entity_id", event.EntityID), slog.String("action", event.Action))

		return errors.Wrap(err, "failed to dispatch transition event")
	}

	// Realtime delivery. Recipients without an open connection are skipped
	// silently by the hub.
	for _, notification := range notifications {
		srv.realtime.Publish(notification.RecipientID, notification)
	}

	for _, target := range pushTargets {
		srv.sendPush(ctx, event, target.body, target.tokens)
	}

	srv.log(ctx).Info("Successfully dispatched transition event",
		slog.Any("entity_id", event.EntityID),
		slog.String("action", event.Action),
		slog.Int("recipients", len(notifications)))

	return nil
}

// loadParticipants reads the entity fresh and extracts its user edges plus
// the subject used in notification messages.
func (srv *dispatchService) loadParticipants(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	event *service.TransitionEvent,
) (*transitionParticipants, string, error) {
	switch event.EntityType {
	case entity.EntityDonation:
		donation, err := repoFactory.DonationRepo().FindByID(ctx, event.EntityID)
		if err != nil {
			if errors.Is(err, repository.ErrEntityNotFound) {
				return nil, "", errors.Wrap(domainerrors.ErrNotFound, "donation not found")
			}

			return nil, "", errors.Wrap(err, "failed to find donation")
		}

		return &transitionParticipants{
			donorID:    donation.DonorID,
			dealerID:   donation.DealerID,
			recyclerID: donation.RecyclerID,
			pickupAt:   donation.PickupAt,
		}, donation.Category, nil
	case entity.EntityRescue:
		rescue, err := repoFactory.RescueRepo().FindByID(ctx, event.EntityID)
		if err != nil {
			if errors.Is(err, repository.ErrEntityNotFound) {
				return nil, "", errors.Wrap(domainerrors.ErrNotFound, "rescue request not found")
			}

			return nil, "", errors.Wrap(err, "failed to find rescue request")
		}

		return &transitionParticipants{
			donorID:     rescue.DonorID,
			volunteerID: rescue.VolunteerID,
			pickupAt:    rescue.PickupAt,
		}, rescue.AnimalType, nil
	case entity.EntityTask:
		task, err := repoFactory.TaskRepo().FindByID(ctx, event.EntityID)
		if err != nil {
			if errors.Is(err, repository.ErrEntityNotFound) {
				return nil, "", errors.Wrap(domainerrors.ErrNotFound, "task not found")
			}

			return nil, "", errors.Wrap(err, "failed to find task")
		}

		return &transitionParticipants{
			creatorID:   task.CreatedBy,
			volunteerID: task.VolunteerID,
			pickupAt:    task.DueAt,
		}, task.Title, nil
	default:
		return nil, "", errors.Wrap(domainerrors.ErrInvalidArgument, "unknown entity type")
	}
}

// sendPush delivers the message to the collected device tokens in batches and
// prunes tokens the gateway reports as dead. Push failures never fail the
// dispatch.
func (srv *dispatchService) sendPush(ctx context.Context, event *service.TransitionEvent, body string, tokens []string) {
	if len(tokens) == 0 {
		return
	}

	data := map[string]string{
		"entity_type": event.EntityType.String(),
		"entity_id":   event.EntityID.String(),
		"action":      event.Action,
	}

	var invalidTokens []string
	for i := 0; i < len(tokens); i += firebaseBatchSize {
		end := min(i+firebaseBatchSize, len(tokens))
		batch := tokens[i:end]

		result, err := srv.pushSvc.SendMulticast(ctx, batch, pushTitleFor(event.EntityType), body, data)
		if err != nil {
			srv.log(ctx).Warn("Push batch failed", slog.Any("error", err), slog.Int("batch_size", len(batch)))

			continue
		}
		invalidTokens = append(invalidTokens, result.InvalidTokens...)
	}

	if len(invalidTokens) == 0 {
		return
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.DeviceRepo().DeactivateByTokens(ctx, invalidTokens)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to prune invalid tokens", slog.Any("error", err),
			slog.Int("token_count", len(invalidTokens)))
	}
}

// recipientsFor maps one (entity type, action) pair to the recipient set.
// The mapping is deterministic so repeated dispatches of the same event
// produce the same notifications.
func recipientsFor(event *service.TransitionEvent, p *transitionParticipants) []uuid.UUID {
	var ids []uuid.UUID

	switch event.EntityType {
	case entity.EntityDonation:
		switch event.Action {
		case actionAssigned:
			ids = appendIfSet(ids, p.dealerID)
			ids = append(ids, p.donorID)
		case actionInProgress, actionPickedUp:
			ids = append(ids, p.donorID)
		case actionDonated, actionProcessed, actionRecycled:
			ids = append(ids, p.donorID)
			ids = appendIfSet(ids, p.dealerID)
		case actionRecyclerAssigned:
			ids = appendIfSet(ids, p.recyclerID)
			ids = append(ids, p.donorID)
		case actionCancelled:
			ids = append(ids, p.donorID)
			ids = appendIfSet(ids, p.dealerID)
		}
	case entity.EntityRescue:
		switch event.Action {
		case actionAssigned:
			ids = appendIfSet(ids, p.volunteerID)
			ids = append(ids, p.donorID)
		case actionPickedUp, actionRejected:
			ids = append(ids, p.donorID)
		case actionShelter, actionDropped, actionCancelled:
			ids = append(ids, p.donorID)
			ids = appendIfSet(ids, p.volunteerID)
		}
	case entity.EntityTask:
		switch event.Action {
		case actionAssigned:
			ids = appendIfSet(ids, p.volunteerID)
		case actionInProgress, actionCompleted:
			ids = append(ids, p.creatorID)
		case actionCancelled:
			ids = appendIfSet(ids, p.volunteerID)
		}
	}

	return dedupe(ids)
}

func participantIDs(p *transitionParticipants) []uuid.UUID {
	var ids []uuid.UUID
	if p.donorID != uuid.Nil {
		ids = append(ids, p.donorID)
	}
	if p.creatorID != uuid.Nil {
		ids = append(ids, p.creatorID)
	}
	ids = appendIfSet(ids, p.dealerID)
	ids = appendIfSet(ids, p.recyclerID)
	ids = appendIfSet(ids, p.volunteerID)

	return dedupe(ids)
}

// composeMessageFor builds the message stored for one recipient. The wording
// depends on the recipient's side of the transition: the assignee is
// addressed directly, the donor or creator is told what happened to their
// entity. Assignment messages carry the scheduled pickup (or due) time.
func composeMessageFor(
	event *service.TransitionEvent,
	recipientID uuid.UUID,
	subject string,
	users map[uuid.UUID]*entity.User,
	p *transitionParticipants,
) string {
	var pickup string
	if !p.pickupAt.IsZero() {
		pickup = p.pickupAt.Format(pickupTimeLayout)
	}

	switch event.EntityType {
	case entity.EntityDonation:
		if msg := donationMessageFor(event.Action, recipientID, subject, pickup, users, p); msg != "" {
			return msg
		}
	case entity.EntityRescue:
		if msg := rescueMessageFor(event.Action, recipientID, subject, pickup, users, p); msg != "" {
			return msg
		}
	case entity.EntityTask:
		if msg := taskMessageFor(event.Action, recipientID, subject, pickup, users, p); msg != "" {
			return msg
		}
	}

	return fmt.Sprintf("%s: %s", subject, event.Action)
}

func donationMessageFor(
	action string,
	recipientID uuid.UUID,
	subject, pickup string,
	users map[uuid.UUID]*entity.User,
	p *transitionParticipants,
) string {
	isDealer := p.dealerID != nil && *p.dealerID == recipientID
	isRecycler := p.recyclerID != nil && *p.recyclerID == recipientID

	switch action {
	case actionAssigned:
		if isDealer {
			return withTime(fmt.Sprintf("You have been assigned the %s donation", subject), "pickup at", pickup)
		}

		return withTime(fmt.Sprintf("Your %s donation was assigned to dealer %s", subject, displayName(users, p.dealerID)), "pickup at", pickup)
	case actionInProgress:
		return fmt.Sprintf("Dealer %s started the pickup of your %s donation", displayName(users, p.dealerID), subject)
	case actionPickedUp:
		return fmt.Sprintf("Your %s donation was picked up by %s", subject, displayName(users, p.dealerID))
	case actionDonated:
		if isDealer {
			return fmt.Sprintf("Handover of the %s donation you collected was confirmed", subject)
		}

		return fmt.Sprintf("Your %s donation handover was confirmed", subject)
	case actionRecyclerAssigned:
		if isRecycler {
			return fmt.Sprintf("You have been handed the %s donation for recycling", subject)
		}

		return fmt.Sprintf("Your %s donation was handed to recycler %s", subject, displayName(users, p.recyclerID))
	case actionProcessed:
		if isDealer {
			return fmt.Sprintf("The %s donation you collected was processed by %s", subject, displayName(users, p.recyclerID))
		}

		return fmt.Sprintf("Your %s donation was processed by %s", subject, displayName(users, p.recyclerID))
	case actionRecycled:
		if isDealer {
			return fmt.Sprintf("The %s donation you collected was fully recycled", subject)
		}

		return fmt.Sprintf("Your %s donation was fully recycled", subject)
	case actionCancelled:
		if isDealer {
			return fmt.Sprintf("The %s donation you were assigned was cancelled", subject)
		}

		return fmt.Sprintf("Your %s donation was cancelled", subject)
	}

	return ""
}

func rescueMessageFor(
	action string,
	recipientID uuid.UUID,
	subject, pickup string,
	users map[uuid.UUID]*entity.User,
	p *transitionParticipants,
) string {
	isVolunteer := p.volunteerID != nil && *p.volunteerID == recipientID

	switch action {
	case actionAssigned:
		if isVolunteer {
			return withTime(fmt.Sprintf("You have been assigned the %s rescue", subject), "pickup at", pickup)
		}

		return withTime(fmt.Sprintf("Your %s rescue was assigned to volunteer %s", subject, displayName(users, p.volunteerID)), "pickup at", pickup)
	case actionPickedUp:
		return fmt.Sprintf("Your %s was picked up by volunteer %s", subject, displayName(users, p.volunteerID))
	case actionShelter:
		if isVolunteer {
			return fmt.Sprintf("The %s rescue you handled reached a shelter", subject)
		}

		return fmt.Sprintf("Your %s was brought to a shelter", subject)
	case actionDropped:
		if isVolunteer {
			return fmt.Sprintf("The %s rescue you handled was dropped off at a shelter", subject)
		}

		return fmt.Sprintf("Your %s was dropped off at a shelter", subject)
	case actionRejected:
		return fmt.Sprintf("Your %s rescue request was rejected", subject)
	case actionCancelled:
		if isVolunteer {
			return fmt.Sprintf("The %s rescue you were assigned was cancelled", subject)
		}

		return fmt.Sprintf("Your %s rescue request was cancelled", subject)
	}

	return ""
}

func taskMessageFor(
	action string,
	recipientID uuid.UUID,
	subject, due string,
	users map[uuid.UUID]*entity.User,
	p *transitionParticipants,
) string {
	isVolunteer := p.volunteerID != nil && *p.volunteerID == recipientID

	switch action {
	case actionAssigned:
		if isVolunteer {
			return withTime(fmt.Sprintf("You have been assigned task %q", subject), "due", due)
		}

		return withTime(fmt.Sprintf("Task %q was assigned to %s", subject, displayName(users, p.volunteerID)), "due", due)
	case actionInProgress:
		return fmt.Sprintf("Task %q was started by %s", subject, displayName(users, p.volunteerID))
	case actionCompleted:
		return fmt.Sprintf("Task %q was completed by %s", subject, displayName(users, p.volunteerID))
	case actionCancelled:
		return fmt.Sprintf("Task %q was cancelled", subject)
	}

	return ""
}

// withTime appends a ", <label> <time>" clause when the time is known.
func withTime(base, label, formatted string) string {
	if formatted == "" {
		return base
	}

	return base + ", " + label + " " + formatted
}

func linkFor(event *service.TransitionEvent) string {
	switch event.EntityType {
	case entity.EntityRescue:
		return "/gaudaan/" + event.EntityID.String()
	case entity.EntityTask:
		return "/tasks/" + event.EntityID.String()
	default:
		return "/donations/" + event.EntityID.String()
	}
}

func pushTitleFor(entityType entity.EntityType) string {
	switch entityType {
	case entity.EntityRescue:
		return "Rescue update"
	case entity.EntityTask:
		return "Task update"
	default:
		return "Donation update"
	}
}

func displayName(users map[uuid.UUID]*entity.User, id *uuid.UUID) string {
	if id == nil {
		return "unknown"
	}
	if user, ok := users[*id]; ok && user.Name != "" {
		return user.Name
	}

	return "unknown"
}

func appendIfSet(ids []uuid.UUID, id *uuid.UUID) []uuid.UUID {
	if id != nil {
		ids = append(ids, *id)
	}

	return ids
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result
}
