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

// workflowService implements the WorkflowUsecase interface.
type workflowService struct {
	txManager repository.TransactionManager
	publisher service.EventPublisher
	logger    *slog.Logger
}

// NewWorkflowService is the constructor for workflowService.
func NewWorkflowService(
	txManager repository.TransactionManager,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.WorkflowUsecase {
	return &workflowService{
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *workflowService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateDonation registers a new donation in its initial status.
func (srv *workflowService) CreateDonation(ctx context.Context, input *usecase.CreateDonationInput) (*entity.Donation, error) {
	srv.log(ctx).Info("Creating donation", slog.Any("donor_id", input.DonorID))

	now := time.Now()
	donation := &entity.Donation{
		ID:          uuid.New(),
		DonorID:     input.DonorID,
		Category:    input.Category,
		Description: input.Description,
		WeightKg:    input.WeightKg,
		PickupAt:    input.PickupAt,
		Status:      entity.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	audit := newAuditEntry(entity.EntityDonation, donation.ID, actionCreated, input.DonorID, entity.RoleDonor, "", now)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := srv.verifyUserRole(ctx, repoFactory, input.DonorID, entity.RoleDonor); err != nil {
			return err
		}

		if err := repoFactory.DonationRepo().Create(ctx, donation); err != nil {
			return errors.Wrap(err, "failed to create donation")
		}

		if err := repoFactory.DonationRepo().AppendHistory(ctx, audit); err != nil {
			return errors.Wrap(err, "failed to append history")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to create donation", slog.Any("error", err), slog.Any("donor_id", input.DonorID))

		return nil, errors.Wrap(err, "failed to create donation")
	}
	donation.History = []entity.AuditEntry{*audit}
	srv.log(ctx).Info("Successfully created donation", slog.Any("donation_id", donation.ID))

	return donation, nil
}

// CreateRescue registers a new rescue request in its initial status.
func (srv *workflowService) CreateRescue(ctx context.Context, input *usecase.CreateRescueInput) (*entity.RescueRequest, error) {
	srv.log(ctx).Info("Creating rescue request", slog.Any("donor_id", input.DonorID))

	now := time.Now()
	rescue := &entity.RescueRequest{
		ID:         uuid.New(),
		DonorID:    input.DonorID,
		AnimalType: input.AnimalType,
		Condition:  input.Condition,
		Address:    input.Address,
		PickupAt:   input.PickupAt,
		Status:     entity.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	audit := newAuditEntry(entity.EntityRescue, rescue.ID, actionCreated, input.DonorID, entity.RoleDonor, "", now)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := srv.verifyUserRole(ctx, repoFactory, input.DonorID, entity.RoleDonor); err != nil {
			return err
		}

		if err := repoFactory.RescueRepo().Create(ctx, rescue); err != nil {
			return errors.Wrap(err, "failed to create rescue request")
		}

		if err := repoFactory.RescueRepo().AppendHistory(ctx, audit); err != nil {
			return errors.Wrap(err, "failed to append history")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to create rescue request", slog.Any("error", err), slog.Any("donor_id", input.DonorID))

		return nil, errors.Wrap(err, "failed to create rescue request")
	}
	rescue.History = []entity.AuditEntry{*audit}
	srv.log(ctx).Info("Successfully created rescue request", slog.Any("rescue_id", rescue.ID))

	return rescue, nil
}

// CreateTask registers a new volunteer task in its initial status.
func (srv *workflowService) CreateTask(ctx context.Context, input *usecase.CreateTaskInput) (*entity.VolunteerTask, error) {
	srv.log(ctx).Info("Creating task", slog.Any("created_by", input.CreatedBy))

	now := time.Now()
	task := &entity.VolunteerTask{
		ID:        uuid.New(),
		CreatedBy: input.CreatedBy,
		Title:     input.Title,
		Details:   input.Details,
		DueAt:     input.DueAt,
		Status:    entity.StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	audit := newAuditEntry(entity.EntityTask, task.ID, actionCreated, input.CreatedBy, entity.RoleAdmin, "", now)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := srv.verifyUserRole(ctx, repoFactory, input.CreatedBy, entity.RoleAdmin); err != nil {
			return err
		}

		if err := repoFactory.TaskRepo().Create(ctx, task); err != nil {
			return errors.Wrap(err, "failed to create task")
		}

		if err := repoFactory.TaskRepo().AppendHistory(ctx, audit); err != nil {
			return errors.Wrap(err, "failed to append history")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to create task", slog.Any("error", err), slog.Any("created_by", input.CreatedBy))

		return nil, errors.Wrap(err, "failed to create task")
	}
	task.History = []entity.AuditEntry{*audit}
	srv.log(ctx).Info("Successfully created task", slog.Any("task_id", task.ID))

	return task, nil
}

// GetDonation retrieves a donation with its full history.
func (srv *workflowService) GetDonation(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	var donation *entity.Donation

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.DonationRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrEntityNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "donation not found")
			}

			return errors.Wrap(err, "failed to find donation")
		}
		donation = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get donation")
	}

	return donation, nil
}

// GetRescue retrieves a rescue request with its full history.
func (srv *workflowService) GetRescue(ctx context.Context, id uuid.UUID) (*entity.RescueRequest, error) {
	var rescue *entity.RescueRequest

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.RescueRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrEntityNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "rescue request not found")
			}

			return errors.Wrap(err, "failed to find rescue request")
		}
		rescue = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rescue request")
	}

	return rescue, nil
}

// GetTask retrieves a task with its full history.
func (srv *workflowService) GetTask(ctx context.Context, id uuid.UUID) (*entity.VolunteerTask, error) {
	var task *entity.VolunteerTask

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.TaskRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrEntityNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "task not found")
			}

			return errors.Wrap(err, "failed to find task")
		}
		task = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get task")
	}

	return task, nil
}

// AttemptTransition validates and applies one status transition atomically.
// The status update and the audit entry commit in the same transaction; the
// fan-out event is published only after the commit succeeds.
func (srv *workflowService) AttemptTransition(ctx context.Context, input *usecase.TransitionInput) (*usecase.TransitionResult, error) {
	srv.log(ctx).Info("Attempting transition",
		slog.String("entity_type", input.EntityType.String()),
		slog.Any("entity_id", input.EntityID),
		slog.String("target", input.Target.String()),
		slog.Any("actor_id", input.ActorID),
		slog.String("actor_role", input.ActorRole.String()))

	if !input.EntityType.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrInvalidArgument, "unknown entity type")
	}
	if !input.Target.ValidFor(input.EntityType) {
		return nil, errors.Wrapf(domainerrors.ErrInvalidTransition,
			"status %q is not defined for %s", input.Target, input.EntityType)
	}

	var (
		result *usecase.TransitionResult
		event  *service.TransitionEvent
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		switch input.EntityType {
		case entity.EntityDonation:
			result, event, err = srv.transitionDonation(ctx, repoFactory, input)
		case entity.EntityRescue:
			result, event, err = srv.transitionRescue(ctx, repoFactory, input)
		case entity.EntityTask:
			result, event, err = srv.transitionTask(ctx, repoFactory, input)
		}

		return err
	})

	if err != nil {
		srv.log(ctx).Error("Failed to apply transition", slog.Any("error", err),
			slog.String("entity_type", input.EntityType.String()), slog.Any("entity_id", input.EntityID))

		return nil, errors.Wrap(err, "failed to apply transition")
	}

	// Fan-out is asynchronous and best-effort: a publish failure never rolls
	// back the committed transition.
	if err := srv.publisher.PublishTransitionEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish transition event", slog.Any("error", err),
			slog.Any("entity_id", input.EntityID), slog.String("action", event.Action))
	}

	srv.log(ctx).Info("Successfully applied transition",
		slog.String("entity_type", input.EntityType.String()),
		slog.Any("entity_id", input.EntityID),
		slog.String("action", event.Action))

	return result, nil
}

func (srv *workflowService) transitionDonation(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	input *usecase.TransitionInput,
) (*usecase.TransitionResult, *service.TransitionEvent, error) {
	donationRepo := repoFactory.DonationRepo()

	donation, err := donationRepo.FindByID(ctx, input.EntityID)
	if err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return nil, nil, errors.Wrap(domainerrors.ErrNotFound, "donation not found")
		}

		return nil, nil, errors.Wrap(err, "failed to find donation")
	}

	rule := findTransitionRule(entity.EntityDonation, donation.Status, input.ActorRole, input.Target)
	if rule == nil {
		return nil, nil, wrapNoRule(donation.Status, input)
	}

	switch rule.relation {
	case relationAssignedDealer:
		if !donation.AssignedDealer(input.ActorID) {
			return nil, nil, errors.Wrap(domainerrors.ErrForbidden, "actor is not the assigned dealer")
		}
	case relationAssignedRecycler:
		if !donation.AssignedRecycler(input.ActorID) {
			return nil, nil, errors.Wrap(domainerrors.ErrForbidden, "actor is not the assigned recycler")
		}
	}

	// The recycler binding is a one-shot self-loop; repeating it is not a
	// silent no-op.
	if rule.action == actionRecyclerAssigned && donation.RecyclerID != nil {
		return nil, nil, errors.Wrap(domainerrors.ErrInvalidTransition, "recycler already assigned")
	}

	assign, err := srv.resolveAssignments(ctx, repoFactory, rule, input)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := donationRepo.UpdateStatusCAS(ctx, donation.ID, donation.Status, rule.target, assign); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, nil, errors.Wrap(domainerrors.ErrConflict, "donation status changed concurrently")
		}

		return nil, nil, errors.Wrap(err, "failed to update donation status")
	}

	audit := newAuditEntry(entity.EntityDonation, donation.ID, rule.action, input.ActorID, input.ActorRole, input.Note, now)
	if err := donationRepo.AppendHistory(ctx, audit); err != nil {
		return nil, nil, errors.Wrap(err, "failed to append history")
	}

	event := srv.newTransitionEvent(ctx, entity.EntityDonation, donation.ID, rule.action, donation.Status, rule.target, input, now)

	donation.Status = rule.target
	if assign.DealerID != nil {
		donation.DealerID = assign.DealerID
	}
	if assign.RecyclerID != nil {
		donation.RecyclerID = assign.RecyclerID
	}
	donation.History = append(donation.History, *audit)
	donation.UpdatedAt = now

	return &usecase.TransitionResult{
		EntityType: entity.EntityDonation,
		Audit:      audit,
		Donation:   donation,
	}, event, nil
}

func (srv *workflowService) transitionRescue(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	input *usecase.TransitionInput,
) (*usecase.TransitionResult, *service.TransitionEvent, error) {
	rescueRepo := repoFactory.RescueRepo()

	rescue, err := rescueRepo.FindByID(ctx, input.EntityID)
	if err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return nil, nil, errors.Wrap(domainerrors.ErrNotFound, "rescue request not found")
		}

		return nil, nil, errors.Wrap(err, "failed to find rescue request")
	}

	rule := findTransitionRule(entity.EntityRescue, rescue.Status, input.ActorRole, input.Target)
	if rule == nil {
		return nil, nil, wrapNoRule(rescue.Status, input)
	}

	if rule.relation == relationAssignedVolunteer && !rescue.AssignedVolunteer(input.ActorID) {
		return nil, nil, errors.Wrap(domainerrors.ErrForbidden, "actor is not the assigned volunteer")
	}

	assign, err := srv.resolveAssignments(ctx, repoFactory, rule, input)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := rescueRepo.UpdateStatusCAS(ctx, rescue.ID, rescue.Status, rule.target, assign); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, nil, errors.Wrap(domainerrors.ErrConflict, "rescue status changed concurrently")
		}

		return nil, nil, errors.Wrap(err, "failed to update rescue status")
	}

	audit := newAuditEntry(entity.EntityRescue, rescue.ID, rule.action, input.ActorID, input.ActorRole, input.Note, now)
	if err := rescueRepo.AppendHistory(ctx, audit); err != nil {
		return nil, nil, errors.Wrap(err, "failed to append history")
	}

	event := srv.newTransitionEvent(ctx, entity.EntityRescue, rescue.ID, rule.action, rescue.Status, rule.target, input, now)

	rescue.Status = rule.target
	if assign.VolunteerID != nil {
		rescue.VolunteerID = assign.VolunteerID
	}
	if assign.ShelterID != nil {
		rescue.ShelterID = assign.ShelterID
	}
	rescue.History = append(rescue.History, *audit)
	rescue.UpdatedAt = now

	return &usecase.TransitionResult{
		EntityType: entity.EntityRescue,
		Audit:      audit,
		Rescue:     rescue,
	}, event, nil
}

func (srv *workflowService) transitionTask(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	input *usecase.TransitionInput,
) (*usecase.TransitionResult, *service.TransitionEvent, error) {
	taskRepo := repoFactory.TaskRepo()

	task, err := taskRepo.FindByID(ctx, input.EntityID)
	if err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return nil, nil, errors.Wrap(domainerrors.ErrNotFound, "task not found")
		}

		return nil, nil, errors.Wrap(err, "failed to find task")
	}

	rule := findTransitionRule(entity.EntityTask, task.Status, input.ActorRole, input.Target)
	if rule == nil {
		return nil, nil, wrapNoRule(task.Status, input)
	}

	if rule.relation == relationAssignedVolunteer && !task.AssignedVolunteer(input.ActorID) {
		return nil, nil, errors.Wrap(domainerrors.ErrForbidden, "actor is not the assigned volunteer")
	}

	assign, err := srv.resolveAssignments(ctx, repoFactory, rule, input)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := taskRepo.UpdateStatusCAS(ctx, task.ID, task.Status, rule.target, assign); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, nil, errors.Wrap(domainerrors.ErrConflict, "task status changed concurrently")
		}

		return nil, nil, errors.Wrap(err, "failed to update task status")
	}

	audit := newAuditEntry(entity.EntityTask, task.ID, rule.action, input.ActorID, input.ActorRole, input.Note, now)
	if err := taskRepo.AppendHistory(ctx, audit); err != nil {
		return nil, nil, errors.Wrap(err, "failed to append history")
	}

	event := srv.newTransitionEvent(ctx, entity.EntityTask, task.ID, rule.action, task.Status, rule.target, input, now)

	task.Status = rule.target
	if assign.VolunteerID != nil {
		task.VolunteerID = assign.VolunteerID
	}
	task.History = append(task.History, *audit)
	task.UpdatedAt = now

	return &usecase.TransitionResult{
		EntityType: entity.EntityTask,
		Audit:      audit,
		Task:       task,
	}, event, nil
}

// resolveAssignments validates the side-channel reference a rule requires and
// builds the assignment set written alongside the status.
func (srv *workflowService) resolveAssignments(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	rule *transitionRule,
	input *usecase.TransitionInput,
) (repository.StatusAssignments, error) {
	var assign repository.StatusAssignments

	switch rule.requires {
	case sideChannelDealer:
		if input.DealerID == nil {
			return assign, errors.Wrap(domainerrors.ErrInvalidArgument, "dealer_id is required for this transition")
		}
		if err := srv.verifyUserRole(ctx, repoFactory, *input.DealerID, entity.RoleDealer); err != nil {
			return assign, err
		}
		assign.DealerID = input.DealerID
	case sideChannelRecycler:
		if input.RecyclerID == nil {
			return assign, errors.Wrap(domainerrors.ErrInvalidArgument, "recycler_id is required for this transition")
		}
		if err := srv.verifyUserRole(ctx, repoFactory, *input.RecyclerID, entity.RoleRecycler); err != nil {
			return assign, err
		}
		assign.RecyclerID = input.RecyclerID
	case sideChannelVolunteer:
		if input.VolunteerID == nil {
			return assign, errors.Wrap(domainerrors.ErrInvalidArgument, "volunteer_id is required for this transition")
		}
		if err := srv.verifyUserRole(ctx, repoFactory, *input.VolunteerID, entity.RoleVolunteer); err != nil {
			return assign, err
		}
		assign.VolunteerID = input.VolunteerID
	case sideChannelShelter:
		if input.ShelterID == nil {
			return assign, errors.Wrap(domainerrors.ErrInvalidArgument, "shelter_id is required for this transition")
		}
		if _, err := repoFactory.ShelterRepo().FindByID(ctx, *input.ShelterID); err != nil {
			if errors.Is(err, repository.ErrShelterNotFound) {
				return assign, errors.Wrap(domainerrors.ErrInvalidArgument, "shelter not found")
			}

			return assign, errors.Wrap(err, "failed to find shelter")
		}
		assign.ShelterID = input.ShelterID
	}

	return assign, nil
}

// verifyUserRole checks that the referenced user exists and holds the role.
func (srv *workflowService) verifyUserRole(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	userID uuid.UUID,
	role entity.Role,
) error {
	user, err := repoFactory.UserRepo().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrapf(domainerrors.ErrInvalidArgument, "%s user not found", role)
		}

		return errors.Wrap(err, "failed to find user")
	}

	if !user.HasRole(role) {
		return errors.Wrapf(domainerrors.ErrInvalidArgument, "user does not hold the %s role", role)
	}

	return nil
}

func (srv *workflowService) newTransitionEvent(
	ctx context.Context,
	entityType entity.EntityType,
	entityID uuid.UUID,
	action string,
	from, to entity.Status,
	input *usecase.TransitionInput,
	now time.Time,
) *service.TransitionEvent {
	return &service.TransitionEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    input.ActorID,
		ActorRole:  input.ActorRole,
		Note:       input.Note,
		OccurredAt: now,
	}
}

func newAuditEntry(
	entityType entity.EntityType,
	entityID uuid.UUID,
	action string,
	actorID uuid.UUID,
	actorRole entity.Role,
	note string,
	now time.Time,
) *entity.AuditEntry {
	return &entity.AuditEntry{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actorID,
		ActorRole:  actorRole,
		Note:       note,
		CreatedAt:  now,
	}
}

func wrapNoRule(current entity.Status, input *usecase.TransitionInput) error {
	return errors.Wrap(domainerrors.ErrInvalidTransition,
		fmt.Sprintf("no transition from %q to %q for role %s", current, input.Target, input.ActorRole))
}
