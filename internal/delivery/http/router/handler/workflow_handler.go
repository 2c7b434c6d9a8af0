// Package handler contains the echo handlers for the HTTP API.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"daansetu/internal/delivery/http/middleware"
	"daansetu/internal/delivery/http/response"
	"daansetu/internal/domain/entity"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// WorkflowHandler holds dependencies for the workflow entity endpoints.
type WorkflowHandler struct {
	uc     usecase.WorkflowUsecase
	logger *slog.Logger
}

// NewWorkflowHandler is the constructor for WorkflowHandler.
func NewWorkflowHandler(uc usecase.WorkflowUsecase, logger *slog.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreateDonationRequest represents the request body for creating a donation.
type CreateDonationRequest struct {
	Category    string    `json:"category" validate:"required"`
	Description string    `json:"description"`
	WeightKg    float64   `json:"weight_kg" validate:"gte=0"`
	PickupAt    time.Time `json:"pickup_at"`
}

// CreateRescueRequest represents the request body for creating a rescue request.
type CreateRescueRequest struct {
	AnimalType string    `json:"animal_type" validate:"required"`
	Condition  string    `json:"condition"`
	Address    string    `json:"address" validate:"required"`
	PickupAt   time.Time `json:"pickup_at"`
}

// CreateTaskRequest represents the request body for creating a volunteer task.
type CreateTaskRequest struct {
	Title   string    `json:"title" validate:"required"`
	Details string    `json:"details"`
	DueAt   time.Time `json:"due_at"`
}

// TransitionRequest represents the request body for a status transition.
type TransitionRequest struct {
	Target    string `json:"target" validate:"required"`
	ActorRole string `json:"actor_role" validate:"required"`
	Note      string `json:"note"`

	DealerID    *uuid.UUID `json:"dealer_id,omitempty"`
	RecyclerID  *uuid.UUID `json:"recycler_id,omitempty"`
	VolunteerID *uuid.UUID `json:"volunteer_id,omitempty"`
	ShelterID   *uuid.UUID `json:"shelter_id,omitempty"`
}

// CreateDonation handles POST /donations.
func (h *WorkflowHandler) CreateDonation(c echo.Context) error {
	authUser, ok := middleware.AuthUser(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	var req CreateDonationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid donation input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	donation, err := h.uc.CreateDonation(c.Request().Context(), &usecase.CreateDonationInput{
		DonorID:     authUser.UserID,
		Category:    req.Category,
		Description: req.Description,
		WeightKg:    req.WeightKg,
		PickupAt:    req.PickupAt,
	})
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, donation, "Donation created successfully")
}

// CreateRescue handles POST /gaudaan.
func (h *WorkflowHandler) CreateRescue(c echo.Context) error {
	authUser, ok := middleware.AuthUser(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	var req CreateRescueRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rescue request input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	rescue, err := h.uc.CreateRescue(c.Request().Context(), &usecase.CreateRescueInput{
		DonorID:    authUser.UserID,
		AnimalType: req.AnimalType,
		Condition:  req.Condition,
		Address:    req.Address,
		PickupAt:   req.PickupAt,
	})
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, rescue, "Rescue request created successfully")
}

// CreateTask handles POST /tasks.
func (h *WorkflowHandler) CreateTask(c echo.Context) error {
	authUser, ok := middleware.AuthUser(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	task, err := h.uc.CreateTask(c.Request().Context(), &usecase.CreateTaskInput{
		CreatedBy: authUser.UserID,
		Title:     req.Title,
		Details:   req.Details,
		DueAt:     req.DueAt,
	})
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, task, "Task created successfully")
}

// GetDonation handles GET /donations/:id.
func (h *WorkflowHandler) GetDonation(c echo.Context) error {
	id, err := h.pathID(c)
	if err != nil {
		return err
	}

	donation, err := h.uc.GetDonation(c.Request().Context(), id)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, donation, "Donation retrieved successfully")
}

// GetRescue handles GET /gaudaan/:id.
func (h *WorkflowHandler) GetRescue(c echo.Context) error {
	id, err := h.pathID(c)
	if err != nil {
		return err
	}

	rescue, err := h.uc.GetRescue(c.Request().Context(), id)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, rescue, "Rescue request retrieved successfully")
}

// GetTask handles GET /tasks/:id.
func (h *WorkflowHandler) GetTask(c echo.Context) error {
	id, err := h.pathID(c)
	if err != nil {
		return err
	}

	task, err := h.uc.GetTask(c.Request().Context(), id)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, task, "Task retrieved successfully")
}

// TransitionDonation handles POST /donations/:id/transition.
func (h *WorkflowHandler) TransitionDonation(c echo.Context) error {
	return h.transition(c, entity.EntityDonation)
}

// TransitionRescue handles POST /gaudaan/:id/transition.
func (h *WorkflowHandler) TransitionRescue(c echo.Context) error {
	return h.transition(c, entity.EntityRescue)
}

// TransitionTask handles POST /tasks/:id/transition.
func (h *WorkflowHandler) TransitionTask(c echo.Context) error {
	return h.transition(c, entity.EntityTask)
}

// transition is the shared transition endpoint body.
func (h *WorkflowHandler) transition(c echo.Context, entityType entity.EntityType) error {
	authUser, ok := middleware.AuthUser(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	id, err := h.pathID(c)
	if err != nil {
		return err
	}

	var req TransitionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid transition input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	actorRole := entity.Role(req.ActorRole)
	if !actorRole.IsValid() {
		return response.BadRequest(c, "VALIDATION_ERROR", "actor_role is not a recognized role")
	}

	// The actor picks which of their roles this transition is performed as,
	// but it must be one they actually hold.
	if !authUser.Roles.Contains(actorRole) {
		return response.Forbidden(c, "FORBIDDEN", "You do not hold the '"+req.ActorRole+"' role")
	}

	result, err := h.uc.AttemptTransition(c.Request().Context(), &usecase.TransitionInput{
		EntityType:  entityType,
		EntityID:    id,
		ActorID:     authUser.UserID,
		ActorRole:   actorRole,
		Target:      entity.Status(req.Target),
		Note:        req.Note,
		DealerID:    req.DealerID,
		RecyclerID:  req.RecyclerID,
		VolunteerID: req.VolunteerID,
		ShelterID:   req.ShelterID,
	})
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result, "Transition applied successfully")
}

// pathID parses the :id path parameter.
func (h *WorkflowHandler) pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, response.BadRequest(c, "VALIDATION_ERROR", "id must be a valid UUID")
	}

	return id, nil
}

// handleAppError handles application errors
func (h *WorkflowHandler) handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
