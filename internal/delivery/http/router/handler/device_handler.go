package handler

import (
	"log/slog"
	"net/http"

	"daansetu/internal/delivery/http/middleware"
	"daansetu/internal/delivery/http/response"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DeviceHandler holds dependencies for the push device endpoints.
type DeviceHandler struct {
	uc     usecase.DeviceUsecase
	logger *slog.Logger
}

// NewDeviceHandler is the constructor for DeviceHandler.
func NewDeviceHandler(uc usecase.DeviceUsecase, logger *slog.Logger) *DeviceHandler {
	return &DeviceHandler{
		uc:     uc,
		logger: logger,
	}
}

// RegisterDeviceRequest represents the request body for registering a device.
type RegisterDeviceRequest struct {
	DeviceID string `json:"device_id" validate:"required"`
	FCMToken string `json:"fcm_token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

// RegisterDevice handles POST /devices.
func (h *DeviceHandler) RegisterDevice(c echo.Context) error {
	authUser, ok := middleware.AuthUser(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	var req RegisterDeviceRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid device input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	device, err := h.uc.RegisterDevice(c.Request().Context(), &usecase.RegisterDeviceInput{
		UserID:   authUser.UserID,
		DeviceID: req.DeviceID,
		FCMToken: req.FCMToken,
		Platform: req.Platform,
	})
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, device, "Device registered successfully")
}

// GetUserDevices handles GET /devices.
func (h *DeviceHandler) GetUserDevices(c echo.Context) error {
	authUser, ok := middleware.AuthUser(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	devices, err := h.uc.GetUserDevices(c.Request().Context(), authUser.UserID)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, devices, "Devices retrieved successfully")
}

// DeactivateDevice handles DELETE /devices/:id.
func (h *DeviceHandler) DeactivateDevice(c echo.Context) error {
	authUser, ok := middleware.AuthUser(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "id must be a valid UUID")
	}

	if err := h.uc.DeactivateDevice(c.Request().Context(), authUser.UserID, deviceID); err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Device deactivated successfully")
}

// handleAppError handles application errors
func (h *DeviceHandler) handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
