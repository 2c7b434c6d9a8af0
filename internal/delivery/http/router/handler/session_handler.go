package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"daansetu/internal/delivery/http/response"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionHandler holds dependencies for the auth endpoints.
type SessionHandler struct {
	uc     usecase.SessionUsecase
	logger *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler.
func NewSessionHandler(uc usecase.SessionUsecase, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		uc:     uc,
		logger: logger,
	}
}

// SignInRequest represents the request body for signing in.
type SignInRequest struct {
	UserID   uuid.UUID `json:"user_id" validate:"required"`
	DeviceID string    `json:"device_id"`
	Platform string    `json:"platform"`
	FCMToken string    `json:"fcm_token"`
}

// SignInResponse represents the response body for a successful sign-in.
type SignInResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

// SignIn handles POST /auth/signin.
func (h *SessionHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sign-in input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	result, err := h.uc.SignIn(c.Request().Context(), req.UserID, &usecase.DeviceContext{
		DeviceID:  req.DeviceID,
		IPAddress: c.RealIP(),
		Platform:  req.Platform,
		FCMToken:  req.FCMToken,
	})
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, SignInResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}, "Signed in successfully")
}

// SignOut handles POST /auth/signout.
func (h *SessionHandler) SignOut(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" || tokenString == authHeader {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Bearer token required")
	}

	if err := h.uc.SignOut(c.Request().Context(), tokenString); err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Signed out successfully")
}

// handleAppError handles application errors
func (h *SessionHandler) handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
