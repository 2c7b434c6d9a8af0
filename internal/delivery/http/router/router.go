// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"net/http"

	"daansetu/internal/delivery/http/middleware"
	"daansetu/internal/delivery/http/router/handler"
	"daansetu/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds the handlers and middleware injected by Fx.
type RouterParams struct {
	fx.In

	WorkflowHandler     *handler.WorkflowHandler
	NotificationHandler *handler.NotificationHandler
	SessionHandler      *handler.SessionHandler
	DeviceHandler       *handler.DeviceHandler
	RealtimeHandler     *handler.RealtimeHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	workflowHandler     *handler.WorkflowHandler
	notificationHandler *handler.NotificationHandler
	sessionHandler      *handler.SessionHandler
	deviceHandler       *handler.DeviceHandler
	realtimeHandler     *handler.RealtimeHandler
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		workflowHandler:     params.WorkflowHandler,
		notificationHandler: params.NotificationHandler,
		sessionHandler:      params.SessionHandler,
		deviceHandler:       params.DeviceHandler,
		realtimeHandler:     params.RealtimeHandler,
		authMiddleware:      params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signin", r.sessionHandler.SignIn)
		authGroup.POST("/signout", r.sessionHandler.SignOut)
	}

	authenticate := r.authMiddleware.Authenticate

	// Donation workflow
	donationGroup := e.Group("/donations")
	donationGroup.Use(authenticate)
	{
		donationGroup.POST("", r.workflowHandler.CreateDonation)
		donationGroup.GET("/:id", r.workflowHandler.GetDonation)
		donationGroup.POST("/:id/transition", r.workflowHandler.TransitionDonation)
	}

	// Animal rescue workflow
	rescueGroup := e.Group("/gaudaan")
	rescueGroup.Use(authenticate)
	{
		rescueGroup.POST("", r.workflowHandler.CreateRescue)
		rescueGroup.GET("/:id", r.workflowHandler.GetRescue)
		rescueGroup.POST("/:id/transition", r.workflowHandler.TransitionRescue)
	}

	// Volunteer task workflow; creation is admin-only
	taskGroup := e.Group("/tasks")
	taskGroup.Use(authenticate)
	{
		taskGroup.POST("", r.workflowHandler.CreateTask, r.authMiddleware.RequireRole(entity.RoleAdmin))
		taskGroup.GET("/:id", r.workflowHandler.GetTask)
		taskGroup.POST("/:id/transition", r.workflowHandler.TransitionTask)
	}

	// Notification inbox
	notificationGroup := e.Group("/notifications")
	notificationGroup.Use(authenticate)
	{
		notificationGroup.GET("", r.notificationHandler.ListNotifications)
		notificationGroup.GET("/unread-count", r.notificationHandler.UnreadCount)
		notificationGroup.POST("/:id/read", r.notificationHandler.MarkRead)
		notificationGroup.DELETE("", r.notificationHandler.ClearAll)
	}

	// Push device registrations
	deviceGroup := e.Group("/devices")
	deviceGroup.Use(authenticate)
	{
		deviceGroup.POST("", r.deviceHandler.RegisterDevice)
		deviceGroup.GET("", r.deviceHandler.GetUserDevices)
		deviceGroup.DELETE("/:id", r.deviceHandler.DeactivateDevice)
	}

	// Realtime notification stream
	e.GET("/ws", r.realtimeHandler.NotificationsWS, authenticate)
}
