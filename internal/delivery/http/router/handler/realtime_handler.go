package handler

import (
	"log/slog"
	"net/http"
	"time"

	"daansetu/internal/delivery/http/middleware"
	"daansetu/internal/delivery/http/response"
	"daansetu/internal/infra/realtime"
	"daansetu/internal/usecase"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const pingInterval = 25 * time.Second

// RealtimeHandler upgrades authenticated requests to websocket connections
// registered with the notification hub.
type RealtimeHandler struct {
	hub            *realtime.Hub
	notificationUc usecase.NotificationUsecase
	logger         *slog.Logger
}

// NewRealtimeHandler is the constructor for RealtimeHandler.
func NewRealtimeHandler(hub *realtime.Hub, notificationUc usecase.NotificationUsecase, logger *slog.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		hub:            hub,
		notificationUc: notificationUc,
		logger:         logger,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind a proxy if needed
}

// NotificationsWS handles GET /ws.
func (h *RealtimeHandler) NotificationsWS(c echo.Context) error {
	authUser, ok := middleware.AuthUser(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	// The connection carries the user's notification preference for its whole
	// lifetime; flag-off connections stay open but receive nothing.
	notifyEnabled, err := h.notificationUc.NotificationsEnabled(c.Request().Context(), authUser.UserID)
	if err != nil {
		return response.InternalServerError(c, "INTERNAL", "Failed to resolve notification preference")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))

		return nil
	}

	client := &realtime.Client{UserID: authUser.UserID, Conn: conn, NotifyEnabled: notifyEnabled}
	h.hub.Register(client)

	// Ping to keep connections alive through proxies
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for range t.C {
			if err := client.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.hub.Unregister(client)

				return
			}
		}
	}()

	// Read loop ends on client close or error, then unregister
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.hub.Unregister(client)

			return nil
		}
	}
}
