package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is a single websocket connection owned by one user. A user may hold
// several clients at once (multiple devices or tabs). NotifyEnabled is read
// from the user's record at registration; connections registered with the
// flag off stay open but never receive pushes.
type Client struct {
	UserID        uuid.UUID
	Conn          *websocket.Conn
	NotifyEnabled bool

	writeMu sync.Mutex
}

// WriteMessage serializes writes to the underlying connection. gorilla/websocket
// does not allow concurrent writers.
func (c *Client) WriteMessage(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.Conn.WriteMessage(messageType, data)
}

// Hub tracks live websocket connections keyed by user ID and pushes
// notifications to them as they are persisted.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates an empty connection hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
}

// Unregister removes a client from the hub and closes its connection.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()

	_ = c.Conn.Close()
}

// Publish sends the notification to every live connection of the recipient
// that registered with notifications enabled. Users without an open
// connection are silently skipped; write failures only log, the notification
// is already persisted.
func (h *Hub) Publish(recipientID uuid.UUID, notification *entity.Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		h.logger.Error("failed to marshal realtime notification",
			slog.String("recipient_id", recipientID.String()),
			slog.Any("error", err))

		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[recipientID] {
		if !c.NotifyEnabled {
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("failed to write realtime notification",
				slog.String("recipient_id", recipientID.String()),
				slog.Any("error", err))
		}
	}
}

// ConnectionCount reports the number of live connections for a user.
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[userID])
}

// Close drops every connection. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, set := range h.clients {
		for c := range set {
			_ = c.Conn.Close()
		}
		delete(h.clients, userID)
	}
}
