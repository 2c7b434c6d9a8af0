package realtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialTestConn upgrades a connection against a throwaway server and returns
// both ends: the server side goes into the hub, the client side reads what the
// hub publishes.
func dialTestConn(t *testing.T) (serverConn, clientConn *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = clientConn.Close() })

	select {
	case serverConn = <-serverConns:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for server-side connection")
	}

	return serverConn, clientConn
}

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHub_PublishReachesRegisteredClient(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()

	serverConn, clientConn := dialTestConn(t)
	client := &Client{UserID: userID, Conn: serverConn, NotifyEnabled: true}
	hub.Register(client)

	assert.Equal(t, 1, hub.ConnectionCount(userID))

	notification := &entity.Notification{
		ID:          uuid.New(),
		RecipientID: userID,
		Type:        entity.EntityDonation,
		Message:     "plastic donation picked up by Ravi",
		Link:        "/donations/" + uuid.NewString(),
		CreatedAt:   time.Now(),
	}
	hub.Publish(userID, notification)

	require.NoError(t, clientConn.SetReadDeadline(time.Now().Add(5*time.Second)))
	messageType, payload, err := clientConn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, messageType)

	var received entity.Notification
	require.NoError(t, json.Unmarshal(payload, &received))
	assert.Equal(t, notification.ID, received.ID)
	assert.Equal(t, notification.Message, received.Message)
	assert.Equal(t, notification.Link, received.Link)

	hub.Unregister(client)
	assert.Equal(t, 0, hub.ConnectionCount(userID))
}

func TestHub_PublishSkipsDisabledConnections(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()

	disabledServer, disabledClient := dialTestConn(t)
	enabledServer, enabledClient := dialTestConn(t)

	hub.Register(&Client{UserID: userID, Conn: disabledServer})
	hub.Register(&Client{UserID: userID, Conn: enabledServer, NotifyEnabled: true})

	assert.Equal(t, 2, hub.ConnectionCount(userID))

	hub.Publish(userID, &entity.Notification{
		ID:          uuid.New(),
		RecipientID: userID,
		Message:     "donation handover confirmed",
	})

	require.NoError(t, enabledClient.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, payload, err := enabledClient.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(payload), "donation handover confirmed")

	// The opted-out connection stays open but must receive nothing.
	require.NoError(t, disabledClient.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err = disabledClient.ReadMessage()
	require.Error(t, err)

	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestHub_PublishToUnknownRecipientIsNoop(t *testing.T) {
	hub := newTestHub()

	hub.Publish(uuid.New(), &entity.Notification{
		ID:      uuid.New(),
		Message: "nobody is listening",
	})
}

func TestHub_MultipleClientsPerUser(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()

	firstServer, firstClient := dialTestConn(t)
	secondServer, secondClient := dialTestConn(t)

	first := &Client{UserID: userID, Conn: firstServer, NotifyEnabled: true}
	second := &Client{UserID: userID, Conn: secondServer, NotifyEnabled: true}
	hub.Register(first)
	hub.Register(second)

	assert.Equal(t, 2, hub.ConnectionCount(userID))

	hub.Publish(userID, &entity.Notification{
		ID:          uuid.New(),
		RecipientID: userID,
		Message:     "task assigned",
	})

	for _, conn := range []*websocket.Conn{firstClient, secondClient} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(payload), "task assigned")
	}

	hub.Unregister(first)
	assert.Equal(t, 1, hub.ConnectionCount(userID))

	hub.Close()
	assert.Equal(t, 0, hub.ConnectionCount(userID))
}
