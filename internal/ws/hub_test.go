package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-flow/internal/gateway"
	"github.com/ignatzorin/freelance-flow/internal/goroutine"
	"github.com/ignatzorin/freelance-flow/internal/logger"
	"github.com/ignatzorin/freelance-flow/internal/models"
	"github.com/ignatzorin/freelance-flow/internal/pkg/apperror"
)

type staticScope struct {
	userID uuid.UUID
}

func (s staticScope) UserID() uuid.UUID { return s.userID }

func (s staticScope) QueryRows(ctx context.Context, table string, filters []gateway.Filter, order *gateway.Order, dest interface{}) error {
	return nil
}

func (s staticScope) CountRows(ctx context.Context, table string, filters []gateway.Filter) (int, error) {
	return 0, nil
}

func (s staticScope) InsertRow(ctx context.Context, table string, record gateway.Record, dest interface{}) error {
	return nil
}

type received struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type harness struct {
	hub     *Hub
	userID  uuid.UUID
	clients chan *Client
	conn    *websocket.Conn
}

func newHarness(t *testing.T, loaders Loaders) *harness {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(goroutine.NewRecoveryHandler(logger.RecoveryLogger{}))
	go hub.Run(ctx)

	h := &harness{hub: hub, userID: uuid.New(), clients: make(chan *Client, 1)}
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(conn, hub, staticScope{userID: h.userID}, loaders)
		hub.Register(client)
		h.clients <- client
		client.Run(ctx)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	h.conn = conn

	return h
}

func (h *harness) client(t *testing.T) *Client {
	t.Helper()
	select {
	case c := <-h.clients:
		h.clients <- c
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("клиент не подключился")
		return nil
	}
}

func (h *harness) read(t *testing.T, timeout time.Duration) (*received, error) {
	t.Helper()
	_ = h.conn.SetReadDeadline(time.Now().Add(timeout))
	var msg received
	if err := h.conn.ReadJSON(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func TestHub_NotifyReachesUser(t *testing.T) {
	h := newHarness(t, nil)
	h.client(t)
	require.Eventually(t, func() bool { return h.hub.ConnectedClients(h.userID) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, h.hub.Notify(h.userID, models.Success("Client added successfully!")))
	require.NoError(t, h.hub.Notify(uuid.New(), models.Failure("чужое")))

	msg, err := h.read(t, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, EventNotification, msg.Type)

	var n models.Notification
	require.NoError(t, json.Unmarshal(msg.Data, &n))
	assert.Equal(t, models.Notification{Level: models.NotificationSuccess, Message: "Client added successfully!"}, n)

	_, err = h.read(t, 200*time.Millisecond)
	assert.Error(t, err, "уведомление другого пользователя не доставляется")
}

func TestClient_MountDeliversView(t *testing.T) {
	h := newHarness(t, Loaders{
		"dashboard": func(ctx context.Context, scope gateway.Scope) (interface{}, error) {
			return map[string]string{"owner": scope.UserID().String()}, nil
		},
	})
	h.client(t)

	require.NoError(t, h.conn.WriteJSON(ClientMessage{Type: MessageMount, View: "dashboard", ID: "v1"}))

	msg, err := h.read(t, 2*time.Second)
	require.NoError(t, err)
	require.Equal(t, EventView, msg.Type)

	var payload struct {
		ID   string            `json:"id"`
		View string            `json:"view"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, "v1", payload.ID)
	assert.Equal(t, h.userID.String(), payload.Data["owner"])
}

func TestClient_MountErrors(t *testing.T) {
	h := newHarness(t, Loaders{
		"stats": func(ctx context.Context, scope gateway.Scope) (interface{}, error) {
			return nil, apperror.Wrap(errors.New("db down"), apperror.ErrCodeDatabaseError, "Error fetching stats")
		},
	})
	h.client(t)

	require.NoError(t, h.conn.WriteJSON(ClientMessage{Type: MessageMount, View: "unknown", ID: "a"}))
	msg, err := h.read(t, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, EventViewError, msg.Type)

	require.NoError(t, h.conn.WriteJSON(ClientMessage{Type: MessageMount, View: "stats", ID: "b"}))
	msg, err = h.read(t, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, EventViewError, msg.Type)
	assert.Contains(t, string(msg.Data), "Error fetching stats")
}

func TestClient_UnmountDropsLateResult(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})

	h := newHarness(t, Loaders{
		"clients": func(ctx context.Context, scope gateway.Scope) (interface{}, error) {
			close(started)
			<-ctx.Done()
			close(cancelled)
			return "late", nil
		},
	})
	client := h.client(t)

	require.NoError(t, h.conn.WriteJSON(ClientMessage{Type: MessageMount, View: "clients", ID: "c1"}))
	<-started
	require.NoError(t, h.conn.WriteJSON(ClientMessage{Type: MessageUnmount, ID: "c1"}))

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("загрузка не отменена")
	}
	assert.Eventually(t, func() bool { return client.MountedViews() == 0 }, time.Second, 10*time.Millisecond)

	_, err := h.read(t, 200*time.Millisecond)
	assert.Error(t, err, "поздний результат не отправляется")
}

func TestClient_DisconnectTearsDownViews(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})

	h := newHarness(t, Loaders{
		"dashboard": func(ctx context.Context, scope gateway.Scope) (interface{}, error) {
			close(started)
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		},
	})
	client := h.client(t)

	require.NoError(t, h.conn.WriteJSON(ClientMessage{Type: MessageMount, View: "dashboard", ID: "d1"}))
	<-started
	require.NoError(t, h.conn.Close())

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("экран не разобран после отключения")
	}
	assert.Equal(t, 0, client.MountedViews())
	assert.Eventually(t, func() bool { return h.hub.ConnectedClients(h.userID) == 0 }, 2*time.Second, 10*time.Millisecond)
}
