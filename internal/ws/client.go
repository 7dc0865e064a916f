package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/freelance-flow/internal/gateway"
	"github.com/ignatzorin/freelance-flow/internal/logger"
	"github.com/ignatzorin/freelance-flow/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-flow/internal/view"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	readLimit  = 64 * 1024
)

// Сообщения клиента.
const (
	MessageMount   = "mount"
	MessageUnmount = "unmount"
)

const msgViewLoadFailed = "Error loading view"

// Loader загружает данные экрана для владельца scope.
type Loader func(ctx context.Context, scope gateway.Scope) (interface{}, error)

// Loaders экраны, доступные для монтирования по имени.
type Loaders map[string]Loader

// ClientMessage входящее сообщение: {"type":"mount","view":"dashboard","id":"a1"}.
type ClientMessage struct {
	Type string `json:"type"`
	View string `json:"view,omitempty"`
	ID   string `json:"id"`
}

// ViewPayload данные смонтированного экрана.
type ViewPayload struct {
	ID    string      `json:"id"`
	View  string      `json:"view"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Client представляет одно подключение WebSocket.
type Client struct {
	conn    *websocket.Conn
	hub     *Hub
	userID  uuid.UUID
	scope   gateway.Scope
	loaders Loaders
	send    chan []byte

	mu        sync.Mutex
	views     map[string]*view.Instance
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
}

// NewClient создаёт нового клиента.
func NewClient(conn *websocket.Conn, hub *Hub, scope gateway.Scope, loaders Loaders) *Client {
	return &Client{
		conn:    conn,
		hub:     hub,
		userID:  scope.UserID(),
		scope:   scope,
		loaders: loaders,
		send:    make(chan []byte, 16),
		views:   make(map[string]*view.Instance),
		done:    make(chan struct{}),
	}
}

// Run запускает обработку входящих и исходящих сообщений и блокируется до отключения.
func (c *Client) Run(ctx context.Context) {
	c.hub.recovery.SafeGo("ws.client.write", c.writePump)
	defer c.hub.recovery.Recover("ws.client.read")
	c.readPump(ctx)
}

// Close разбирает все экраны и закрывает соединение.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		views := c.views
		c.views = make(map[string]*view.Instance)
		c.mu.Unlock()

		// Teardown вызывается без c.mu: commit экрана сам берёт c.mu через enqueue.
		for _, inst := range views {
			inst.Teardown()
		}

		close(c.done)
		c.hub.Unregister(c)
		_ = c.conn.Close()
	})
}

// MountedViews количество смонтированных экранов.
func (c *Client) MountedViews() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.views)
}

// enqueue ставит сообщение в очередь отправки; false, если очередь переполнена.
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) readPump(ctx context.Context) {
	defer c.Close()

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if ctx.Err() != nil {
			return
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.WithFields(map[string]interface{}{
					"user_id": c.userID,
					"error":   err.Error(),
				}).Debug("ws: соединение прервано")
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Log.WithField("user_id", c.userID).Debug("ws: некорректное сообщение клиента")
			continue
		}
		c.handle(ctx, msg)
	}
}

func (c *Client) handle(ctx context.Context, msg ClientMessage) {
	switch msg.Type {
	case MessageMount:
		c.mount(ctx, msg.ID, msg.View)
	case MessageUnmount:
		c.unmount(msg.ID)
	default:
		logger.Log.WithFields(map[string]interface{}{
			"user_id": c.userID,
			"type":    msg.Type,
		}).Debug("ws: неизвестный тип сообщения")
	}
}

// mount создаёт экземпляр экрана; повторный mount с тем же id заменяет прежний.
func (c *Client) mount(ctx context.Context, id, name string) {
	load, ok := c.loaders[name]
	if !ok {
		c.reply(EventViewError, ViewPayload{ID: id, View: name, Error: "unknown view"})
		return
	}

	inst := view.NewInstance(ctx, c.hub.recovery)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		inst.Teardown()
		return
	}
	prev := c.views[id]
	c.views[id] = inst
	c.mu.Unlock()

	if prev != nil {
		prev.Teardown()
	}

	inst.Go("ws.view."+name, func(ctx context.Context) (interface{}, error) {
		return load(ctx, c.scope)
	}, func(result interface{}, err error) {
		if err != nil {
			c.reply(EventViewError, ViewPayload{ID: id, View: name, Error: apperror.UserMessage(err, msgViewLoadFailed)})
			return
		}
		c.reply(EventView, ViewPayload{ID: id, View: name, Data: result})
	})
}

func (c *Client) unmount(id string) {
	c.mu.Lock()
	inst, ok := c.views[id]
	delete(c.views, id)
	c.mu.Unlock()

	if ok {
		inst.Teardown()
	}
}

func (c *Client) reply(event string, data interface{}) {
	raw, err := encode(event, data)
	if err != nil {
		logger.Log.WithField("error", err.Error()).Error("ws: не удалось отправить ответ")
		return
	}
	if !c.enqueue(raw) {
		c.hub.recovery.SafeGo("ws.client.close", c.Close)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
