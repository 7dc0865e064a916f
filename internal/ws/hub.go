package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-flow/internal/goroutine"
	"github.com/ignatzorin/freelance-flow/internal/models"
)

// События, которые сервер отправляет клиенту.
const (
	EventNotification = "notification"
	EventView         = "view"
	EventViewError    = "view_error"
)

// Hub управляет всеми WebSocket клиентами.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	recovery   *goroutine.RecoveryHandler
	done       chan struct{}
}

type message struct {
	userID  uuid.UUID
	payload []byte
}

// envelope формат сообщения: "type" содержит имя события, "data" полезную нагрузку.
type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NewHub создаёт новый хаб.
func NewHub(recovery *goroutine.RecoveryHandler) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
		recovery:   recovery,
		done:       make(chan struct{}),
	}
}

// Run запускает главный цикл хаба до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.userID, msg.payload)
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToUser отправляет событие всем подключениям пользователя.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event string, data interface{}) error {
	raw, err := encode(event, data)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- message{userID: userID, payload: raw}:
	case <-h.done:
	}
	return nil
}

// Notify рассылает транзиентное уведомление. nil игнорируется.
func (h *Hub) Notify(userID uuid.UUID, notification *models.Notification) error {
	if notification == nil {
		return nil
	}
	return h.BroadcastToUser(userID, EventNotification, notification)
}

// ConnectedClients количество подключений пользователя.
func (h *Hub) ConnectedClients(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func encode(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(envelope{Type: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}
	return raw, nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

func (h *Hub) send(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		if !client.enqueue(payload) {
			// Медленный клиент отключается.
			h.recovery.SafeGo("ws.hub.close", client.Close)
		}
	}
}
