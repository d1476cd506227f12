package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"workforce-portal/internal/models"
	"workforce-portal/internal/policy"
	"workforce-portal/pkg/logger"
)

// Event reports a successful write. Admins receive every event; employees
// only events addressed to everyone or to their user id.
type Event struct {
	Resource string   `json:"resource"`
	Action   string   `json:"action"`
	ID       string   `json:"id"`
	At       string   `json:"at"`
	Audience []string `json:"-"`
	Everyone bool     `json:"-"`
}

func (e Event) VisibleTo(id policy.Identity) bool {
	if e.Everyone || id.IsAdmin() {
		return true
	}
	for _, uid := range e.Audience {
		if uid == id.UserID {
			return true
		}
	}
	return false
}

// Client is one connected websocket. The connection handler drains Send.
type Client struct {
	Identity policy.Identity
	Send     chan []byte
}

func NewClient(id policy.Identity, buffer int) *Client {
	return &Client{Identity: id, Send: make(chan []byte, buffer)}
}

// Hub fans events out to connected clients.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx ends, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			h.drop(client)
		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				logger.ErrorLogger.Error("Error encoding event", zap.Error(err))
				continue
			}
			for client := range h.clients {
				if !event.VisibleTo(client.Identity) {
					continue
				}
				select {
				case client.Send <- message:
				default:
					// slow consumer
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// Register returns false when the hub is no longer running.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish never blocks; events are dropped when the queue is full.
func (h *Hub) Publish(event Event) {
	if event.At == "" {
		event.At = models.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		logger.SystemLogger.Warn("Event queue full, dropping event",
			zap.String("resource", event.Resource), zap.String("id", event.ID))
	}
}
