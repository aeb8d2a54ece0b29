// Package web exposes the control panel surface: a status API and a
// websocket feed of angle commands and lifecycle events that the
// virtual-robot visualization subscribes to.
package web

import (
	"encoding/json"
	"sync"

	"github.com/elicazer/AIRobotAssistant/internal/log"
)

// Message is one websocket payload: a typed JSON envelope.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Encode marshals the message once for fan-out to all clients.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Hub fans messages out to every connected websocket client.
// Broadcast never blocks the producer: slow clients are dropped.
type Hub struct {
	name string

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a hub; call Run in a goroutine before broadcasting.
func NewHub(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("websocket client connected", "hub", h.name, "id", client.id, "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Debug("websocket client disconnected", "hub", h.name, "id", client.id)

		case payload := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Client can't keep up with the pose stream.
					close(client.send)
					delete(h.clients, client)
					log.Warn("dropped slow websocket client", "hub", h.name, "id", client.id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a message for every client without blocking.
func (h *Hub) Broadcast(msg Message) {
	payload, err := msg.Encode()
	if err != nil {
		log.Warn("broadcast encode failed", "hub", h.name, "err", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		// Hub buffer full; pose frames are disposable.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
