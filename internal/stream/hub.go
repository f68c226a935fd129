// Package stream pushes scoring events to websocket subscribers.
// Dashboards connect once and receive every score and comparison
// computed while they are attached.
package stream

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/righthome/righthome/internal/scoring"
)

// Message types pushed to subscribers.
const (
	MessageTypeScoreComputed       = "score_computed"
	MessageTypeComparisonCompleted = "comparison_completed"
	MessageTypePing                = "ping"
	MessageTypePong                = "pong"
)

// Message is the envelope for every websocket frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub tracks connected clients and fans broadcast messages out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates an empty hub. Call Run before serving connections.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes client lifecycle and broadcast events until the
// context is cancelled, then closes all remaining clients.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info().Str("component", "stream-hub").Msg("stream hub stopped")
			return ctx.Err()

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Debug().Str("client_id", client.id).Int("total_clients", total).Msg("stream client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Debug().Str("client_id", client.id).Int("total_clients", total).Msg("stream client disconnected")

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

// Broadcast queues a message for all clients. Drops the message when
// the queue is full rather than blocking the caller.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		log.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// ScoreComputed publishes a freshly computed score.
func (h *Hub) ScoreComputed(result scoring.ScoreResult) {
	h.Broadcast(MessageTypeScoreComputed, result)
}

// ComparisonCompleted publishes a finished batch comparison.
func (h *Hub) ComparisonCompleted(result scoring.ComparisonResult) {
	h.Broadcast(MessageTypeComparisonCompleted, result)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// fanOut delivers a message to every client. Clients whose send queue
// is full are dropped; a stalled reader must not hold up the rest.
func (h *Hub) fanOut(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(h.clients, client)
			log.Warn().Str("client_id", client.id).Msg("dropping slow stream client")
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
