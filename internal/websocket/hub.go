// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/prestream/prestream/internal/diagnostics"
	"github.com/prestream/prestream/internal/logging"
	"github.com/prestream/prestream/internal/metrics"
)

// Message types for WebSocket communication.
const (
	MessageTypeSnapshot     = "diagnostic_snapshot"
	MessageTypeStatusChange = "status_change"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
)

// Message is the envelope for every WebSocket frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// StatusChangeData is the payload of a status_change message, emitted
// only on transitions so dashboards can alert without diffing snapshots.
type StatusChangeData struct {
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"` // audio, video, network, overall
	Previous  string    `json:"previous"`
	Current   string    `json:"current"`
}

// Hub maintains the set of connected clients and fans broadcast messages
// out to them. Lifecycle events take priority over broadcasts so client
// state is consistent before any message is delivered; within a
// broadcast, clients are walked in ID order for reproducible delivery.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a hub; call RunWithContext to start it.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub until ctx is canceled, then closes every
// client and returns ctx.Err(). Designed to sit under a suture
// supervisor: a restart gets a clean client set.
func (h *Hub) RunWithContext(ctx context.Context) error {
	log := logging.WithComponent("websocket-hub")

	for {
		// Shutdown first, then lifecycle, then broadcasts. Go's select
		// picks randomly among ready channels; the staged non-blocking
		// checks impose the ordering.
		select {
		case <-ctx.Done():
			h.shutdown(log)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client, log)
			continue
		case client := <-h.Unregister:
			h.removeClient(client, log)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(log)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client, log)
		case client := <-h.Unregister:
			h.removeClient(client, log)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client, log zerolog.Logger) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnections.Set(float64(total))
	log.Info().Int("total_clients", total).Msg("client connected")
}

func (h *Hub) removeClient(client *Client, log zerolog.Logger) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnections.Set(float64(total))
	log.Info().Int("total_clients", total).Msg("client disconnected")
}

// broadcastToClients delivers message to every client in ID order.
// Clients whose send buffer is full are dropped on the spot; a consumer
// that cannot keep up with the snapshot cadence would otherwise stall
// everyone behind it.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var dropped []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WebSocketMessagesSent.WithLabelValues(message.Type).Inc()
		default:
			dropped = append(dropped, client)
		}
	}

	for _, client := range dropped {
		close(client.send)
		delete(h.clients, client)
		metrics.WebSocketClientsDropped.Inc()
		hubLog := logging.WithComponent("websocket-hub")
		hubLog.Warn().
			Uint64("client_id", client.id).
			Msg("dropped slow client")
	}
	metrics.WebSocketConnections.Set(float64(len(h.clients)))
}

func (h *Hub) shutdown(log zerolog.Logger) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.WebSocketConnections.Set(0)
	log.Info().Int("clients_closed", len(clients)).Msg("hub stopped")
}

// BroadcastSnapshot queues the latest composite snapshot for fan-out.
// Non-blocking: if the hub is saturated the snapshot is dropped, the
// next cycle supersedes it anyway.
func (h *Hub) BroadcastSnapshot(snapshot diagnostics.Snapshot) {
	message := Message{Type: MessageTypeSnapshot, Data: snapshot}
	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Msg("broadcast channel full, dropping snapshot")
	}
}

// BroadcastStatusChange queues a status transition notification.
func (h *Hub) BroadcastStatusChange(category, previous, current string) {
	data := StatusChangeData{
		Timestamp: time.Now().UTC(),
		Category:  category,
		Previous:  previous,
		Current:   current,
	}
	message := Message{Type: MessageTypeStatusChange, Data: data}
	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("category", category).Msg("broadcast channel full, dropping status change")
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
