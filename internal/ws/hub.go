package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"messenger-service/internal/models"
	"messenger-service/internal/observability"
)

// Hub is the presence registry: it maps a user id to that user's live
// connections and routes outbound events to them. It is the only shared
// mutable state in the delivery core; all access goes through the mutex.
type Hub struct {
	sessions map[int]map[*Client]struct{}
	mu       sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[int]map[*Client]struct{})}
}

// Join registers a client under its owner. Joining the same client twice
// is a no-op.
func (h *Hub) Join(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[client.UserID]; !ok {
		h.sessions[client.UserID] = make(map[*Client]struct{})
	}
	h.sessions[client.UserID][client] = struct{}{}
}

// Leave removes a client from its owner's set. Unknown clients are
// ignored, so every disconnect path may call it unconditionally.
func (h *Hub) Leave(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.sessions[client.UserID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.sessions, client.UserID)
		}
	}
}

// ConnectionsFor returns the user's live clients, empty when offline.
func (h *Hub) ConnectionsFor(userID int) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]*Client, 0, len(h.sessions[userID]))
	for client := range h.sessions[userID] {
		clients = append(clients, client)
	}
	return clients
}

// IsOnline reports whether the user has at least one live connection.
func (h *Hub) IsOnline(userID int) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID]) > 0
}

// Deliver pushes an event to every live connection of the recipient,
// best effort. A recipient with no connections is a silent no-op; the
// persisted state is the durable record. A broken connection is closed
// and unregistered without affecting delivery to the others.
func (h *Hub) Deliver(recipient int, event models.ServerEvent) {
	clients := h.ConnectionsFor(recipient)
	if len(clients) == 0 {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.WithFields(log.Fields{"recipient": recipient, "event": event.Type}).
			WithError(err).Error("event marshal failed")
		return
	}

	for _, client := range clients {
		if err := client.write(payload); err != nil {
			log.WithFields(log.Fields{
				"recipient": recipient,
				"conn_id":   client.ConnID,
				"event":     event.Type,
			}).WithError(err).Warn("websocket write failed, dropping connection")
			client.Close()
			h.Leave(client)
			observability.IncDeliveryFailure(event.Type)
			h.publishWSError(client, err)
		}
	}
}

func (h *Hub) publishWSError(client *Client, err error) {
	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       "ws_error",
			"conn_id":     client.ConnID,
			"duration_ms": time.Since(client.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"user_id":   client.UserID,
			"device_id": client.DeviceID,
			"ip":        client.IP,
		},
	}

	headers := observability.BuildHeaders(client.RequestID, client.TraceID)
	_ = observability.PublishEvent(context.Background(), "ws_events.direct", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent("ws_error")
}
