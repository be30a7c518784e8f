package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/codermanagement/task-tracker/internal/models"
)

// Event types pushed to user subscribers.
const (
	EventTaskAssigned   = "task.assigned"
	EventTaskUnassigned = "task.unassigned"
)

// Client represents a single subscriber connection.
// The network conn itself is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event is the message written to subscribers.
type Event struct {
	Type   string       `json:"type"`
	UserID string       `json:"userId"`
	Task   *models.Task `json:"task"`
	At     time.Time    `json:"at"`
}

// Hub maintains active user connections and broadcasts events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[Client]struct{}
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[Client]struct{}),
	}
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

// Unregister removes a client; if user has no more clients, cleans up map.
func (h *Hub) Unregister(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Subscribers returns the number of clients registered for a user.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Broadcast sends a message to all clients of a user. Sends happen outside
// the lock so a slow client cannot stall Register or Unregister. Failed
// writes are left for the owning handler to clean up.
func (h *Hub) Broadcast(userID string, message []byte) {
	for _, c := range h.snapshot(userID) {
		c.Send(message)
	}
}

func (h *Hub) snapshot(userID string) []Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		clients = append(clients, c)
	}
	return clients
}

// Publish encodes event and broadcasts it to the event's user.
func (h *Hub) Publish(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: failed to encode %s event: %v", event.Type, err)
		return
	}
	h.Broadcast(event.UserID, message)
}

func (h *Hub) TaskAssigned(userID string, task *models.Task) {
	h.Publish(Event{Type: EventTaskAssigned, UserID: userID, Task: task, At: time.Now().UTC()})
}

func (h *Hub) TaskUnassigned(userID string, task *models.Task) {
	h.Publish(Event{Type: EventTaskUnassigned, UserID: userID, Task: task, At: time.Now().UTC()})
}
