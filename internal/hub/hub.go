package hub

import (
	"encoding/json"
	"log"
	"sync"
)

// Event represents a real-time room event to be sent to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Client represents a single subscriber watching a room.
// The SSE handler drains the channel until the hub closes it.
type Client chan []byte

// ClientBuffer is the number of events a slow client may fall behind by.
const ClientBuffer = 16

// Hub fans room events out to subscribed clients.
type Hub struct {
	rooms map[uint]map[Client]bool
	mu    sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uint]map[Client]bool),
	}
}

// Subscribe registers a new client for roomID.
func (h *Hub) Subscribe(roomID uint) Client {
	client := make(Client, ClientBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[Client]bool)
	}
	h.rooms[roomID][client] = true
	return client
}

// Unsubscribe removes a client from a room and closes its channel.
func (h *Hub) Unsubscribe(roomID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[roomID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
}

// Subscribers returns how many clients are watching roomID.
func (h *Hub) Subscribers(roomID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Broadcast sends an event to all clients in a room.
func (h *Hub) Broadcast(roomID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("hub: failed to encode %s event for room %d: %v", event.Type, roomID, err)
		return
	}

	for client := range clients {
		// Non-blocking so a slow client never stalls the caller.
		select {
		case client <- messageBytes:
		default:
		}
	}
}

// Publish implements service.Publisher.
func (h *Hub) Publish(roomID uint, eventType string, payload any) {
	h.Broadcast(roomID, Event{Type: eventType, Payload: payload})
}
