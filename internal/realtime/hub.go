// Package realtime fans broadcast events out to live websocket connections
// grouped into rooms. Membership lives only in process memory and is lost on
// disconnect; delivery is best-effort, at-most-once.
package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Conn is the live connection surface the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// ResourceRoom names the room for everyone viewing one resource.
func ResourceRoom(resourceID string) string {
	return "resource:" + resourceID
}

// UserRoom names the personal room of one identity.
func UserRoom(userID string) string {
	return "user:" + userID
}

// ServerMessage is the envelope pushed to clients.
type ServerMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Notification is the personal-notification payload.
type Notification struct {
	Title   string      `json:"title"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Hub tracks room membership for live connections.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[Conn]struct{}
	logger *zap.Logger
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{rooms: make(map[string]map[Conn]struct{}), logger: logger}
}

// Join adds the connection to a room.
func (h *Hub) Join(room string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[Conn]struct{})
		h.rooms[room] = members
	}
	members[conn] = struct{}{}
}

// Leave removes the connection from a room.
func (h *Hub) Leave(room string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(room, conn)
}

// Remove drops the connection from every room, called on disconnect.
func (h *Hub) Remove(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.rooms {
		h.leaveLocked(room, conn)
	}
}

func (h *Hub) leaveLocked(room string, conn Conn) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, conn)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Broadcast writes the message to every connection in the room and returns
// the number of successful deliveries. Write failures evict the connection.
func (h *Hub) Broadcast(room string, msg ServerMessage) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for conn := range h.rooms[room] {
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Debug("dropping dead connection", zap.String("room", room), zap.Error(err))
			for r := range h.rooms {
				h.leaveLocked(r, conn)
			}
			_ = conn.Close()
			continue
		}
		delivered++
	}
	return delivered
}

// RoomSize reports current membership, for health and tests.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
