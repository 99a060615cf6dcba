// Package realtime pushes league changes to connected browsers over WebSocket.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dosada05/lamasia-league/models"
)

const (
	// RoomAll receives every league-wide message.
	RoomAll = "all"

	TypeSnapshotUpdated   = "SNAPSHOT_UPDATED"
	TypeStandingsUpdated  = "STANDINGS_UPDATED"
	TypeNotificationPopup = "NOTIFICATION_POPUP"
)

type Message struct {
	Type    string      `json:"type"`              // SNAPSHOT_UPDATED, STANDINGS_UPDATED, NOTIFICATION_POPUP
	Payload interface{} `json:"payload"`           // полезная нагрузка
	RoomID  string      `json:"room_id,omitempty"` // комната, в которую ушло сообщение
}

// UserRoom is the private room of one user.
func UserRoom(userID int) string {
	return fmt.Sprintf("user_%d", userID)
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run owns registration until ctx ends, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Join hands the client to Run. It reports false once the hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave detaches the client. After shutdown the client is already closed.
func (h *Hub) Leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range client.Rooms() {
		if _, ok := h.rooms[room]; !ok {
			h.rooms[room] = make(map[*Client]bool)
		}
		h.rooms[room][client] = true
	}
	h.logger.Info("websocket client registered",
		slog.Int("user_id", client.UserID),
		slog.Bool("popups", client.Popups),
		slog.Int("clients", len(h.rooms[RoomAll])))
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	registered := false
	for _, room := range client.Rooms() {
		if _, ok := h.rooms[room][client]; !ok {
			continue
		}
		registered = true
		delete(h.rooms[room], client)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	if !registered {
		return
	}
	client.close()
	h.logger.Info("websocket client unregistered",
		slog.Int("user_id", client.UserID),
		slog.Int("clients", len(h.rooms[RoomAll])))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.rooms {
		for client := range clients {
			client.close()
		}
	}
	h.rooms = make(map[string]map[*Client]bool)
}

// RoomSize reports how many clients are in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// BroadcastToRoom отправляет сообщение всем клиентам в указанной комнате.
func (h *Hub) BroadcastToRoom(room string, msg Message) {
	h.send(room, msg, nil)
}

// PushPopup delivers a stored notification to the sessions of its
// recipient that granted popup permission.
func (h *Hub) PushPopup(n models.Notification) {
	room := RoomAll
	if !n.IsBroadcast() {
		room = UserRoom(*n.UserID)
	}
	h.send(room, Message{Type: TypeNotificationPopup, Payload: n}, func(c *Client) bool { return c.Popups })
}

func (h *Hub) send(room string, msg Message, accept func(*Client) bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	msg.RoomID = room
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode websocket message",
			slog.String("room", room),
			slog.String("type", msg.Type),
			slog.Any("error", err))
		return
	}

	for client := range clients {
		if accept != nil && !accept(client) {
			continue
		}
		if !client.enqueue(payload) {
			h.logger.Warn("websocket send buffer full, message dropped",
				slog.String("room", room),
				slog.String("type", msg.Type),
				slog.Int("user_id", client.UserID))
		}
	}
}
