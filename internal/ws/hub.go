package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans activity events out to the websocket connections of each quiz
// owner. A user may hold several connections (tabs, devices).
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		users: make(map[string]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.users[userID] == nil {
		h.users[userID] = make(map[*websocket.Conn]bool)
	}
	h.users[userID][conn] = true
	slog.Debug("ws: client connected", "user", userID, "total", len(h.users[userID]))
}

func (h *Hub) RemoveConnection(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.users[userID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.users, userID)
		}
		slog.Debug("ws: client disconnected", "user", userID)
	}
}

// BroadcastToUser sends one message to every connection the user holds.
// Connections that fail to write are dropped.
func (h *Hub) BroadcastToUser(userID string, msgType string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.users[userID]
	if !ok {
		return
	}

	payload, err := json.Marshal(WSMessage{Type: msgType, Data: data})
	if err != nil {
		slog.Warn("ws: marshal error", "err", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			slog.Warn("ws: write error", "err", err)
			conn.Close()
			delete(conns, conn)
		}
	}
}
