package ws

import (
	"encoding/json"
	"sync"

	"cryptofarm/internal/domain"
	"cryptofarm/internal/game"
	"cryptofarm/internal/logger"
)

// Hub tracks live connections per player and fans session output out to
// them. A player may have several tabs open.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.PlayerID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.PlayerID] = set
	}
	set[c] = struct{}{}
	n := len(set)
	h.mu.Unlock()
	logger.Debug("ws client registered", "player_id", c.PlayerID, "connections", n)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.clients[c.PlayerID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.PlayerID)
		}
	}
	h.mu.Unlock()
	logger.Debug("ws client unregistered", "player_id", c.PlayerID)
}

// HasSubscribers reports whether the player has an open connection.
func (h *Hub) HasSubscribers(playerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[playerID]) > 0
}

// Len returns the number of connected players.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) PublishFrame(playerID string, frame game.RenderFrame) {
	h.broadcast(playerID, Message{Type: MsgFrame, Payload: frame})
}

func (h *Hub) PublishNotification(playerID string, n domain.Notification) {
	h.broadcast(playerID, Message{Type: MsgNotification, Payload: n})
}

// broadcast never blocks: it runs on the session goroutine, so a slow
// client loses messages instead of stalling the game.
func (h *Hub) broadcast(playerID string, msg Message) {
	h.mu.RLock()
	set := h.clients[playerID]
	if len(set) == 0 {
		h.mu.RUnlock()
		return
	}
	targets := make([]*Client, 0, len(set))
	for c := range set {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("ws marshal failed", "type", msg.Type, "error", err)
		return
	}
	for _, c := range targets {
		c.enqueue(data)
	}
}
