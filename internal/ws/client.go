package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"cryptofarm/internal/domain"
	"cryptofarm/internal/game"
	"cryptofarm/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait     = 10 * time.Second
	pongWait      = 30 * time.Second
	pingPeriod    = 25 * time.Second
	actionTimeout = 5 * time.Second
	maxMessage    = 4096
)

// Actions is the subset of the game service a socket can drive.
type Actions interface {
	Welcome(ctx context.Context, playerID string) (game.RenderFrame, *domain.Notification, error)
	Collect(ctx context.Context, playerID, computerID string) (int64, error)
	CollectAll(ctx context.Context, playerID string) (int64, error)
	MoveComputer(ctx context.Context, playerID, computerID string, cell domain.Cell) error
}

type Client struct {
	PlayerID string
	Conn     *websocket.Conn
	Send     chan []byte

	Hub     *Hub
	actions Actions
	Done    chan struct{}

	closeOnce sync.Once
}

func NewClient(playerID string, conn *websocket.Conn, hub *Hub, actions Actions) *Client {
	return &Client{
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Hub:      hub,
		actions:  actions,
		Done:     make(chan struct{}),
	}
}

// Run serves the connection until the peer goes away.
func (c *Client) Run() {
	go c.writePump()

	c.send(Message{Type: MsgReady})
	c.Hub.Register(c)
	defer c.Hub.Unregister(c)

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	frame, greeting, err := c.actions.Welcome(ctx, c.PlayerID)
	cancel()
	if err != nil {
		logger.Error("ws welcome failed", "player_id", c.PlayerID, "error", err)
		c.send(Message{Type: MsgError, Payload: ErrorPayload{Message: "failed to load game"}})
	} else {
		c.send(Message{Type: MsgFrame, Payload: frame})
		if greeting != nil {
			c.send(Message{Type: MsgNotification, Payload: *greeting})
		}
	}

	c.readPump()
}

func (c *Client) readPump() {
	defer c.close()

	c.Conn.SetReadLimit(maxMessage)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error", "player_id", c.PlayerID, "error", err)
			}
			return
		}
		c.HandleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.Done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write error", "player_id", c.PlayerID, "error", err)
				c.close()
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}

// HandleMessage dispatches one inbound frame.
func (c *Client) HandleMessage(raw []byte) {
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("malformed message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	switch msg.Type {
	case MsgPing:
		c.send(Message{Type: MsgPong})

	case MsgCollect:
		var p CollectPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.ComputerID == "" {
			c.sendError("computer_id required")
			return
		}
		amount, err := c.actions.Collect(ctx, c.PlayerID, p.ComputerID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.send(Message{Type: MsgCollected, Payload: CollectedPayload{ComputerID: p.ComputerID, Amount: amount}})

	case MsgCollectAll:
		amount, err := c.actions.CollectAll(ctx, c.PlayerID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.send(Message{Type: MsgCollected, Payload: CollectedPayload{Amount: amount}})

	case MsgMove:
		var p MovePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.ComputerID == "" {
			c.sendError("computer_id and position required")
			return
		}
		// the new frame is pushed by the session on success
		if err := c.actions.MoveComputer(ctx, c.PlayerID, p.ComputerID, game.CellAt(p.Position)); err != nil {
			c.sendError(err.Error())
		}

	default:
		c.sendError("unknown message type: " + msg.Type)
	}
}

func (c *Client) send(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("ws marshal failed", "type", msg.Type, "error", err)
		return
	}
	c.enqueue(data)
}

func (c *Client) sendError(message string) {
	c.send(Message{Type: MsgError, Payload: ErrorPayload{Message: message}})
}

func (c *Client) enqueue(data []byte) {
	select {
	case <-c.Done:
	case c.Send <- data:
	default:
		logger.Warn("ws send buffer full, dropping message", "player_id", c.PlayerID)
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.Done) })
}
