package ws

const (
	// client - server
	MsgCollect    = "collect"
	MsgCollectAll = "collect_all"
	MsgMove       = "move"
	MsgPing       = "ping"

	// server - client
	MsgReady        = "ready"
	MsgFrame        = "frame"
	MsgNotification = "notification"
	MsgCollected    = "collected"
	MsgPong         = "pong"
	MsgError        = "error"
)

// Message is the envelope for every frame in both directions.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}
