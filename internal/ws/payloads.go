package ws

// client → server
type CollectPayload struct {
	ComputerID string `json:"computer_id"`
}

type MovePayload struct {
	ComputerID string     `json:"computer_id"`
	Position   [3]float64 `json:"position"` // world coordinates, y ignored
}

// server → client
type CollectedPayload struct {
	ComputerID string `json:"computer_id,omitempty"`
	Amount     int64  `json:"amount"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
