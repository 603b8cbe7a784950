package domain

import "time"

// BoostType - тип временного бонуса
type BoostType string

const (
	// BoostTypeMultiplier умножает скорость майнинга
	BoostTypeMultiplier BoostType = "multiplier"
	// BoostTypeCash умножает итоговый кэш за тик
	BoostTypeCash BoostType = "boost"
)

// Boost - временный бонус, истекает по ExpiresAt
type Boost struct {
	Type      BoostType `json:"type"`
	Value     float64   `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
	Source    string    `json:"source,omitempty"`
}

// ActiveAt - бонус действует строго до момента истечения
func (b Boost) ActiveAt(now time.Time) bool {
	return now.Before(b.ExpiresAt)
}
