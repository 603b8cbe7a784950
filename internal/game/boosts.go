package game

import (
	"time"

	"cryptofarm/internal/domain"
)

// Boosts holds temporary multipliers. Entries are pure data with an
// absolute expiry, so they are filtered rather than cancelled.
type Boosts struct {
	items []domain.Boost
}

func (b *Boosts) add(boost domain.Boost) {
	b.items = append(b.items, boost)
}

// Active returns the boosts still running at now.
func (b *Boosts) Active(now time.Time) []domain.Boost {
	out := make([]domain.Boost, 0, len(b.items))
	for _, boost := range b.items {
		if boost.ActiveAt(now) {
			out = append(out, boost)
		}
	}
	return out
}

// Multipliers returns the product of active mining and cash boosts at now.
// Both are evaluated against the same instant.
func (b *Boosts) Multipliers(now time.Time) (mining, cash float64) {
	mining, cash = 1, 1
	for _, boost := range b.items {
		if !boost.ActiveAt(now) {
			continue
		}
		switch boost.Type {
		case domain.BoostTypeMultiplier:
			mining *= boost.Value
		case domain.BoostTypeCash:
			cash *= boost.Value
		}
	}
	return mining, cash
}

// Prune drops expired boosts and returns how many were removed.
func (b *Boosts) Prune(now time.Time) int {
	kept := b.items[:0]
	for _, boost := range b.items {
		if boost.ActiveAt(now) {
			kept = append(kept, boost)
		}
	}
	removed := len(b.items) - len(kept)
	b.items = kept
	return removed
}

func (b *Boosts) Len() int { return len(b.items) }
