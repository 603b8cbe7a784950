package game

import (
	"math/rand/v2"

	"cryptofarm/internal/domain"
	"cryptofarm/internal/formula"
)

const (
	fluctuationStep = 5
	minPriceFactor  = 0.5
	maxPriceFactor  = 3.0
)

// Market owns token live state and the active token.
type Market struct {
	tokens []domain.Token
	active string
}

func newMarket(tokens []domain.Token) Market {
	m := Market{tokens: append([]domain.Token(nil), tokens...)}
	if len(m.tokens) > 0 {
		m.active = m.tokens[0].ID
	}
	return m
}

func (m *Market) Tokens() []domain.Token {
	return append([]domain.Token(nil), m.tokens...)
}

func (m *Market) get(id string) (*domain.Token, bool) {
	for i := range m.tokens {
		if m.tokens[i].ID == id {
			return &m.tokens[i], true
		}
	}
	return nil, false
}

// Token returns a copy of a token.
func (m *Market) Token(id string) (domain.Token, bool) {
	t, ok := m.get(id)
	if !ok {
		return domain.Token{}, false
	}
	return *t, true
}

func (m *Market) ActiveID() string { return m.active }

// Active returns the active token.
func (m *Market) Active() domain.Token {
	t, _ := m.Token(m.active)
	return t
}

// UnlockByRebirth: token i (ordered by unlock tier) is unlocked iff rebirthCount >= i.
func (m *Market) UnlockByRebirth(rebirthCount int) {
	for i := range m.tokens {
		m.tokens[i].Unlocked = rebirthCount >= i
	}
}

// resetActive points the market back at the first token.
func (m *Market) resetActive() {
	if len(m.tokens) > 0 {
		m.active = m.tokens[0].ID
	}
}

// Fluctuate moves every unlocked token's profit rate by a random integer in
// [-5, +5], clamped to [0.5, 3] times the base price. Trend follows the
// change actually applied after clamping.
func (m *Market) Fluctuate(rng *rand.Rand) {
	for i := range m.tokens {
		t := &m.tokens[i]
		if !t.Unlocked {
			continue
		}
		delta := float64(rng.IntN(2*fluctuationStep+1) - fluctuationStep)
		next := clampPrice(t.ProfitRate+delta, t.BasePrice)
		t.Trend = domain.TrendOf(next - t.ProfitRate)
		t.ProfitRate = next
	}
}

func clampPrice(v, base float64) float64 {
	lo, hi := base*minPriceFactor, base*maxPriceFactor
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// checkSwitch validates switching to id. switched is false when id is
// already active.
func (m *Market) checkSwitch(id string) (switched bool, err error) {
	t, ok := m.get(id)
	if !ok {
		return false, ErrUnknownItem
	}
	if m.active == id {
		return false, nil
	}
	if !t.Unlocked {
		return false, ErrLocked
	}
	return true, nil
}

// checkValueUpgrade returns the price of the next value purchase.
func (m *Market) checkValueUpgrade(id string) (int64, error) {
	t, ok := m.get(id)
	if !ok {
		return 0, ErrUnknownItem
	}
	if !t.Unlocked {
		return 0, ErrLocked
	}
	return formula.TokenValueUpgradeCost(t.BasePrice, t.ValueLevel), nil
}

func (m *Market) upgradeValue(id string) {
	if t, ok := m.get(id); ok {
		t.Value += formula.TokenValueStep
		t.ValueLevel++
	}
}
