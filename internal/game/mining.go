package game

import (
	"time"

	"cryptofarm/internal/domain"
	"cryptofarm/internal/formula"
)

// TickResult summarises one accrual tick.
type TickResult struct {
	// Earned went straight to cash (auto-collect).
	Earned int64
	// Accrued was added to pending earnings.
	Accrued int64
}

// tickParams is read once per tick so every computer sees the same
// upgrade levels and boosts.
type tickParams struct {
	now          time.Time
	speedLevel   int
	miningBoost  float64
	cashBoost    float64
	earningsMult float64
	autoCollect  bool
}

func (e *Engine) tickParams() tickParams {
	now := e.clock.Now()
	mining, cash := e.boosts.Multipliers(now)
	return tickParams{
		now:          now,
		speedLevel:   e.upgrades.Level(domain.UpgradeMiningSpeed),
		miningBoost:  mining,
		cashBoost:    cash,
		earningsMult: formula.EarningsMultiplier(e.rebirths),
		autoCollect:  e.AutoCollect(),
	}
}

func (e *Engine) cashFor(pc *domain.OwnedComputer, p tickParams) int64 {
	token, ok := e.market.Token(pc.Token)
	if !ok {
		token = e.market.Active()
	}
	return formula.CashPerTick(formula.TickInput{
		BaseRate:               pc.Type.MiningRate,
		TokenPrice:             token.Price(),
		MiningSpeedLevel:       p.speedLevel,
		BoostMultiplier:        p.miningBoost,
		EarningsMultiplier:     p.earningsMult,
		RebirthBoostMultiplier: p.cashBoost,
	})
}

// Tick runs one 1-second accrual step over every owned computer.
func (e *Engine) Tick() TickResult {
	p := e.tickParams()
	var res TickResult
	for _, pc := range e.computers.items {
		amount := e.cashFor(pc, p)
		if amount <= 0 {
			continue
		}
		if p.autoCollect {
			e.wallet.Earn(amount)
			res.Earned += amount
			continue
		}
		pc.PendingEarnings += amount
		res.Accrued += amount
	}
	return res
}

// IncomePerSecond is what the next tick would produce, without mutating.
func (e *Engine) IncomePerSecond() int64 {
	p := e.tickParams()
	var total int64
	for _, pc := range e.computers.items {
		total += e.cashFor(pc, p)
	}
	return total
}

// Collect moves one computer's pending earnings into cash. An empty
// computer is a no-op.
func (e *Engine) Collect(id string) (int64, error) {
	pc, ok := e.computers.get(id)
	if !ok {
		return 0, ErrNotFound
	}
	amount := e.computers.collect(pc, e.clock.Now())
	e.wallet.Earn(amount)
	return amount, nil
}

// CollectAll collects every computer.
func (e *Engine) CollectAll() int64 {
	now := e.clock.Now()
	var total int64
	for _, pc := range e.computers.items {
		total += e.computers.collect(pc, now)
	}
	e.wallet.Earn(total)
	return total
}

// PendingTotal sums uncollected earnings.
func (e *Engine) PendingTotal() int64 {
	var total int64
	for _, pc := range e.computers.items {
		total += pc.PendingEarnings
	}
	return total
}
