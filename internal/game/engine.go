// Package game is the progression engine: one mutable aggregate per player
// with validated transitions for purchases, accrual, market and rebirth.
//
// An Engine is not safe for concurrent use. Exactly one goroutine owns it
// (see service.Session).
package game

import (
	"math/rand/v2"
	"time"

	"cryptofarm/internal/catalog"
	"cryptofarm/internal/clock"
	"cryptofarm/internal/domain"
	"cryptofarm/internal/formula"

	"github.com/google/uuid"
)

// Defaults for a fresh game and for the post-rebirth balance.
const (
	DefaultStartingCash = 20000
	DefaultRebirthCash  = 20000
)

type Config struct {
	StartingCash int64
	RebirthCash  int64
}

func (c Config) withDefaults() Config {
	if c.StartingCash <= 0 {
		c.StartingCash = DefaultStartingCash
	}
	if c.RebirthCash <= 0 {
		c.RebirthCash = DefaultRebirthCash
	}
	return c
}

type Engine struct {
	cat   *catalog.Catalog
	cfg   Config
	clock clock.Clock
	rng   *rand.Rand
	newID func() string

	wallet    Wallet
	computers ComputerInventory
	workers   WorkerInventory
	upgrades  UpgradeInventory
	market    Market
	boosts    Boosts
	rebirths  int
}

// New creates a fresh game. clk and rng may be nil.
func New(cat *catalog.Catalog, cfg Config, clk clock.Clock, rng *rand.Rand) *Engine {
	if clk == nil {
		clk = clock.Real{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	cfg = cfg.withDefaults()

	e := &Engine{
		cat:      cat,
		cfg:      cfg,
		clock:    clk,
		rng:      rng,
		newID:    uuid.NewString,
		upgrades: newUpgradeInventory(cat.Upgrades()),
		market:   newMarket(cat.Tokens()),
	}
	e.wallet.Reset(cfg.StartingCash)
	e.market.UnlockByRebirth(0)
	return e
}

func (e *Engine) Catalog() *catalog.Catalog { return e.cat }
func (e *Engine) Now() time.Time            { return e.clock.Now() }

func (e *Engine) Cash() int64                       { return e.wallet.Cash() }
func (e *Engine) TotalMined() int64                 { return e.wallet.TotalMined() }
func (e *Engine) RebirthCount() int                 { return e.rebirths }
func (e *Engine) Computers() []domain.OwnedComputer { return e.computers.All() }
func (e *Engine) Workers() []domain.OwnedWorker     { return e.workers.All() }
func (e *Engine) Upgrades() []domain.Upgrade        { return e.upgrades.All() }
func (e *Engine) Tokens() []domain.Token            { return e.market.Tokens() }
func (e *Engine) ActiveToken() domain.Token         { return e.market.Active() }
func (e *Engine) UpgradeLevel(id string) int        { return e.upgrades.Level(id) }

// Grid is derived from the room-space level and never stored.
func (e *Engine) Grid() formula.GridSize {
	return formula.GridSizeForLevel(e.upgrades.Level(domain.UpgradeRoomSpace))
}

func (e *Engine) EarningsMultiplier() float64 {
	return formula.EarningsMultiplier(e.rebirths)
}

func (e *Engine) AutoCollect() bool {
	return e.upgrades.Level(domain.UpgradeAutoCollect) >= 1
}

// ActiveBoosts returns boosts running now.
func (e *Engine) ActiveBoosts() []domain.Boost {
	return e.boosts.Active(e.clock.Now())
}

// PruneBoosts drops expired boosts.
func (e *Engine) PruneBoosts() int {
	return e.boosts.Prune(e.clock.Now())
}

// AddBoost pushes a boost lasting d from now.
func (e *Engine) AddBoost(t domain.BoostType, value float64, d time.Duration, source string) domain.Boost {
	b := domain.Boost{Type: t, Value: value, ExpiresAt: e.clock.Now().Add(d), Source: source}
	e.boosts.add(b)
	return b
}

// FluctuateMarket runs one market step on the engine's RNG.
func (e *Engine) FluctuateMarket() {
	e.market.Fluctuate(e.rng)
}

// WorkerCost is the discounted hiring price of a worker type.
func (e *Engine) WorkerCost(w domain.WorkerType) int64 {
	return formula.WorkerCost(w.Cost, e.upgrades.Level(domain.UpgradeWorkerDiscount))
}

// SwitchCost is the price of changing the active token.
func (e *Engine) SwitchCost() int64 {
	return formula.TokenSwitchCost(e.upgrades.Level(domain.UpgradeTokenDiscount))
}
