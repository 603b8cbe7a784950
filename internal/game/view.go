package game

import (
	"cryptofarm/internal/domain"
	"cryptofarm/internal/formula"
)

// ComputerView is what the renderer needs for one computer.
type ComputerView struct {
	ID              string     `json:"id"`
	TypeID          string     `json:"type_id"`
	Name            string     `json:"name"`
	Icon            string     `json:"icon"`
	Tier            int        `json:"tier"`
	Token           string     `json:"token"`
	Position        [3]float64 `json:"position"`
	Active          bool       `json:"active"`
	PendingEarnings int64      `json:"pending_earnings"`
}

type WorkerView struct {
	ID     string            `json:"id"`
	TypeID string            `json:"type_id"`
	Role   domain.WorkerRole `json:"role"`
}

// RenderFrame is pushed to the renderer after every change.
type RenderFrame struct {
	Computers []ComputerView   `json:"computers"`
	Workers   []WorkerView     `json:"workers"`
	Grid      formula.GridSize `json:"grid"`
	Cash      int64            `json:"cash"`
}

// StateView is the full player-facing state.
type StateView struct {
	Cash               int64            `json:"cash"`
	TotalMined         int64            `json:"total_mined"`
	IncomePerSecond    int64            `json:"income_per_second"`
	PendingTotal       int64            `json:"pending_total"`
	RebirthCount       int              `json:"rebirth_count"`
	EarningsMultiplier float64          `json:"earnings_multiplier"`
	AutoCollect        bool             `json:"auto_collect"`
	Grid               formula.GridSize `json:"grid"`
	ActiveToken        string           `json:"active_token"`
	SwitchCost         int64            `json:"switch_cost"`
	Computers          []ComputerView   `json:"computers"`
	Workers            []WorkerView     `json:"workers"`
	Upgrades           []domain.Upgrade `json:"upgrades"`
	Tokens             []domain.Token   `json:"tokens"`
	Boosts             []domain.Boost   `json:"boosts"`
	Rebirth            RebirthStatus    `json:"rebirth"`
}

// Prices lists catalog entries at this player's current prices.
type Prices struct {
	Computers  []domain.ComputerType `json:"computers"`
	Workers    []WorkerPrice         `json:"workers"`
	Tokens     []TokenPrice          `json:"tokens"`
	Upgrades   []domain.Upgrade      `json:"upgrades"`
	SwitchCost int64                 `json:"switch_cost"`
}

type WorkerPrice struct {
	domain.WorkerType
	Price int64 `json:"price"`
}

type TokenPrice struct {
	domain.Token
	ValueUpgradeCost int64 `json:"value_upgrade_cost"`
}

func (e *Engine) computerViews() []ComputerView {
	active := e.market.ActiveID()
	out := make([]ComputerView, 0, e.computers.Len())
	for _, pc := range e.computers.items {
		out = append(out, ComputerView{
			ID:              pc.ID,
			TypeID:          pc.Type.ID,
			Name:            pc.Type.Name,
			Icon:            pc.Type.Icon,
			Tier:            pc.Type.Tier,
			Token:           pc.Token,
			Position:        Position(pc.Cell),
			Active:          pc.Token == active,
			PendingEarnings: pc.PendingEarnings,
		})
	}
	return out
}

func (e *Engine) workerViews() []WorkerView {
	out := make([]WorkerView, 0, e.workers.Len())
	for _, w := range e.workers.items {
		out = append(out, WorkerView{ID: w.ID, TypeID: w.Type.ID, Role: w.Type.Role})
	}
	return out
}

func (e *Engine) Frame() RenderFrame {
	return RenderFrame{
		Computers: e.computerViews(),
		Workers:   e.workerViews(),
		Grid:      e.Grid(),
		Cash:      e.wallet.Cash(),
	}
}

func (e *Engine) View() StateView {
	return StateView{
		Cash:               e.wallet.Cash(),
		TotalMined:         e.wallet.TotalMined(),
		IncomePerSecond:    e.IncomePerSecond(),
		PendingTotal:       e.PendingTotal(),
		RebirthCount:       e.rebirths,
		EarningsMultiplier: e.EarningsMultiplier(),
		AutoCollect:        e.AutoCollect(),
		Grid:               e.Grid(),
		ActiveToken:        e.market.ActiveID(),
		SwitchCost:         e.SwitchCost(),
		Computers:          e.computerViews(),
		Workers:            e.workerViews(),
		Upgrades:           e.upgrades.All(),
		Tokens:             e.market.Tokens(),
		Boosts:             e.ActiveBoosts(),
		Rebirth:            e.RebirthStatus(),
	}
}

func (e *Engine) Prices() Prices {
	p := Prices{
		Computers:  e.cat.Computers(),
		Upgrades:   e.upgrades.All(),
		SwitchCost: e.SwitchCost(),
	}
	for _, w := range e.cat.Workers() {
		p.Workers = append(p.Workers, WorkerPrice{WorkerType: w, Price: e.WorkerCost(w)})
	}
	for _, t := range e.market.tokens {
		p.Tokens = append(p.Tokens, TokenPrice{Token: t, ValueUpgradeCost: formula.TokenValueUpgradeCost(t.BasePrice, t.ValueLevel)})
	}
	return p
}
