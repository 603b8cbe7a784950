package game

import (
	"cryptofarm/internal/domain"
	"cryptofarm/internal/formula"
)

// BuyComputer buys a computer type and places it on the first free cell.
// Checks run in order: worker capacity, funds, free slot. Nothing is
// mutated unless all of them pass.
func (e *Engine) BuyComputer(typeID string) (domain.OwnedComputer, error) {
	ct, ok := e.cat.Computer(typeID)
	if !ok {
		return domain.OwnedComputer{}, ErrUnknownItem
	}
	if !ct.Unlocked {
		return domain.OwnedComputer{}, ErrLocked
	}

	if role, ok := domain.RoleForTier(ct.Tier); ok {
		required := formula.RequiredWorkers(e.computers.CountTier(ct.Tier))
		if have := e.workers.CountRole(role); have < required {
			return domain.OwnedComputer{}, &WorkerShortageError{Role: role, Required: required, Have: have}
		}
	}
	if err := e.wallet.Require(ct.Cost); err != nil {
		return domain.OwnedComputer{}, err
	}
	cell, ok := e.computers.FreeCell(e.Grid())
	if !ok {
		return domain.OwnedComputer{}, ErrGridFull
	}

	if err := e.wallet.Debit(ct.Cost); err != nil {
		return domain.OwnedComputer{}, err
	}
	pc := &domain.OwnedComputer{
		ID:              e.newID(),
		Type:            ct,
		Token:           e.market.ActiveID(),
		Cell:            cell,
		LastCollectedAt: e.clock.Now(),
	}
	e.computers.add(pc)
	return *pc, nil
}

// RemoveComputer collects whatever the computer had pending, then removes it.
func (e *Engine) RemoveComputer(id string) (collected int64, err error) {
	pc, ok := e.computers.get(id)
	if !ok {
		return 0, ErrNotFound
	}
	collected = e.computers.collect(pc, e.clock.Now())
	e.wallet.Earn(collected)
	e.computers.remove(id)
	return collected, nil
}

// MoveComputer writes a new cell for a computer. The cell must be inside
// the unlocked grid and free.
func (e *Engine) MoveComputer(id string, cell domain.Cell) error {
	return e.computers.move(id, cell, e.Grid())
}

// HireWorker hires a worker at the discounted price.
func (e *Engine) HireWorker(typeID string) (domain.OwnedWorker, error) {
	wt, ok := e.cat.Worker(typeID)
	if !ok {
		return domain.OwnedWorker{}, ErrUnknownItem
	}
	if err := e.wallet.Debit(e.WorkerCost(wt)); err != nil {
		return domain.OwnedWorker{}, err
	}
	w := domain.OwnedWorker{ID: e.newID(), Type: wt}
	e.workers.add(w)
	return w, nil
}

// FireWorker removes a worker. Computers already owned stay.
func (e *Engine) FireWorker(id string) error {
	if !e.workers.remove(id) {
		return ErrNotFound
	}
	return nil
}

// BuyUpgrade raises an upgrade by one level. Buying room-space grows the
// grid one step because the grid is derived from that level.
func (e *Engine) BuyUpgrade(id string) (domain.Upgrade, error) {
	u, err := e.upgrades.check(id)
	if err != nil {
		return domain.Upgrade{}, err
	}
	if err := e.wallet.Debit(u.Cost); err != nil {
		return domain.Upgrade{}, err
	}
	e.upgrades.setLevel(id, u.CurrentLevel+1)
	return *u, nil
}

// SwitchToken makes id the active token and moves every computer onto it.
// Switching to the token already active is a no-op and reports false.
func (e *Engine) SwitchToken(id string) (switched bool, err error) {
	switched, err = e.market.checkSwitch(id)
	if err != nil || !switched {
		return false, err
	}
	if err := e.wallet.Debit(e.SwitchCost()); err != nil {
		return false, err
	}
	e.market.active = id
	e.computers.assignToken(id)
	return true, nil
}

// UpgradeTokenValue buys +5 value for a token.
func (e *Engine) UpgradeTokenValue(id string) (domain.Token, error) {
	cost, err := e.market.checkValueUpgrade(id)
	if err != nil {
		return domain.Token{}, err
	}
	if err := e.wallet.Debit(cost); err != nil {
		return domain.Token{}, err
	}
	e.market.upgradeValue(id)
	t, _ := e.market.Token(id)
	return t, nil
}

// TokenValueCost prices the next value purchase for a token.
func (e *Engine) TokenValueCost(id string) (int64, error) {
	return e.market.checkValueUpgrade(id)
}
