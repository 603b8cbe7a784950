package game

import (
	"cryptofarm/internal/domain"
	"cryptofarm/internal/formula"
)

// UpgradeInventory owns upgrade levels. Costs are always recomputed from
// level through the formula library.
type UpgradeInventory struct {
	items []domain.Upgrade
}

func newUpgradeInventory(defaults []domain.Upgrade) UpgradeInventory {
	return UpgradeInventory{items: append([]domain.Upgrade(nil), defaults...)}
}

func (inv *UpgradeInventory) All() []domain.Upgrade {
	return append([]domain.Upgrade(nil), inv.items...)
}

func (inv *UpgradeInventory) get(id string) (*domain.Upgrade, bool) {
	for i := range inv.items {
		if inv.items[i].ID == id {
			return &inv.items[i], true
		}
	}
	return nil, false
}

// Get returns a copy of an upgrade.
func (inv *UpgradeInventory) Get(id string) (domain.Upgrade, bool) {
	u, ok := inv.get(id)
	if !ok {
		return domain.Upgrade{}, false
	}
	return *u, true
}

// Level returns the current level, 0 for unknown ids.
func (inv *UpgradeInventory) Level(id string) int {
	if u, ok := inv.get(id); ok {
		return u.CurrentLevel
	}
	return 0
}

// check validates a purchase without mutating.
func (inv *UpgradeInventory) check(id string) (*domain.Upgrade, error) {
	u, ok := inv.get(id)
	if !ok {
		return nil, ErrUnknownItem
	}
	if u.Maxed() {
		return nil, ErrMaxLevelReached
	}
	return u, nil
}

// setLevel sets a level (clamped) and reprices the upgrade.
func (inv *UpgradeInventory) setLevel(id string, level int) {
	u, ok := inv.get(id)
	if !ok {
		return
	}
	if level < 0 {
		level = 0
	}
	if level > u.MaxLevel {
		level = u.MaxLevel
	}
	u.CurrentLevel = level
	u.Cost = formula.UpgradeCostAtLevel(u.BaseCost, level, u.IsExpansion())
}

// Reset returns one upgrade to level 0 and base cost. Only room-space is
// reset on rebirth; the rest are permanent.
func (inv *UpgradeInventory) Reset(id string) {
	inv.setLevel(id, 0)
}
