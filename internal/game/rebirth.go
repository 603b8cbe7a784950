package game

import (
	"fmt"

	"cryptofarm/internal/domain"
	"cryptofarm/internal/formula"
)

// Requirement is one condition of the next rebirth.
type Requirement struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Have        int64  `json:"have"`
	Need        int64  `json:"need"`
	Met         bool   `json:"met"`
}

// RebirthStatus previews the next rebirth.
type RebirthStatus struct {
	Count          int           `json:"count"`
	NextCount      int           `json:"next_count"`
	Cost           int64         `json:"cost"`
	Multiplier     float64       `json:"multiplier"`
	NextMultiplier float64       `json:"next_multiplier"`
	Requirements   []Requirement `json:"requirements"`
	Ready          bool          `json:"ready"`
}

// ownership requirement per rebirth level; the last entry repeats forever.
type ownershipRule struct {
	key   string
	label string
	count func(inv *ComputerInventory) int
}

func tierRule(tier int) ownershipRule {
	return ownershipRule{
		key:   fmt.Sprintf("tier%d", tier),
		label: fmt.Sprintf("Own a tier %d computer", tier),
		count: func(inv *ComputerInventory) int { return inv.CountTier(tier) },
	}
}

func classRule(class domain.ComputerClass) ownershipRule {
	return ownershipRule{
		key:   string(class),
		label: fmt.Sprintf("Own a %s computer", class),
		count: func(inv *ComputerInventory) int { return inv.CountClass(class) },
	}
}

var rebirthRules = []ownershipRule{
	tierRule(1),
	tierRule(2),
	classRule(domain.ComputerClassGaming),
	classRule(domain.ComputerClassServer),
	classRule(domain.ComputerClassQuantum),
}

func ruleFor(count int) ownershipRule {
	if count >= len(rebirthRules) {
		return rebirthRules[len(rebirthRules)-1]
	}
	if count < 0 {
		count = 0
	}
	return rebirthRules[count]
}

// RebirthCost is the discounted cost of the next rebirth.
func (e *Engine) RebirthCost() int64 {
	return formula.RebirthCost(e.rebirths, e.upgrades.Level(domain.UpgradeRebirthDiscount))
}

// RebirthStatus evaluates every requirement without mutating.
func (e *Engine) RebirthStatus() RebirthStatus {
	rule := ruleFor(e.rebirths)
	owned := int64(rule.count(&e.computers))
	cost := e.RebirthCost()

	reqs := []Requirement{
		{Key: rule.key, Description: rule.label, Have: owned, Need: 1, Met: owned >= 1},
		{Key: "cash", Description: "Have enough cash", Have: e.wallet.Cash(), Need: cost, Met: e.wallet.Cash() >= cost},
	}
	ready := true
	for _, r := range reqs {
		ready = ready && r.Met
	}
	return RebirthStatus{
		Count:          e.rebirths,
		NextCount:      e.rebirths + 1,
		Cost:           cost,
		Multiplier:     formula.EarningsMultiplier(e.rebirths),
		NextMultiplier: formula.EarningsMultiplier(e.rebirths + 1),
		Requirements:   reqs,
		Ready:          ready,
	}
}

// Rebirth resets inventory progress for a permanent multiplier. If any
// requirement is unmet nothing changes and every unmet requirement is
// returned in a RequirementsError.
func (e *Engine) Rebirth() (RebirthStatus, error) {
	status := e.RebirthStatus()
	if !status.Ready {
		var unmet []Requirement
		for _, r := range status.Requirements {
			if !r.Met {
				unmet = append(unmet, r)
			}
		}
		return status, &RequirementsError{Unmet: unmet}
	}

	e.wallet.Reset(e.cfg.RebirthCash)
	e.computers.Reset()
	e.workers.Reset()
	e.upgrades.Reset(domain.UpgradeRoomSpace)
	e.market.resetActive()
	e.rebirths++
	e.market.UnlockByRebirth(e.rebirths)

	return e.RebirthStatus(), nil
}
