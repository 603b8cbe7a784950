package game

import (
	"errors"
	"testing"

	"cryptofarm/internal/domain"
)

func TestRebirthRequirementsUnmet(t *testing.T) {
	e, _ := newTestEngine(t)
	before := e.Grid()

	_, err := e.Rebirth()
	var reqErr *RequirementsError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %v; want RequirementsError", err)
	}
	if !errors.Is(err, ErrRequirementsNotMet) {
		t.Fatalf("errors.Is(ErrRequirementsNotMet) = false")
	}
	if len(reqErr.Unmet) != 2 {
		t.Fatalf("unmet = %+v; want tier1 and cash", reqErr.Unmet)
	}
	if reqErr.Unmet[1].Key != "cash" || reqErr.Unmet[1].Need != 50000 || reqErr.Unmet[1].Have != 20000 {
		t.Fatalf("cash requirement = %+v", reqErr.Unmet[1])
	}
	if e.Cash() != 20000 || e.RebirthCount() != 0 || e.computers.Len() != 0 || e.Grid() != before {
		t.Fatalf("failed rebirth mutated state")
	}
}

func TestRebirthKeepsStateWhenOnlyCashMissing(t *testing.T) {
	e, _ := newTestEngine(t)
	addWorkers(t, e, "technician", 1)
	if _, err := e.BuyComputer("budget-rig"); err != nil {
		t.Fatal(err)
	}

	_, err := e.Rebirth()
	var reqErr *RequirementsError
	if !errors.As(err, &reqErr) || len(reqErr.Unmet) != 1 || reqErr.Unmet[0].Key != "cash" {
		t.Fatalf("err = %v", err)
	}
	if e.computers.Len() != 1 || e.workers.Len() != 1 || e.Cash() != 18500 {
		t.Fatalf("state changed")
	}
}

func TestRebirthResets(t *testing.T) {
	e, _ := newTestEngine(t)
	addWorkers(t, e, "technician", 1)
	if _, err := e.BuyComputer("budget-rig"); err != nil {
		t.Fatal(err)
	}
	e.wallet.Grant(50000)
	if _, err := e.BuyUpgrade(domain.UpgradeRoomSpace); err != nil {
		t.Fatal(err)
	}
	if _, err := e.BuyUpgrade(domain.UpgradeMiningSpeed); err != nil {
		t.Fatal(err)
	}

	status, err := e.Rebirth()
	if err != nil {
		t.Fatalf("rebirth: %v", err)
	}
	if status.Count != 1 || e.RebirthCount() != 1 {
		t.Fatalf("count = %d", e.RebirthCount())
	}
	if e.Cash() != DefaultRebirthCash {
		t.Fatalf("cash = %d", e.Cash())
	}
	if e.computers.Len() != 0 || e.workers.Len() != 0 {
		t.Fatalf("inventory not cleared")
	}
	if g := e.Grid(); g.Width != 3 || g.Height != 3 {
		t.Fatalf("grid = %+v", g)
	}
	if u, _ := e.upgrades.Get(domain.UpgradeRoomSpace); u.CurrentLevel != 0 || u.Cost != u.BaseCost {
		t.Fatalf("room-space = %+v", u)
	}
	if e.UpgradeLevel(domain.UpgradeMiningSpeed) != 1 {
		t.Fatalf("mining-speed should persist")
	}
	if e.ActiveToken().ID != "bitcoin" {
		t.Fatalf("active token = %s", e.ActiveToken().ID)
	}
	if eth, _ := e.market.Token("ethereum"); !eth.Unlocked {
		t.Fatalf("ethereum should unlock at rebirth 1")
	}
	if e.EarningsMultiplier() != 1.1 {
		t.Fatalf("multiplier = %v", e.EarningsMultiplier())
	}
	if status.Requirements[0].Key != "tier2" || status.Cost != 300000 {
		t.Fatalf("next status = %+v", status)
	}
}

func TestRebirthRuleTable(t *testing.T) {
	cases := []struct {
		count int
		key   string
	}{
		{0, "tier1"},
		{1, "tier2"},
		{2, "gaming"},
		{3, "server"},
		{4, "quantum"},
		{9, "quantum"},
	}
	for _, tc := range cases {
		if got := ruleFor(tc.count).key; got != tc.key {
			t.Fatalf("ruleFor(%d) = %s; want %s", tc.count, got, tc.key)
		}
	}
}

func TestRebirthDiscount(t *testing.T) {
	e, _ := newTestEngine(t)
	e.upgrades.setLevel(domain.UpgradeRebirthDiscount, 2)
	if got := e.RebirthCost(); got != 40000 {
		t.Fatalf("cost = %d; want 40000", got)
	}
}
