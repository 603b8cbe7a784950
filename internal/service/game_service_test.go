package service

import (
	"context"
	"errors"
	"testing"

	"cryptofarm/internal/domain"
	"cryptofarm/internal/game"
)

func TestBuyComputerFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.game.BuyComputer(ctx, "p1", "budget-rig")
	if !errors.Is(err, game.ErrInsufficientWorkers) {
		t.Fatalf("err = %v; want worker shortage", err)
	}
	n, _ := env.pub.lastNotification("p1")
	if n.Title != "Not enough workers" {
		t.Fatalf("toast = %+v", n)
	}

	if _, err := env.game.HireWorker(ctx, "p1", "technician"); err != nil {
		t.Fatalf("HireWorker: %v", err)
	}
	pc, err := env.game.BuyComputer(ctx, "p1", "budget-rig")
	if err != nil {
		t.Fatalf("BuyComputer: %v", err)
	}
	if pc.Type.ID != "budget-rig" {
		t.Fatalf("bought %s", pc.Type.ID)
	}
	n, _ = env.pub.lastNotification("p1")
	if n.Severity != domain.SeveritySuccess {
		t.Fatalf("toast = %+v", n)
	}
	if env.pub.frameCount("p1") < 2 {
		t.Fatalf("frames = %d; want one per successful action", env.pub.frameCount("p1"))
	}

	st, err := env.game.State(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if st.Cash != 17500 || len(st.Computers) != 1 || len(st.Workers) != 1 {
		t.Fatalf("state = cash %d, %d computers, %d workers", st.Cash, len(st.Computers), len(st.Workers))
	}
}

func TestFailedActionLeavesSessionClean(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s, _ := env.manager.Get(ctx, "p1")
	if _, err := env.manager.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := env.game.BuyUpgrade(ctx, "p1", "no-such-upgrade"); !errors.Is(err, game.ErrUnknownItem) {
		t.Fatalf("err = %v", err)
	}
	if s.Dirty() {
		t.Fatalf("failed action marked the session dirty")
	}
}

func TestSwitchTokenNoop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	switched, err := env.game.SwitchToken(ctx, "p1", "bitcoin")
	if err != nil || switched {
		t.Fatalf("SwitchToken(active) = %v, %v", switched, err)
	}
	if _, err := env.game.SwitchToken(ctx, "p1", "polkadot"); !errors.Is(err, game.ErrLocked) {
		t.Fatalf("err = %v; want locked", err)
	}
}

func TestMinigameResult(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	r, err := env.game.MinigameResult(ctx, "p1", game.MinigameHashCracker, true)
	if err != nil || r.Cash != 5000 {
		t.Fatalf("reward = %+v, %v", r, err)
	}
	r, err = env.game.MinigameResult(ctx, "p1", game.MinigameHashCracker, false)
	if err != nil || r.Cash != 0 {
		t.Fatalf("failed attempt = %+v, %v", r, err)
	}
	if _, err := env.game.MinigameResult(ctx, "p1", "snake", true); !errors.Is(err, game.ErrUnknownItem) {
		t.Fatalf("err = %v", err)
	}

	st, _ := env.game.State(ctx, "p1")
	if st.Cash != game.DefaultStartingCash+5000 {
		t.Fatalf("cash = %d", st.Cash)
	}
	if st.TotalMined != 0 {
		t.Fatalf("minigame cash counted as mined: %d", st.TotalMined)
	}
}

func TestRebirthRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	status, err := env.game.RebirthStatus(ctx, "p1")
	if err != nil || status.Ready {
		t.Fatalf("status = %+v, %v", status, err)
	}
	_, err = env.game.Rebirth(ctx, "p1")
	var req *game.RequirementsError
	if !errors.As(err, &req) || len(req.Unmet) != 2 {
		t.Fatalf("err = %v; want both requirements unmet", err)
	}
	n, _ := env.pub.lastNotification("p1")
	if n.Title != "Rebirth locked" {
		t.Fatalf("toast = %+v", n)
	}
}

func TestCollectUnknownComputer(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.game.Collect(context.Background(), "p1", "missing"); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
