package service

import (
	"context"
	"errors"
	"fmt"

	"cryptofarm/internal/domain"
	"cryptofarm/internal/game"
	"cryptofarm/internal/metrics"
)

// GameService exposes the player operations. Every call runs on the
// player's session goroutine; results are audited, counted and toasted.
type GameService struct {
	sessions *SessionManager
	audit    *AuditService
}

// NewGameService creates a new game service
func NewGameService(sessions *SessionManager, audit *AuditService) *GameService {
	return &GameService{sessions: sessions, audit: audit}
}

// run executes fn on the player's session. A session retired by eviction
// between Get and the call never ran fn, so it is fetched again once.
func (s *GameService) run(ctx context.Context, playerID string, mutate bool, fn func(e *game.Engine) error) (*Session, error) {
	for attempt := 0; ; attempt++ {
		sess, err := s.sessions.Get(ctx, playerID)
		if err != nil {
			return nil, err
		}
		if mutate {
			err = sess.Do(ctx, fn)
		} else {
			err = sess.View(ctx, fn)
		}
		if errors.Is(err, ErrSessionClosed) && attempt == 0 {
			continue
		}
		return sess, err
	}
}

// do runs fn against the player's engine. On failure the player gets a
// toast explaining why; on success toast (if non-nil) is sent.
func (s *GameService) do(ctx context.Context, playerID, action string, fn func(e *game.Engine) error, toast func() *domain.Notification) error {
	sess, err := s.run(ctx, playerID, true, fn)
	if sess == nil {
		return err
	}
	metrics.Actions.WithLabelValues(action, metrics.ResultOf(err)).Inc()
	if err != nil {
		sess.Notify(NotificationFor(err))
		return err
	}
	if toast != nil {
		if n := toast(); n != nil {
			sess.Notify(*n)
		}
	}
	return nil
}

func (s *GameService) view(ctx context.Context, playerID string, fn func(e *game.Engine) error) error {
	_, err := s.run(ctx, playerID, false, fn)
	return err
}

// BuyComputer purchases a computer of the given catalog type.
func (s *GameService) BuyComputer(ctx context.Context, playerID, typeID string) (domain.OwnedComputer, error) {
	var pc domain.OwnedComputer
	err := s.do(ctx, playerID, "buy_computer", func(e *game.Engine) error {
		var err error
		pc, err = e.BuyComputer(typeID)
		return err
	}, func() *domain.Notification {
		n := success("Computer purchased", fmt.Sprintf("%s is now mining.", pc.Type.Name))
		return &n
	})
	if err != nil {
		return domain.OwnedComputer{}, err
	}
	s.audit.LogPurchase(ctx, playerID, domain.AuditActionBuyComputer, domain.AuditCategoryInventory, typeID, pc.Type.Cost)
	return pc, nil
}

// RemoveComputer sells nothing back; pending earnings are collected first.
func (s *GameService) RemoveComputer(ctx context.Context, playerID, computerID string) (int64, error) {
	var collected int64
	err := s.do(ctx, playerID, "remove_computer", func(e *game.Engine) error {
		var err error
		collected, err = e.RemoveComputer(computerID)
		return err
	}, nil)
	if err != nil {
		return 0, err
	}
	if collected > 0 {
		metrics.CashMined.WithLabelValues("collect").Add(float64(collected))
	}
	s.audit.Log(ctx, playerID, domain.AuditActionRemoveComputer, domain.AuditCategoryInventory, map[string]interface{}{
		"computer_id": computerID,
		"collected":   collected,
	})
	return collected, nil
}

func (s *GameService) MoveComputer(ctx context.Context, playerID, computerID string, cell domain.Cell) error {
	return s.do(ctx, playerID, "move_computer", func(e *game.Engine) error {
		return e.MoveComputer(computerID, cell)
	}, nil)
}

func (s *GameService) Collect(ctx context.Context, playerID, computerID string) (int64, error) {
	var got int64
	err := s.do(ctx, playerID, "collect", func(e *game.Engine) error {
		var err error
		got, err = e.Collect(computerID)
		return err
	}, nil)
	if err != nil {
		return 0, err
	}
	if got > 0 {
		metrics.CashMined.WithLabelValues("collect").Add(float64(got))
	}
	return got, nil
}

func (s *GameService) CollectAll(ctx context.Context, playerID string) (int64, error) {
	var got int64
	err := s.do(ctx, playerID, "collect_all", func(e *game.Engine) error {
		got = e.CollectAll()
		return nil
	}, func() *domain.Notification {
		if got == 0 {
			return nil
		}
		n := success("Collected", fmt.Sprintf("+%d cash", got))
		return &n
	})
	if err != nil {
		return 0, err
	}
	if got > 0 {
		metrics.CashMined.WithLabelValues("collect").Add(float64(got))
	}
	return got, nil
}

func (s *GameService) HireWorker(ctx context.Context, playerID, typeID string) (domain.OwnedWorker, error) {
	var (
		w    domain.OwnedWorker
		cost int64
	)
	err := s.do(ctx, playerID, "hire_worker", func(e *game.Engine) error {
		if wt, ok := e.Catalog().Worker(typeID); ok {
			cost = e.WorkerCost(wt)
		}
		var err error
		w, err = e.HireWorker(typeID)
		return err
	}, func() *domain.Notification {
		n := success("Worker hired", fmt.Sprintf("%s joined the farm.", w.Type.Name))
		return &n
	})
	if err != nil {
		return domain.OwnedWorker{}, err
	}
	s.audit.LogPurchase(ctx, playerID, domain.AuditActionHireWorker, domain.AuditCategoryInventory, typeID, cost)
	return w, nil
}

func (s *GameService) FireWorker(ctx context.Context, playerID, workerID string) error {
	err := s.do(ctx, playerID, "fire_worker", func(e *game.Engine) error {
		return e.FireWorker(workerID)
	}, nil)
	if err != nil {
		return err
	}
	s.audit.Log(ctx, playerID, domain.AuditActionFireWorker, domain.AuditCategoryInventory, map[string]interface{}{
		"worker_id": workerID,
	})
	return nil
}

// BuyUpgrade returns the upgrade at its new level.
func (s *GameService) BuyUpgrade(ctx context.Context, playerID, upgradeID string) (domain.Upgrade, error) {
	var (
		u    domain.Upgrade
		paid int64
	)
	err := s.do(ctx, playerID, "buy_upgrade", func(e *game.Engine) error {
		before := e.Cash()
		var err error
		u, err = e.BuyUpgrade(upgradeID)
		paid = before - e.Cash()
		return err
	}, func() *domain.Notification {
		n := success("Upgrade purchased", fmt.Sprintf("%s is now level %d.", u.Name, u.CurrentLevel))
		return &n
	})
	if err != nil {
		return domain.Upgrade{}, err
	}
	s.audit.LogPurchase(ctx, playerID, domain.AuditActionBuyUpgrade, domain.AuditCategoryUpgrade, upgradeID, paid)
	return u, nil
}

// SwitchToken activates a token. Switching to the active token is a no-op.
func (s *GameService) SwitchToken(ctx context.Context, playerID, tokenID string) (bool, error) {
	var (
		switched bool
		paid     int64
	)
	err := s.do(ctx, playerID, "switch_token", func(e *game.Engine) error {
		before := e.Cash()
		var err error
		switched, err = e.SwitchToken(tokenID)
		paid = before - e.Cash()
		return err
	}, func() *domain.Notification {
		if !switched {
			return nil
		}
		n := success("Token switched", fmt.Sprintf("Your farm now mines %s.", tokenID))
		return &n
	})
	if err != nil || !switched {
		return false, err
	}
	s.audit.LogPurchase(ctx, playerID, domain.AuditActionSwitchToken, domain.AuditCategoryMarket, tokenID, paid)
	return true, nil
}

func (s *GameService) UpgradeTokenValue(ctx context.Context, playerID, tokenID string) (domain.Token, error) {
	var (
		t    domain.Token
		paid int64
	)
	err := s.do(ctx, playerID, "upgrade_token", func(e *game.Engine) error {
		before := e.Cash()
		var err error
		t, err = e.UpgradeTokenValue(tokenID)
		paid = before - e.Cash()
		return err
	}, func() *domain.Notification {
		n := success("Token upgraded", fmt.Sprintf("%s value is now %.0f.", t.Symbol, t.Value))
		return &n
	})
	if err != nil {
		return domain.Token{}, err
	}
	s.audit.LogPurchase(ctx, playerID, domain.AuditActionUpgradeToken, domain.AuditCategoryMarket, tokenID, paid)
	return t, nil
}

func (s *GameService) RebirthStatus(ctx context.Context, playerID string) (game.RebirthStatus, error) {
	var st game.RebirthStatus
	err := s.view(ctx, playerID, func(e *game.Engine) error {
		st = e.RebirthStatus()
		return nil
	})
	return st, err
}

// Rebirth resets progress for a permanent multiplier.
func (s *GameService) Rebirth(ctx context.Context, playerID string) (game.RebirthStatus, error) {
	var (
		st   game.RebirthStatus
		cost int64
	)
	err := s.do(ctx, playerID, "rebirth", func(e *game.Engine) error {
		cost = e.RebirthCost()
		var err error
		st, err = e.Rebirth()
		return err
	}, func() *domain.Notification {
		n := success("Rebirth complete", fmt.Sprintf("Rebirth %d reached. Earnings x%.1f.", st.Count, st.Multiplier))
		return &n
	})
	if err != nil {
		return game.RebirthStatus{}, err
	}
	metrics.Rebirths.Inc()
	s.audit.LogRebirth(ctx, playerID, st.Count, cost)
	return st, nil
}

// MinigameResult applies a finished minigame. Failure grants nothing.
func (s *GameService) MinigameResult(ctx context.Context, playerID, gameID string, won bool) (game.MinigameReward, error) {
	var r game.MinigameReward
	err := s.do(ctx, playerID, "minigame", func(e *game.Engine) error {
		var err error
		r, err = e.ApplyMinigameResult(gameID, won)
		return err
	}, func() *domain.Notification {
		if !won {
			n := info("No reward", "Better luck next time.")
			return &n
		}
		var n domain.Notification
		if r.IsBoost() {
			n = success("Boost active", fmt.Sprintf("x%.1f for %s.", r.BoostValue, r.BoostDuration))
		} else {
			n = success("Reward", fmt.Sprintf("+%d cash", r.Cash))
		}
		return &n
	})
	if err != nil || !won {
		return r, err
	}
	if r.Cash > 0 {
		metrics.CashMined.WithLabelValues("minigame").Add(float64(r.Cash))
	}
	s.audit.LogReward(ctx, playerID, domain.AuditActionMinigameReward, map[string]interface{}{
		"game":        gameID,
		"cash":        r.Cash,
		"boost_type":  string(r.BoostType),
		"boost_value": r.BoostValue,
	})
	return r, nil
}

func (s *GameService) State(ctx context.Context, playerID string) (game.StateView, error) {
	var v game.StateView
	err := s.view(ctx, playerID, func(e *game.Engine) error {
		v = e.View()
		return nil
	})
	return v, err
}

func (s *GameService) Frame(ctx context.Context, playerID string) (game.RenderFrame, error) {
	var f game.RenderFrame
	err := s.view(ctx, playerID, func(e *game.Engine) error {
		f = e.Frame()
		return nil
	})
	return f, err
}

func (s *GameService) Prices(ctx context.Context, playerID string) (game.Prices, error) {
	var p game.Prices
	err := s.view(ctx, playerID, func(e *game.Engine) error {
		p = e.Prices()
		return nil
	})
	return p, err
}

// Welcome returns the first frame for a new connection and the pending
// welcome-back toast, if any.
func (s *GameService) Welcome(ctx context.Context, playerID string) (game.RenderFrame, *domain.Notification, error) {
	var f game.RenderFrame
	sess, err := s.run(ctx, playerID, false, func(e *game.Engine) error {
		f = e.Frame()
		return nil
	})
	if err != nil {
		return game.RenderFrame{}, nil, err
	}
	if n, ok := sess.TakeGreeting(); ok {
		return f, &n, nil
	}
	return f, nil, nil
}

// History is the player's audit trail.
func (s *GameService) History(ctx context.Context, playerID, category string, limit int) ([]*domain.AuditLog, error) {
	return s.audit.History(ctx, playerID, category, limit)
}
