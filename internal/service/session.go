package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"cryptofarm/internal/clock"
	"cryptofarm/internal/domain"
	"cryptofarm/internal/game"
	"cryptofarm/internal/logger"
	"cryptofarm/internal/metrics"
)

var ErrSessionClosed = errors.New("session closed")

// Publisher receives session output for the renderer and toasts.
type Publisher interface {
	PublishFrame(playerID string, frame game.RenderFrame)
	PublishNotification(playerID string, n domain.Notification)
	HasSubscribers(playerID string) bool
}

// Intervals are the session timers.
type Intervals struct {
	Accrual    time.Duration
	Market     time.Duration
	BoostPrune time.Duration
}

// DefaultIntervals: accrual 1s, market 10s, boost prune 5s.
var DefaultIntervals = Intervals{
	Accrual:    time.Second,
	Market:     10 * time.Second,
	BoostPrune: 5 * time.Second,
}

// Session owns one player's Engine on a single goroutine. Timers and
// commands are serialized by the run loop, so the engine needs no locks.
type Session struct {
	PlayerID string

	engine    *game.Engine
	intervals Intervals
	clock     clock.Clock
	pub       Publisher
	log       *slog.Logger

	cmds chan func(*game.Engine)
	quit chan struct{}
	done chan struct{}

	stopOnce   sync.Once
	lastActive atomic.Int64
	dirty      atomic.Bool
	// set by retire on the run loop, which exits right after
	retired bool

	greetMu  sync.Mutex
	greeting *domain.Notification
}

func newSession(playerID string, e *game.Engine, iv Intervals, clk clock.Clock, pub Publisher) *Session {
	s := &Session{
		PlayerID:  playerID,
		engine:    e,
		intervals: iv,
		clock:     clk,
		pub:       pub,
		log:       logger.WithPlayer(playerID),
		cmds:      make(chan func(*game.Engine)),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	s.touch()
	return s
}

func (s *Session) start() {
	go s.run()
}

func (s *Session) run() {
	defer close(s.done)

	accrual := time.NewTicker(s.intervals.Accrual)
	market := time.NewTicker(s.intervals.Market)
	prune := time.NewTicker(s.intervals.BoostPrune)
	defer accrual.Stop()
	defer market.Stop()
	defer prune.Stop()

	s.log.Debug("session started")
	for {
		select {
		case <-s.quit:
			s.log.Debug("session stopped")
			return

		case fn := <-s.cmds:
			fn(s.engine)
			if s.retired {
				s.log.Debug("session retired")
				return
			}

		case <-accrual.C:
			res := s.engine.Tick()
			metrics.Ticks.WithLabelValues("accrual").Inc()
			if res.Earned > 0 {
				metrics.CashMined.WithLabelValues("auto_collect").Add(float64(res.Earned))
			}
			if res.Earned > 0 || res.Accrued > 0 {
				s.dirty.Store(true)
				s.publishFrame()
			}

		case <-market.C:
			s.engine.FluctuateMarket()
			metrics.Ticks.WithLabelValues("market").Inc()
			s.dirty.Store(true)

		case <-prune.C:
			if n := s.engine.PruneBoosts(); n > 0 {
				s.log.Debug("boosts expired", "count", n)
				s.dirty.Store(true)
			}
			metrics.Ticks.WithLabelValues("boost_prune").Inc()
		}
	}
}

func (s *Session) publishFrame() {
	if s.pub != nil {
		s.pub.PublishFrame(s.PlayerID, s.engine.Frame())
	}
}

// Notify sends a toast to the player.
func (s *Session) Notify(n domain.Notification) {
	if s.pub != nil {
		s.pub.PublishNotification(s.PlayerID, n)
	}
}

// exec hands fn to the run loop. Once the loop has taken the command the
// caller waits for its result regardless of ctx, so a reported error always
// means nothing was applied.
func (s *Session) exec(ctx context.Context, fn func(e *game.Engine) error) error {
	errc := make(chan error, 1)
	cmd := func(e *game.Engine) {
		if err := ctx.Err(); err != nil {
			errc <- err
			return
		}
		errc <- fn(e)
	}

	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-errc
}

// Do runs a mutating command on the session goroutine and waits for it.
// On success the session is marked dirty and a new frame is pushed.
func (s *Session) Do(ctx context.Context, fn func(e *game.Engine) error) error {
	s.touch()
	return s.exec(ctx, func(e *game.Engine) error {
		if err := fn(e); err != nil {
			return err
		}
		s.dirty.Store(true)
		s.publishFrame()
		return nil
	})
}

// View runs a read-only function on the session goroutine.
func (s *Session) View(ctx context.Context, fn func(e *game.Engine) error) error {
	s.touch()
	return s.exec(ctx, fn)
}

// Encode serialises the engine and clears the dirty flag in the same
// step, so changes made after the snapshot mark the session dirty again.
func (s *Session) Encode(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.exec(ctx, func(e *game.Engine) error {
		var err error
		data, err = e.Encode()
		if err == nil {
			s.dirty.Store(false)
		}
		return err
	})
	return data, err
}

func (s *Session) markDirty() { s.dirty.Store(true) }

// retire stops the run loop if nothing happened since the snapshot that
// was taken when the session was last active at idleSince. It runs on the
// loop, so every command is either seen here (and the session stays) or
// rejected with ErrSessionClosed afterwards.
func (s *Session) retire(ctx context.Context, idleSince int64) (bool, error) {
	var retired bool
	err := s.exec(ctx, func(*game.Engine) error {
		if s.dirty.Load() || s.lastActive.Load() != idleSince {
			return nil
		}
		s.retired = true
		retired = true
		return nil
	})
	return retired, err
}

// alive reports whether the run loop is still accepting commands.
func (s *Session) alive() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Stop ends the run loop and waits for it.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	<-s.done
}

func (s *Session) touch() {
	s.lastActive.Store(s.clock.Now().UnixNano())
}

// LastActive is the time of the last player command.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Dirty reports unsaved changes.
func (s *Session) Dirty() bool { return s.dirty.Load() }

func (s *Session) setGreeting(n domain.Notification) {
	s.greetMu.Lock()
	s.greeting = &n
	s.greetMu.Unlock()
}

// TakeGreeting returns the welcome-back toast once.
func (s *Session) TakeGreeting() (domain.Notification, bool) {
	s.greetMu.Lock()
	defer s.greetMu.Unlock()
	if s.greeting == nil {
		return domain.Notification{}, false
	}
	n := *s.greeting
	s.greeting = nil
	return n, true
}
