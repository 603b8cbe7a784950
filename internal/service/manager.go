package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cryptofarm/internal/catalog"
	"cryptofarm/internal/clock"
	"cryptofarm/internal/domain"
	"cryptofarm/internal/game"
	"cryptofarm/internal/logger"
	"cryptofarm/internal/metrics"
	"cryptofarm/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// SaveStore holds one snapshot per player.
type SaveStore interface {
	Load(ctx context.Context, playerID string) ([]byte, error)
	Save(ctx context.Context, playerID string, data []byte) error
	Ping(ctx context.Context) error
}

type ManagerConfig struct {
	Game        game.Config
	Intervals   Intervals
	IdleTimeout time.Duration
}

// SessionManager loads, creates, saves and evicts sessions.
type SessionManager struct {
	cat   *catalog.Catalog
	cfg   ManagerConfig
	clock clock.Clock
	store SaveStore
	pub   Publisher
	audit *AuditService

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
	loads    singleflight.Group
}

func NewSessionManager(cat *catalog.Catalog, cfg ManagerConfig, clk clock.Clock, store SaveStore, pub Publisher, audit *AuditService) *SessionManager {
	if clk == nil {
		clk = clock.Real{}
	}
	if cfg.Intervals.Accrual <= 0 || cfg.Intervals.Market <= 0 || cfg.Intervals.BoostPrune <= 0 {
		cfg.Intervals = DefaultIntervals
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	return &SessionManager{
		cat:      cat,
		cfg:      cfg,
		clock:    clk,
		store:    store,
		pub:      pub,
		audit:    audit,
		sessions: make(map[string]*Session),
	}
}

// Get returns the live session, loading it from the store if needed. A
// player without a save gets a fresh game. Store reads run outside the
// manager lock; concurrent Gets for one player share a single load.
func (m *SessionManager) Get(ctx context.Context, playerID string) (*Session, error) {
	if s, err := m.lookup(playerID); s != nil || err != nil {
		return s, err
	}
	v, err, _ := m.loads.Do(playerID, func() (interface{}, error) {
		if s, err := m.lookup(playerID); s != nil || err != nil {
			return s, err
		}
		return m.load(ctx, playerID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// lookup returns a running session from the map. Retired sessions that
// eviction has not removed yet count as absent.
func (m *SessionManager) lookup(playerID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrSessionClosed
	}
	if s, ok := m.sessions[playerID]; ok && s.alive() {
		return s, nil
	}
	return nil, nil
}

func (m *SessionManager) load(ctx context.Context, playerID string) (*Session, error) {
	log := logger.WithPlayer(playerID)

	data, err := m.store.Load(ctx, playerID)
	if err != nil && !errors.Is(err, repository.ErrSaveNotFound) {
		return nil, fmt.Errorf("load save: %w", err)
	}

	engine, rep := game.Restore(m.cat, m.cfg.Game, m.clock, nil, data)
	s := newSession(playerID, engine, m.cfg.Intervals, m.clock, m.pub)
	if rep.Fresh {
		s.markDirty()
	}
	if rep.Offline.Earnings > 0 {
		s.markDirty()
		s.setGreeting(WelcomeBack(rep.Offline))
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrSessionClosed
	}
	// Reset may have installed a session while the store was read
	if cur, ok := m.sessions[playerID]; ok && cur.alive() {
		m.mu.Unlock()
		return cur, nil
	}
	s.start()
	m.sessions[playerID] = s
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	switch {
	case rep.Discarded != nil:
		log.Warn("save discarded, starting fresh", "reason", rep.Discarded)
		metrics.Loads.WithLabelValues("discarded").Inc()
	case rep.Fresh:
		metrics.Loads.WithLabelValues("fresh").Inc()
	default:
		metrics.Loads.WithLabelValues("restored").Inc()
	}
	for _, w := range rep.Warnings {
		log.Warn("save repaired", "detail", w)
	}
	if rep.Fresh {
		m.audit.LogSession(ctx, playerID, domain.AuditActionSessionStart)
	}
	if rep.Offline.Earnings > 0 {
		metrics.CashMined.WithLabelValues("offline").Add(float64(rep.Offline.Earnings))
		m.audit.LogReward(ctx, playerID, domain.AuditActionOfflineReward, map[string]interface{}{
			"seconds_away": rep.Offline.SecondsAway,
			"earnings":     rep.Offline.Earnings,
		})
		log.Info("offline earnings credited", "seconds_away", rep.Offline.SecondsAway, "earnings", rep.Offline.Earnings)
	}
	return s, nil
}

// Create starts a brand new player and persists it immediately.
func (m *SessionManager) Create(ctx context.Context) (*Session, error) {
	playerID := uuid.NewString()
	s, err := m.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset replaces a player's game with a fresh one.
func (m *SessionManager) Reset(ctx context.Context, playerID string) (*Session, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if old, ok := m.sessions[playerID]; ok {
		delete(m.sessions, playerID)
		old.Stop()
	}
	engine := game.New(m.cat, m.cfg.Game, m.clock, nil)
	s := newSession(playerID, engine, m.cfg.Intervals, m.clock, m.pub)
	s.markDirty()
	s.start()
	m.sessions[playerID] = s
	m.mu.Unlock()

	m.audit.LogSession(ctx, playerID, domain.AuditActionSessionReset)
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *SessionManager) save(ctx context.Context, s *Session) error {
	start := time.Now()
	data, err := s.Encode(ctx)
	if err == nil {
		err = m.store.Save(ctx, s.PlayerID, data)
		if err != nil {
			s.markDirty()
		}
	}
	metrics.SaveDuration.Observe(time.Since(start).Seconds())
	metrics.Saves.WithLabelValues(metrics.ResultOf(err)).Inc()
	if err != nil {
		return fmt.Errorf("save %s: %w", s.PlayerID, err)
	}
	return nil
}

func (m *SessionManager) snapshot() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if s.alive() {
			out = append(out, s)
		}
	}
	return out
}

// Flush saves every session with unsaved changes.
func (m *SessionManager) Flush(ctx context.Context) (int, error) {
	var errs []error
	saved := 0
	for _, s := range m.snapshot() {
		if !s.Dirty() {
			continue
		}
		if err := m.save(ctx, s); err != nil {
			errs = append(errs, err)
			continue
		}
		saved++
	}
	return saved, errors.Join(errs...)
}

// SaveAll saves every session regardless of the dirty flag.
func (m *SessionManager) SaveAll(ctx context.Context) error {
	var errs []error
	for _, s := range m.snapshot() {
		if err := m.save(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EvictIdle saves and stops sessions idle longer than the timeout that
// have no live connection. A session that receives a command while its
// save is in flight is kept.
func (m *SessionManager) EvictIdle(ctx context.Context) int {
	cutoff := m.clock.Now().Add(-m.cfg.IdleTimeout)
	evicted := 0
	for _, s := range m.snapshot() {
		idleSince := s.lastActive.Load()
		if time.Unix(0, idleSince).After(cutoff) {
			continue
		}
		if m.pub != nil && m.pub.HasSubscribers(s.PlayerID) {
			continue
		}
		if err := m.save(ctx, s); err != nil {
			logger.Error("evict: save failed, keeping session", "player_id", s.PlayerID, "error", err)
			continue
		}
		retired, err := s.retire(ctx, idleSince)
		if err != nil || !retired {
			continue
		}
		m.mu.Lock()
		if cur, ok := m.sessions[s.PlayerID]; ok && cur == s {
			delete(m.sessions, s.PlayerID)
		}
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
		m.mu.Unlock()
		s.Stop()
		evicted++
	}
	return evicted
}

// Close saves every session and stops them. Further Gets fail.
func (m *SessionManager) Close(ctx context.Context) error {
	err := m.SaveAll(ctx)

	m.mu.Lock()
	m.closed = true
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
	metrics.ActiveSessions.Set(0)
	return err
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Ping checks the save store.
func (m *SessionManager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}
