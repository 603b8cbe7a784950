package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cryptofarm/internal/catalog"
	"cryptofarm/internal/clock"
	"cryptofarm/internal/domain"
	"cryptofarm/internal/game"
	"cryptofarm/internal/repository"
)

var testStart = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// slow intervals keep the background timers out of the way
var testIntervals = Intervals{Accrual: time.Hour, Market: time.Hour, BoostPrune: time.Hour}

type fakePublisher struct {
	mu            sync.Mutex
	frames        map[string][]game.RenderFrame
	notifications map[string][]domain.Notification
	subscribed    map[string]bool
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{
		frames:        make(map[string][]game.RenderFrame),
		notifications: make(map[string][]domain.Notification),
		subscribed:    make(map[string]bool),
	}
}

func (p *fakePublisher) PublishFrame(playerID string, f game.RenderFrame) {
	p.mu.Lock()
	p.frames[playerID] = append(p.frames[playerID], f)
	p.mu.Unlock()
}

func (p *fakePublisher) PublishNotification(playerID string, n domain.Notification) {
	p.mu.Lock()
	p.notifications[playerID] = append(p.notifications[playerID], n)
	p.mu.Unlock()
}

func (p *fakePublisher) HasSubscribers(playerID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subscribed[playerID]
}

func (p *fakePublisher) lastNotification(playerID string) (domain.Notification, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ns := p.notifications[playerID]
	if len(ns) == 0 {
		return domain.Notification{}, false
	}
	return ns[len(ns)-1], true
}

func (p *fakePublisher) frameCount(playerID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames[playerID])
}

type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Load(context.Context, string) ([]byte, error) { return nil, errStoreDown }
func (failingStore) Save(context.Context, string, []byte) error   { return errStoreDown }
func (failingStore) Ping(context.Context) error                   { return errStoreDown }

type testEnv struct {
	clock   *clock.Fake
	store   *repository.MemorySaveRepository
	pub     *fakePublisher
	manager *SessionManager
	game    *GameService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		clock: clock.NewFake(testStart),
		store: repository.NewMemorySaveRepository(),
		pub:   newFakePublisher(),
	}
	env.manager = env.newManager()
	env.game = NewGameService(env.manager, NewAuditService(nil))
	t.Cleanup(func() { _ = env.manager.Close(context.Background()) })
	return env
}

func (env *testEnv) newManager() *SessionManager {
	cfg := ManagerConfig{Intervals: testIntervals, IdleTimeout: 10 * time.Minute}
	return NewSessionManager(catalog.MustDefault(), cfg, env.clock, env.store, env.pub, NewAuditService(nil))
}

func TestGetCreatesFreshSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s, err := env.manager.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !s.Dirty() {
		t.Fatalf("fresh session should be dirty")
	}
	again, _ := env.manager.Get(ctx, "p1")
	if again != s {
		t.Fatalf("second Get returned a different session")
	}
	if env.manager.Len() != 1 {
		t.Fatalf("len = %d", env.manager.Len())
	}

	saved, err := env.manager.Flush(ctx)
	if err != nil || saved != 1 {
		t.Fatalf("Flush = %d, %v; want 1", saved, err)
	}
	if env.store.Len() != 1 {
		t.Fatalf("store len = %d", env.store.Len())
	}
	if saved, _ := env.manager.Flush(ctx); saved != 0 {
		t.Fatalf("clean session saved again")
	}
}

func TestCreateAssignsIDAndPersists(t *testing.T) {
	env := newTestEnv(t)
	s, err := env.manager.Create(context.Background())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.PlayerID == "" {
		t.Fatalf("empty player id")
	}
	if _, err := env.store.Load(context.Background(), s.PlayerID); err != nil {
		t.Fatalf("save not written: %v", err)
	}
}

func TestLoadFailureDoesNotStartFresh(t *testing.T) {
	cfg := ManagerConfig{Intervals: testIntervals}
	m := NewSessionManager(catalog.MustDefault(), cfg, clock.NewFake(testStart), failingStore{}, nil, nil)

	if _, err := m.Get(context.Background(), "p1"); !errors.Is(err, errStoreDown) {
		t.Fatalf("err = %v; want store error", err)
	}
	if m.Len() != 0 {
		t.Fatalf("session created despite load failure")
	}
}

func TestCorruptSaveStartsFresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_ = env.store.Save(ctx, "p1", []byte("{not json"))

	var cash int64
	s, err := env.manager.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	_ = s.View(ctx, func(e *game.Engine) error { cash = e.Cash(); return nil })
	if cash != game.DefaultStartingCash {
		t.Fatalf("cash = %d; want fresh game", cash)
	}
}

func TestRestoreCreditsOfflineEarnings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.game.HireWorker(ctx, "p1", "technician"); err != nil {
		t.Fatalf("HireWorker: %v", err)
	}
	if _, err := env.game.BuyComputer(ctx, "p1", "budget-rig"); err != nil {
		t.Fatalf("BuyComputer: %v", err)
	}
	if err := env.manager.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	env.clock.Advance(time.Hour)
	m := env.newManager()
	defer m.Close(ctx)

	s, err := m.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	n, ok := s.TakeGreeting()
	if !ok || n.Severity != domain.SeveritySuccess {
		t.Fatalf("greeting = %+v, %v", n, ok)
	}
	if _, again := s.TakeGreeting(); again {
		t.Fatalf("greeting returned twice")
	}

	var cash int64
	_ = s.View(ctx, func(e *game.Engine) error { cash = e.Cash(); return nil })
	if cash <= 17500 {
		t.Fatalf("cash = %d; want offline earnings on top of 17500", cash)
	}
}

func TestEvictIdle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.manager.Get(ctx, "idle"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.manager.Get(ctx, "watched"); err != nil {
		t.Fatal(err)
	}
	env.pub.subscribed["watched"] = true

	if n := env.manager.EvictIdle(ctx); n != 0 {
		t.Fatalf("evicted %d active sessions", n)
	}

	env.clock.Advance(11 * time.Minute)
	if n := env.manager.EvictIdle(ctx); n != 1 {
		t.Fatalf("evicted %d; want 1", n)
	}
	if env.manager.Len() != 1 {
		t.Fatalf("len = %d; want the subscribed session to stay", env.manager.Len())
	}
	if _, err := env.store.Load(ctx, "idle"); err != nil {
		t.Fatalf("evicted session not saved: %v", err)
	}
}

func TestResetReplacesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.game.HireWorker(ctx, "p1", "technician"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.manager.Reset(ctx, "p1"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	st, err := env.game.State(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Workers) != 0 || st.Cash != game.DefaultStartingCash {
		t.Fatalf("state after reset = %d workers, %d cash", len(st.Workers), st.Cash)
	}
}

func TestClosedManagerRejectsGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_ = env.manager.Close(ctx)

	if _, err := env.manager.Get(ctx, "p1"); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("err = %v; want ErrSessionClosed", err)
	}
	if _, err := env.manager.Reset(ctx, "p1"); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("Reset err = %v; want ErrSessionClosed", err)
	}
	if env.manager.Len() != 0 {
		t.Fatalf("closed manager holds %d sessions", env.manager.Len())
	}
}

// blockingStore holds the first Save until release is closed.
type blockingStore struct {
	*repository.MemorySaveRepository
	saving  chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingStore() *blockingStore {
	return &blockingStore{
		MemorySaveRepository: repository.NewMemorySaveRepository(),
		saving:               make(chan struct{}),
		release:              make(chan struct{}),
	}
}

func (b *blockingStore) Save(ctx context.Context, playerID string, data []byte) error {
	b.once.Do(func() {
		close(b.saving)
		<-b.release
	})
	return b.MemorySaveRepository.Save(ctx, playerID, data)
}

func TestEvictIdleKeepsSessionChangedDuringSave(t *testing.T) {
	clk := clock.NewFake(testStart)
	store := newBlockingStore()
	cfg := ManagerConfig{Intervals: testIntervals, IdleTimeout: 10 * time.Minute}
	m := NewSessionManager(catalog.MustDefault(), cfg, clk, store, nil, nil)
	games := NewGameService(m, nil)
	ctx := context.Background()

	if _, err := m.Get(ctx, "p"); err != nil {
		t.Fatal(err)
	}
	clk.Advance(11 * time.Minute)

	evicted := make(chan int, 1)
	go func() { evicted <- m.EvictIdle(ctx) }()
	<-store.saving

	if _, err := games.HireWorker(ctx, "p", "technician"); err != nil {
		t.Fatalf("hire during eviction save: %v", err)
	}
	close(store.release)

	if n := <-evicted; n != 0 {
		t.Fatalf("evicted %d; a session changed during its save must stay", n)
	}
	if m.Len() != 1 {
		t.Fatalf("len = %d", m.Len())
	}
	if err := m.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded := NewSessionManager(catalog.MustDefault(), cfg, clk, store.MemorySaveRepository, nil, nil)
	defer reloaded.Close(ctx)
	st, err := NewGameService(reloaded, nil).State(ctx, "p")
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Workers) != 1 || st.Cash >= game.DefaultStartingCash {
		t.Fatalf("after reload: workers=%d cash=%d; hire was lost", len(st.Workers), st.Cash)
	}
}

func TestEvictedSessionReloadsFromStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.game.HireWorker(ctx, "p1", "technician"); err != nil {
		t.Fatal(err)
	}
	old, _ := env.manager.Get(ctx, "p1")
	env.clock.Advance(11 * time.Minute)
	if n := env.manager.EvictIdle(ctx); n != 1 {
		t.Fatalf("evicted %d; want 1", n)
	}

	// a caller still holding the retired session is routed to a fresh load
	if err := old.Do(ctx, func(*game.Engine) error { return nil }); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("retired session accepted a command: %v", err)
	}
	st, err := env.game.State(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Workers) != 1 {
		t.Fatalf("workers after reload = %d", len(st.Workers))
	}
}

func TestConcurrentGetSharesOneSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const n = 20
	got := make([]*Session, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _ = env.manager.Get(ctx, "p1")
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if got[i] == nil || got[i] != got[0] {
			t.Fatalf("Get %d returned a different session", i)
		}
	}
	if env.manager.Len() != 1 {
		t.Fatalf("len = %d", env.manager.Len())
	}
}
