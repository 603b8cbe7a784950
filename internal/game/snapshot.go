package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"cryptofarm/internal/catalog"
	"cryptofarm/internal/clock"
	"cryptofarm/internal/domain"
	"cryptofarm/internal/formula"
)

// CurrentVersion is the snapshot format version. Older snapshots are
// discarded on load.
const CurrentVersion = 3

// Snapshot is the persisted form of a game.
type Snapshot struct {
	GameVersion  int                `json:"gameVersion"`
	Cash         float64            `json:"cash"`
	TotalMined   float64            `json:"totalMined"`
	GridWidth    int                `json:"gridWidth"`
	GridHeight   int                `json:"gridHeight"`
	RebirthCount int                `json:"rebirthCount"`
	OwnedPCs     []SnapshotComputer `json:"ownedPCs"`
	OwnedWorkers []SnapshotWorker   `json:"ownedWorkers"`
	Upgrades     []SnapshotUpgrade  `json:"upgrades"`
	Tokens       []SnapshotToken    `json:"tokens"`
	ActiveToken  string             `json:"activeToken"`
	LastLogout   int64              `json:"lastLogout"`
	ActiveBoosts []SnapshotBoost    `json:"activeBoosts,omitempty"`
}

type SnapshotComputerType struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Cost        int64                `json:"cost"`
	MiningRate  float64              `json:"miningRate"`
	Tier        int                  `json:"tier"`
	Class       domain.ComputerClass `json:"class,omitempty"`
	TokenEarned string               `json:"tokenEarned"`
	Icon        string               `json:"icon,omitempty"`
	Unlocked    bool                 `json:"unlocked"`
}

type SnapshotComputer struct {
	ID                string               `json:"id"`
	Type              SnapshotComputerType `json:"type"`
	Token             string               `json:"token"`
	Position          [3]float64           `json:"position"`
	PendingEarnings   float64              `json:"pendingEarnings"`
	LastCollectedTime int64                `json:"lastCollectedTime"`
}

type SnapshotWorkerType struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Cost       int64             `json:"cost"`
	Efficiency float64           `json:"efficiency"`
	Capacity   int               `json:"capacity"`
	Role       domain.WorkerRole `json:"role"`
}

type SnapshotWorker struct {
	ID   string             `json:"id"`
	Type SnapshotWorkerType `json:"type"`
}

type SnapshotUpgrade struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Category     domain.UpgradeCategory `json:"category"`
	Cost         int64                  `json:"cost"`
	CurrentLevel int                    `json:"currentLevel"`
	MaxLevel     int                    `json:"maxLevel"`
}

type SnapshotToken struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Symbol     string       `json:"symbol"`
	BasePrice  float64      `json:"basePrice"`
	UnlockTier int          `json:"unlockTier"`
	ProfitRate float64      `json:"profitRate"`
	Value      float64      `json:"value"`
	ValueLevel *int         `json:"valueLevel,omitempty"`
	Unlocked   bool         `json:"unlocked"`
	Trend      domain.Trend `json:"trend"`
}

type SnapshotBoost struct {
	Type      domain.BoostType `json:"type"`
	Value     float64          `json:"value"`
	ExpiresAt int64            `json:"expiresAt"`
	Source    string           `json:"source,omitempty"`
}

// Snapshot captures the whole game, stamping lastLogout with now.
func (e *Engine) Snapshot() Snapshot {
	now := e.clock.Now()
	grid := e.Grid()
	s := Snapshot{
		GameVersion:  CurrentVersion,
		Cash:         float64(e.wallet.Cash()),
		TotalMined:   float64(e.wallet.TotalMined()),
		GridWidth:    grid.Width,
		GridHeight:   grid.Height,
		RebirthCount: e.rebirths,
		OwnedPCs:     make([]SnapshotComputer, 0, e.computers.Len()),
		OwnedWorkers: make([]SnapshotWorker, 0, e.workers.Len()),
		ActiveToken:  e.market.ActiveID(),
		LastLogout:   now.UnixMilli(),
	}
	for _, pc := range e.computers.items {
		s.OwnedPCs = append(s.OwnedPCs, SnapshotComputer{
			ID: pc.ID,
			Type: SnapshotComputerType{
				ID:          pc.Type.ID,
				Name:        pc.Type.Name,
				Cost:        pc.Type.Cost,
				MiningRate:  pc.Type.MiningRate,
				Tier:        pc.Type.Tier,
				Class:       pc.Type.Class,
				TokenEarned: pc.Type.Token,
				Icon:        pc.Type.Icon,
				Unlocked:    pc.Type.Unlocked,
			},
			Token:             pc.Token,
			Position:          Position(pc.Cell),
			PendingEarnings:   float64(pc.PendingEarnings),
			LastCollectedTime: pc.LastCollectedAt.UnixMilli(),
		})
	}
	for _, w := range e.workers.items {
		s.OwnedWorkers = append(s.OwnedWorkers, SnapshotWorker{
			ID: w.ID,
			Type: SnapshotWorkerType{
				ID:         w.Type.ID,
				Name:       w.Type.Name,
				Cost:       w.Type.Cost,
				Efficiency: w.Type.Efficiency,
				Capacity:   w.Type.Capacity,
				Role:       w.Type.Role,
			},
		})
	}
	for _, u := range e.upgrades.items {
		s.Upgrades = append(s.Upgrades, SnapshotUpgrade{
			ID:           u.ID,
			Name:         u.Name,
			Description:  u.Description,
			Category:     u.Category,
			Cost:         u.Cost,
			CurrentLevel: u.CurrentLevel,
			MaxLevel:     u.MaxLevel,
		})
	}
	for _, t := range e.market.tokens {
		level := t.ValueLevel
		s.Tokens = append(s.Tokens, SnapshotToken{
			ID:         t.ID,
			Name:       t.Name,
			Symbol:     t.Symbol,
			BasePrice:  t.BasePrice,
			UnlockTier: t.UnlockTier,
			ProfitRate: t.ProfitRate,
			Value:      t.Value,
			ValueLevel: &level,
			Unlocked:   t.Unlocked,
			Trend:      t.Trend,
		})
	}
	for _, b := range e.boosts.Active(now) {
		s.ActiveBoosts = append(s.ActiveBoosts, SnapshotBoost{
			Type:      b.Type,
			Value:     b.Value,
			ExpiresAt: b.ExpiresAt.UnixMilli(),
			Source:    b.Source,
		})
	}
	return s
}

// Encode serialises the current game.
func (e *Engine) Encode() ([]byte, error) {
	return json.Marshal(e.Snapshot())
}

// Decode parses and version-checks a snapshot. Malformed data yields
// ErrCorruptSnapshot, a missing or older version ErrStaleSnapshot.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if s.GameVersion < CurrentVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrStaleSnapshot, s.GameVersion, CurrentVersion)
	}
	return &s, nil
}

// OfflineReport is the reconciliation performed on load.
type OfflineReport struct {
	SecondsAway int64 `json:"seconds_away"`
	Earnings    int64 `json:"earnings"`
}

// RestoreReport describes how a save was loaded.
type RestoreReport struct {
	// Fresh is set when no usable save existed and a new game was created.
	Fresh bool
	// Discarded is the reason a save was dropped (corrupt or stale).
	Discarded error
	Warnings  []string
	Offline   OfflineReport
}

// Restore rebuilds an engine from saved bytes and credits offline
// earnings. Empty, corrupt or outdated data yields a fresh game; the
// reason is reported but never returned as an error.
func Restore(cat *catalog.Catalog, cfg Config, clk clock.Clock, rng *rand.Rand, data []byte) (*Engine, RestoreReport) {
	e := New(cat, cfg, clk, rng)
	if len(data) == 0 {
		return e, RestoreReport{Fresh: true}
	}
	s, err := Decode(data)
	if err != nil {
		return e, RestoreReport{Fresh: true, Discarded: err}
	}
	var rep RestoreReport
	rep.Warnings = e.hydrate(s)
	rep.Offline = e.reconcileOffline(s.LastLogout)
	return e, rep
}

func (e *Engine) hydrate(s *Snapshot) []string {
	var warnings []string
	warnf := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}
	now := e.clock.Now()

	e.wallet = Wallet{cash: floorNonNegative(s.Cash), totalMined: floorNonNegative(s.TotalMined)}
	e.rebirths = max(s.RebirthCount, 0)

	// upgrades: catalog is authoritative, the save only carries levels
	for _, su := range s.Upgrades {
		if _, ok := e.upgrades.get(su.ID); !ok {
			warnf("unknown upgrade %q dropped", su.ID)
			continue
		}
		e.upgrades.setLevel(su.ID, su.CurrentLevel)
	}
	// grid dimensions and room-space level are one fact; prefer the grid
	if level, ok := formula.LevelForGridSize(s.GridWidth, s.GridHeight); ok {
		if saved := e.upgrades.Level(domain.UpgradeRoomSpace); saved != level {
			warnf("room-space level %d does not match grid %dx%d, using %d", saved, s.GridWidth, s.GridHeight, level)
		}
		e.upgrades.setLevel(domain.UpgradeRoomSpace, level)
	} else {
		warnf("grid %dx%d is not part of the progression, using room-space level", s.GridWidth, s.GridHeight)
	}

	for _, st := range s.Tokens {
		t, ok := e.market.get(st.ID)
		if !ok {
			warnf("unknown token %q dropped", st.ID)
			continue
		}
		if st.ProfitRate > 0 {
			t.ProfitRate = clampPrice(st.ProfitRate, t.BasePrice)
		}
		if st.Value >= t.BasePrice {
			t.Value = st.Value
		}
		if st.ValueLevel != nil {
			t.ValueLevel = max(*st.ValueLevel, 0)
		} else {
			t.ValueLevel = int(math.Round((t.Value - t.BasePrice) / formula.TokenValueStep))
		}
		switch st.Trend {
		case domain.TrendUp, domain.TrendDown, domain.TrendStable:
			t.Trend = st.Trend
		}
	}
	e.market.UnlockByRebirth(e.rebirths)
	if t, ok := e.market.Token(s.ActiveToken); ok && t.Unlocked {
		e.market.active = t.ID
	} else {
		warnf("active token %q unavailable, using %q", s.ActiveToken, e.market.ActiveID())
	}

	for _, sw := range s.OwnedWorkers {
		wt, ok := e.cat.Worker(sw.Type.ID)
		if !ok {
			if !sw.Type.Role.Valid() {
				warnf("worker %q has unknown type %q, dropped", sw.ID, sw.Type.ID)
				continue
			}
			wt = domain.WorkerType(sw.Type)
		}
		e.workers.add(domain.OwnedWorker{ID: e.idOr(sw.ID), Type: wt})
	}

	grid := e.Grid()
	var misplaced []*domain.OwnedComputer
	for _, sp := range s.OwnedPCs {
		ct, ok := e.cat.Computer(sp.Type.ID)
		if !ok {
			if _, roleOK := domain.RoleForTier(sp.Type.Tier); !roleOK || sp.Type.MiningRate <= 0 {
				warnf("computer %q has unknown type %q, dropped", sp.ID, sp.Type.ID)
				continue
			}
			ct = domain.ComputerType{
				ID:         sp.Type.ID,
				Name:       sp.Type.Name,
				Cost:       sp.Type.Cost,
				MiningRate: sp.Type.MiningRate,
				Tier:       sp.Type.Tier,
				Class:      sp.Type.Class,
				Token:      sp.Type.TokenEarned,
				Icon:       sp.Type.Icon,
				Unlocked:   sp.Type.Unlocked,
			}
		}
		token := sp.Token
		if _, ok := e.market.Token(token); !ok {
			token = e.market.ActiveID()
		}
		last := now
		if sp.LastCollectedTime > 0 {
			last = time.UnixMilli(sp.LastCollectedTime)
		}
		pc := &domain.OwnedComputer{
			ID:              e.idOr(sp.ID),
			Type:            ct,
			Token:           token,
			Cell:            CellAt(sp.Position),
			PendingEarnings: floorNonNegative(sp.PendingEarnings),
			LastCollectedAt: last,
		}
		if !InGrid(pc.Cell, grid) || e.computers.occupied(pc.Cell, "") {
			misplaced = append(misplaced, pc)
			continue
		}
		e.computers.add(pc)
	}
	for _, pc := range misplaced {
		cell, ok := e.computers.FreeCell(grid)
		if !ok {
			warnf("computer %q has no free cell, dropped", pc.ID)
			continue
		}
		warnf("computer %q moved from (%d,%d) to (%d,%d)", pc.ID, pc.Cell.X, pc.Cell.Z, cell.X, cell.Z)
		pc.Cell = cell
		e.computers.add(pc)
	}

	for _, sb := range s.ActiveBoosts {
		b := domain.Boost{Type: sb.Type, Value: sb.Value, ExpiresAt: time.UnixMilli(sb.ExpiresAt), Source: sb.Source}
		if b.ActiveAt(now) && b.Value > 0 {
			e.boosts.add(b)
		}
	}
	return warnings
}

// reconcileOffline credits earnings for the time since lastLogout using
// the same formula library as the live tick.
func (e *Engine) reconcileOffline(lastLogout int64) OfflineReport {
	if lastLogout <= 0 {
		return OfflineReport{}
	}
	away := e.clock.Now().Sub(time.UnixMilli(lastLogout))
	if away <= 0 {
		return OfflineReport{}
	}
	secs := int64(away / time.Second)
	earned := formula.OfflineEarnings(secs, e.computers.MiningRates(), e.rebirths, e.upgrades.Level(domain.UpgradeOfflineBoost))
	e.wallet.Earn(earned)
	return OfflineReport{SecondsAway: secs, Earnings: earned}
}

func (e *Engine) idOr(id string) string {
	if id != "" {
		return id
	}
	return e.newID()
}

func floorNonNegative(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return formula.FloorCash(v)
}

// IsDiscarded reports whether err means the save was dropped.
func IsDiscarded(err error) bool {
	return errors.Is(err, ErrCorruptSnapshot) || errors.Is(err, ErrStaleSnapshot)
}
