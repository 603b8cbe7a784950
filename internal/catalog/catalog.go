// Package catalog holds the static game content: computer types, worker
// types, tokens and upgrades. A Catalog is loaded once at startup and never
// mutated; callers receive copies.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"cryptofarm/internal/domain"
	"cryptofarm/internal/formula"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

// requiredUpgrades are referenced by id from the engine.
var requiredUpgrades = []string{
	domain.UpgradeRoomSpace,
	domain.UpgradeMiningSpeed,
	domain.UpgradeAutoCollect,
	domain.UpgradeWorkerDiscount,
	domain.UpgradeTokenDiscount,
	domain.UpgradeRebirthDiscount,
	domain.UpgradeOfflineBoost,
}

type file struct {
	Version   int                   `yaml:"version"`
	Computers []domain.ComputerType `yaml:"computers"`
	Workers   []domain.WorkerType   `yaml:"workers"`
	Tokens    []domain.Token        `yaml:"tokens"`
	Upgrades  []domain.Upgrade      `yaml:"upgrades"`
}

type Catalog struct {
	version   int
	computers []domain.ComputerType
	workers   []domain.WorkerType
	tokens    []domain.Token
	upgrades  []domain.Upgrade

	computerByID map[string]int
	workerByID   map[string]int
	tokenByID    map[string]int
	upgradeByID  map[string]int
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// MustDefault is Default for tests and static initialisation.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog file, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		version:      f.Version,
		computers:    f.Computers,
		workers:      f.Workers,
		tokens:       f.Tokens,
		upgrades:     f.Upgrades,
		computerByID: make(map[string]int, len(f.Computers)),
		workerByID:   make(map[string]int, len(f.Workers)),
		tokenByID:    make(map[string]int, len(f.Tokens)),
		upgradeByID:  make(map[string]int, len(f.Upgrades)),
	}

	// токены упорядочены по уровню разблокировки
	sort.SliceStable(c.tokens, func(i, j int) bool {
		return c.tokens[i].UnlockTier < c.tokens[j].UnlockTier
	})
	for i := range c.tokens {
		c.tokens[i] = c.tokens[i].Fresh()
	}
	for i := range c.upgrades {
		c.upgrades[i].Cost = c.upgrades[i].BaseCost
		c.upgrades[i].CurrentLevel = 0
	}

	if err := c.index(); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index() error {
	for i, t := range c.tokens {
		if _, dup := c.tokenByID[t.ID]; dup {
			return invalid("duplicate token %q", t.ID)
		}
		c.tokenByID[t.ID] = i
	}
	for i, ct := range c.computers {
		if _, dup := c.computerByID[ct.ID]; dup {
			return invalid("duplicate computer %q", ct.ID)
		}
		c.computerByID[ct.ID] = i
	}
	for i, w := range c.workers {
		if _, dup := c.workerByID[w.ID]; dup {
			return invalid("duplicate worker %q", w.ID)
		}
		c.workerByID[w.ID] = i
	}
	for i, u := range c.upgrades {
		if _, dup := c.upgradeByID[u.ID]; dup {
			return invalid("duplicate upgrade %q", u.ID)
		}
		c.upgradeByID[u.ID] = i
	}
	return nil
}

func (c *Catalog) validate() error {
	if len(c.tokens) == 0 {
		return invalid("no tokens")
	}
	for i, t := range c.tokens {
		if t.UnlockTier != i {
			return invalid("token %q: unlock tiers must run 0..%d without gaps", t.ID, len(c.tokens)-1)
		}
		if t.BasePrice <= 0 {
			return invalid("token %q: base price must be positive", t.ID)
		}
	}

	if len(c.computers) == 0 {
		return invalid("no computer types")
	}
	for _, ct := range c.computers {
		if ct.Cost <= 0 || ct.MiningRate <= 0 {
			return invalid("computer %q: cost and mining rate must be positive", ct.ID)
		}
		if _, ok := domain.RoleForTier(ct.Tier); !ok {
			return invalid("computer %q: tier %d out of range", ct.ID, ct.Tier)
		}
		if !ct.Class.Valid() {
			return invalid("computer %q: unknown class %q", ct.ID, ct.Class)
		}
		if _, ok := c.tokenByID[ct.Token]; !ok {
			return invalid("computer %q: unknown token %q", ct.ID, ct.Token)
		}
	}

	roles := map[domain.WorkerRole]bool{}
	for _, w := range c.workers {
		if !w.Role.Valid() {
			return invalid("worker %q: unknown role %q", w.ID, w.Role)
		}
		if w.Cost <= 0 || w.Capacity <= 0 {
			return invalid("worker %q: cost and capacity must be positive", w.ID)
		}
		roles[w.Role] = true
	}
	for _, ct := range c.computers {
		role, _ := domain.RoleForTier(ct.Tier)
		if !roles[role] {
			return invalid("computer %q needs a %s but no worker type has that role", ct.ID, role)
		}
	}

	for _, u := range c.upgrades {
		if !u.Category.Valid() {
			return invalid("upgrade %q: unknown category %q", u.ID, u.Category)
		}
		if u.BaseCost <= 0 || u.MaxLevel <= 0 {
			return invalid("upgrade %q: base cost and max level must be positive", u.ID)
		}
	}
	for _, id := range requiredUpgrades {
		if _, ok := c.upgradeByID[id]; !ok {
			return invalid("missing upgrade %q", id)
		}
	}
	if rs := c.upgrades[c.upgradeByID[domain.UpgradeRoomSpace]]; rs.MaxLevel != formula.MaxGridLevel {
		return invalid("room-space max level must be %d, got %d", formula.MaxGridLevel, rs.MaxLevel)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...))
}

func (c *Catalog) Version() int { return c.version }

// Computers returns all computer types in catalog order.
func (c *Catalog) Computers() []domain.ComputerType {
	return append([]domain.ComputerType(nil), c.computers...)
}

func (c *Catalog) Computer(id string) (domain.ComputerType, bool) {
	i, ok := c.computerByID[id]
	if !ok {
		return domain.ComputerType{}, false
	}
	return c.computers[i], true
}

func (c *Catalog) Workers() []domain.WorkerType {
	return append([]domain.WorkerType(nil), c.workers...)
}

func (c *Catalog) Worker(id string) (domain.WorkerType, bool) {
	i, ok := c.workerByID[id]
	if !ok {
		return domain.WorkerType{}, false
	}
	return c.workers[i], true
}

// Tokens returns fresh tokens ordered by unlock tier.
func (c *Catalog) Tokens() []domain.Token {
	return append([]domain.Token(nil), c.tokens...)
}

func (c *Catalog) Token(id string) (domain.Token, bool) {
	i, ok := c.tokenByID[id]
	if !ok {
		return domain.Token{}, false
	}
	return c.tokens[i], true
}

// DefaultToken is the token unlocked from the start.
func (c *Catalog) DefaultToken() domain.Token {
	return c.tokens[0]
}

// Upgrades returns all upgrades at level 0.
func (c *Catalog) Upgrades() []domain.Upgrade {
	return append([]domain.Upgrade(nil), c.upgrades...)
}

func (c *Catalog) Upgrade(id string) (domain.Upgrade, bool) {
	i, ok := c.upgradeByID[id]
	if !ok {
		return domain.Upgrade{}, false
	}
	return c.upgrades[i], true
}
