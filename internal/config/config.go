package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	AppPort    string `envconfig:"APP_PORT" default:"8080"`
	AppVersion string `envconfig:"APP_VERSION" default:"dev"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON    bool   `envconfig:"LOG_JSON" default:"false"`

	JWTSecret string        `envconfig:"JWT_SECRET"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"720h"`

	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"memory"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	DBMaxConns     int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	RedisAddr      string `envconfig:"REDIS_ADDR"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`
	SaveKeyPrefix  string `envconfig:"SAVE_KEY_PREFIX" default:"cryptofarm:save:"`

	CatalogPath  string `envconfig:"CATALOG_PATH"`
	StartingCash int64  `envconfig:"STARTING_CASH" default:"20000"`
	RebirthCash  int64  `envconfig:"REBIRTH_CASH" default:"20000"`

	// Таймеры сессии
	AccrualInterval    time.Duration `envconfig:"ACCRUAL_INTERVAL" default:"1s"`
	MarketInterval     time.Duration `envconfig:"MARKET_INTERVAL" default:"10s"`
	BoostPruneInterval time.Duration `envconfig:"BOOST_PRUNE_INTERVAL" default:"5s"`
	SaveSchedule       string        `envconfig:"SAVE_SCHEDULE" default:"@every 30s"`
	EvictSchedule      string        `envconfig:"EVICT_SCHEDULE" default:"@every 1m"`
	SessionIdleTimeout time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`

	// Лимиты запросов
	APIRateLimit     int           `envconfig:"API_RATE_LIMIT" default:"120"`
	APIRateWindow    time.Duration `envconfig:"API_RATE_WINDOW" default:"1m"`
	AuthRateLimit    int           `envconfig:"AUTH_RATE_LIMIT" default:"5"`
	AuthRateWindow   time.Duration `envconfig:"AUTH_RATE_WINDOW" default:"1m"`
	ActionRateLimit  int           `envconfig:"ACTION_RATE_LIMIT" default:"60"`
	ActionRateWindow time.Duration `envconfig:"ACTION_RATE_WINDOW" default:"1m"`

	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required values and cross-field rules.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	switch c.StorageBackend {
	case StorageMemory:
	case StorageRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for redis storage"))
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for postgres storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}
	if c.StartingCash <= 0 || c.RebirthCash <= 0 {
		errs = append(errs, errors.New("STARTING_CASH and REBIRTH_CASH must be positive"))
	}
	if c.AccrualInterval <= 0 || c.MarketInterval <= 0 || c.BoostPruneInterval <= 0 {
		errs = append(errs, errors.New("session intervals must be positive"))
	}
	if c.SaveSchedule == "" {
		errs = append(errs, errors.New("SAVE_SCHEDULE is empty"))
	}
	if c.APIRateLimit <= 0 || c.APIRateWindow <= 0 {
		errs = append(errs, errors.New("API rate limit and window must be positive"))
	}
	return errors.Join(errs...)
}
