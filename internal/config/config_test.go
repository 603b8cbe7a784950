package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_BACKEND", "Memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppPort != "8080" || cfg.StorageBackend != StorageMemory {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.StartingCash != 20000 || cfg.RebirthCash != 20000 {
		t.Fatalf("cash defaults = %d/%d", cfg.StartingCash, cfg.RebirthCash)
	}
	if cfg.AccrualInterval != time.Second || cfg.MarketInterval != 10*time.Second || cfg.BoostPruneInterval != 5*time.Second {
		t.Fatalf("intervals = %v %v %v", cfg.AccrualInterval, cfg.MarketInterval, cfg.BoostPruneInterval)
	}
	if cfg.SaveSchedule != "@every 30s" {
		t.Fatalf("save schedule = %q", cfg.SaveSchedule)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			JWTSecret:          "s",
			StorageBackend:     StorageMemory,
			StartingCash:       1,
			RebirthCash:        1,
			AccrualInterval:    time.Second,
			MarketInterval:     time.Second,
			BoostPruneInterval: time.Second,
			SaveSchedule:       "@every 30s",
			APIRateLimit:       1,
			APIRateWindow:      time.Second,
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ok", func(*Config) {}, ""},
		{"no secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"redis without addr", func(c *Config) { c.StorageBackend = StorageRedis }, "REDIS_ADDR"},
		{"postgres without dsn", func(c *Config) { c.StorageBackend = StoragePostgres }, "DATABASE_URL"},
		{"unknown backend", func(c *Config) { c.StorageBackend = "s3" }, "STORAGE_BACKEND"},
		{"zero interval", func(c *Config) { c.MarketInterval = 0 }, "intervals"},
	}
	for _, tc := range cases {
		cfg := base()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if tc.want == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: err = %v; want mention of %s", tc.name, err, tc.want)
		}
	}
}
