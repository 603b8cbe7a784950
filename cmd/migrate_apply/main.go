package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"cryptofarm/internal/config"
	"cryptofarm/internal/db"
	"cryptofarm/internal/logger"
	"cryptofarm/internal/migrations"
)

func main() {
	apply := flag.Bool("apply", false, "apply migrations (default: list them)")
	flag.Parse()

	names, err := migrations.Names()
	if err != nil {
		logger.Fatal("read migrations", "error", err)
	}
	if !*apply {
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL, 2)
	if err != nil {
		logger.Fatal("connect", "error", err)
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		logger.Fatal("apply migrations", "error", err)
	}
	for _, name := range names {
		fmt.Printf("applied %s\n", name)
	}
}
