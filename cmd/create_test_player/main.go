package main

import (
	"context"
	"flag"
	"log"
	"time"

	"cryptofarm/internal/catalog"
	"cryptofarm/internal/config"
	"cryptofarm/internal/db"
	"cryptofarm/internal/game"
	"cryptofarm/internal/repository"
	"cryptofarm/internal/service"

	redis "github.com/redis/go-redis/v9"
)

// Seeds a save with a small working farm and prints a token for it.
func main() {
	playerID := flag.String("player", "test-player", "player id to seed")
	cash := flag.Int64("cash", 100000, "starting cash for the seeded save")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var store interface {
		Save(ctx context.Context, playerID string, data []byte) error
	}
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL, 2)
		if err != nil {
			log.Fatalf("connect: %v", err)
		}
		defer pool.Close()
		store = repository.NewSaveRepository(pool)
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer client.Close()
		store = repository.NewRedisSaveRepository(client, cfg.SaveKeyPrefix)
	default:
		log.Fatalf("STORAGE_BACKEND=%s does not persist; use redis or postgres", cfg.StorageBackend)
	}

	cat, err := catalog.Default()
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	e := game.New(cat, game.Config{StartingCash: *cash, RebirthCash: cfg.RebirthCash}, nil, nil)

	for _, w := range []string{"technician", "technician"} {
		if _, err := e.HireWorker(w); err != nil {
			log.Fatalf("hire %s: %v", w, err)
		}
	}
	for _, pc := range []string{"budget-rig", "budget-rig", "office-pc"} {
		if _, err := e.BuyComputer(pc); err != nil {
			log.Fatalf("buy %s: %v", pc, err)
		}
	}

	data, err := e.Encode()
	if err != nil {
		log.Fatalf("encode: %v", err)
	}
	if err := store.Save(ctx, *playerID, data); err != nil {
		log.Fatalf("save: %v", err)
	}
	log.Printf("seeded player=%s cash=%d computers=%d workers=%d\n", *playerID, e.Cash(), len(e.Computers()), len(e.Workers()))

	service.InitJWT(cfg.JWTSecret, cfg.JWTTTL)
	token, err := service.GenerateJWT(*playerID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
