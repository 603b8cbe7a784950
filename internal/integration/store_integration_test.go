package integration

import (
	"context"
	"errors"
	"os"
	"testing"

	"cryptofarm/internal/catalog"
	"cryptofarm/internal/domain"
	"cryptofarm/internal/game"
	"cryptofarm/internal/migrations"
	"cryptofarm/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

func connectPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	if err := migrations.Apply(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func connectRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}
	return client
}

func encodedFreshGame(t *testing.T) []byte {
	t.Helper()
	e := game.New(catalog.MustDefault(), game.Config{}, nil, nil)
	data, err := e.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

type saveStore interface {
	Load(ctx context.Context, playerID string) ([]byte, error)
	Save(ctx context.Context, playerID string, data []byte) error
	Delete(ctx context.Context, playerID string) error
	Ping(ctx context.Context) error
}

func exerciseStore(t *testing.T, store saveStore) {
	t.Helper()
	ctx := context.Background()
	playerID := "it-" + uuid.NewString()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := store.Load(ctx, playerID); !errors.Is(err, repository.ErrSaveNotFound) {
		t.Fatalf("load missing = %v; want ErrSaveNotFound", err)
	}

	data := encodedFreshGame(t)
	if err := store.Save(ctx, playerID, data); err != nil {
		t.Fatalf("save: %v", err)
	}
	// second save overwrites
	if err := store.Save(ctx, playerID, data); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.Load(ctx, playerID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	snap, err := game.Decode(got)
	if err != nil {
		t.Fatalf("stored save does not decode: %v", err)
	}
	if snap.Cash != game.DefaultStartingCash {
		t.Fatalf("cash = %v", snap.Cash)
	}

	if err := store.Delete(ctx, playerID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, playerID); !errors.Is(err, repository.ErrSaveNotFound) {
		t.Fatalf("load after delete = %v", err)
	}
}

func TestPostgresSaveRepository(t *testing.T) {
	exerciseStore(t, repository.NewSaveRepository(connectPostgres(t)))
}

func TestRedisSaveRepository(t *testing.T) {
	exerciseStore(t, repository.NewRedisSaveRepository(connectRedis(t), "cryptofarm:test:"))
}

func TestAuditRepository(t *testing.T) {
	db := connectPostgres(t)
	repo := repository.NewAuditRepository(db)
	ctx := context.Background()
	playerID := "it-" + uuid.NewString()

	entry := &domain.AuditLog{
		PlayerID: playerID,
		Action:   domain.AuditActionBuyComputer,
		Category: domain.AuditCategoryInventory,
		Details:  map[string]interface{}{"item_id": "budget-rig", "cost": 1500},
	}
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.ID == 0 || entry.CreatedAt.IsZero() {
		t.Fatalf("RETURNING not scanned: %+v", entry)
	}

	logs, err := repo.GetByPlayerID(ctx, playerID, 10)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(logs) != 1 || logs[0].Details["item_id"] != "budget-rig" {
		t.Fatalf("logs = %+v", logs)
	}

	inv, err := repo.GetByPlayerCategory(ctx, playerID, domain.AuditCategoryInventory, 10)
	if err != nil || len(inv) != 1 {
		t.Fatalf("inventory = %d, %v", len(inv), err)
	}
	other, err := repo.GetByPlayerCategory(ctx, playerID, domain.AuditCategoryRebirth, 10)
	if err != nil || len(other) != 0 {
		t.Fatalf("rebirth = %d, %v", len(other), err)
	}
}
