package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSaveNotFound is returned when a player has no save
var ErrSaveNotFound = errors.New("save not found")

// SaveRepository stores one JSONB snapshot row per player
type SaveRepository struct {
	db *pgxpool.Pool
}

func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Load returns the raw snapshot
func (r *SaveRepository) Load(ctx context.Context, playerID string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `
		SELECT data FROM player_saves WHERE player_id = $1
	`, playerID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load save %s: %w", playerID, err)
	}
	return data, nil
}

// Save upserts the snapshot. The version column mirrors gameVersion for queries.
func (r *SaveRepository) Save(ctx context.Context, playerID string, data []byte) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO player_saves (player_id, data, version, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (player_id)
		DO UPDATE SET data = EXCLUDED.data, version = EXCLUDED.version, updated_at = NOW()
	`, playerID, data, snapshotVersion(data))
	if err != nil {
		return fmt.Errorf("save %s: %w", playerID, err)
	}
	return nil
}

func (r *SaveRepository) Delete(ctx context.Context, playerID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM player_saves WHERE player_id = $1`, playerID)
	return err
}

// Ping checks the database connection
func (r *SaveRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *SaveRepository) Name() string { return "postgres" }

// snapshotVersion reads gameVersion without decoding the whole snapshot
func snapshotVersion(data []byte) int {
	var head struct {
		GameVersion int `json:"gameVersion"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return 0
	}
	return head.GameVersion
}
