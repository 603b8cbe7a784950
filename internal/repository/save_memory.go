package repository

import (
	"context"
	"sync"
)

// MemorySaveRepository keeps snapshots in process memory. Used for local
// runs and tests; nothing survives a restart.
type MemorySaveRepository struct {
	mu    sync.RWMutex
	saves map[string][]byte
}

func NewMemorySaveRepository() *MemorySaveRepository {
	return &MemorySaveRepository{saves: make(map[string][]byte)}
}

func (r *MemorySaveRepository) Load(_ context.Context, playerID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.saves[playerID]
	if !ok {
		return nil, ErrSaveNotFound
	}
	return append([]byte(nil), data...), nil
}

func (r *MemorySaveRepository) Save(_ context.Context, playerID string, data []byte) error {
	r.mu.Lock()
	r.saves[playerID] = append([]byte(nil), data...)
	r.mu.Unlock()
	return nil
}

func (r *MemorySaveRepository) Delete(_ context.Context, playerID string) error {
	r.mu.Lock()
	delete(r.saves, playerID)
	r.mu.Unlock()
	return nil
}

func (r *MemorySaveRepository) Ping(context.Context) error { return nil }

func (r *MemorySaveRepository) Name() string { return "memory" }

// Len returns the number of stored saves
func (r *MemorySaveRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.saves)
}
