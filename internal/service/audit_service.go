package service

import (
	"context"
	"fmt"

	"cryptofarm/internal/domain"
	"cryptofarm/internal/logger"
)

// DefaultHistoryLimit caps History when the caller asks for nothing or too much.
const DefaultHistoryLimit = 50

// AuditStore persists and reads audit entries (repository.AuditRepository).
type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetByPlayerID(ctx context.Context, playerID string, limit int) ([]*domain.AuditLog, error)
	GetByPlayerCategory(ctx context.Context, playerID, category string, limit int) ([]*domain.AuditLog, error)
}

// AuditService handles audit logging. A nil writer makes it a no-op, which
// is how the memory and redis backends run.
type AuditService struct {
	repo AuditStore
}

// NewAuditService creates a new audit service
func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry
func (s *AuditService) Log(ctx context.Context, playerID, action, category string, details map[string]interface{}) {
	if s == nil || s.repo == nil {
		return
	}
	log := &domain.AuditLog{
		PlayerID: playerID,
		Action:   action,
		Category: category,
		Details:  details,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "player_id", playerID)
	}
}

// LogPurchase logs an inventory or upgrade purchase
func (s *AuditService) LogPurchase(ctx context.Context, playerID, action, category, itemID string, cost int64) {
	s.Log(ctx, playerID, action, category, map[string]interface{}{
		"item_id": itemID,
		"cost":    cost,
	})
}

// LogRebirth logs a completed rebirth
func (s *AuditService) LogRebirth(ctx context.Context, playerID string, count int, cost int64) {
	s.Log(ctx, playerID, domain.AuditActionRebirth, domain.AuditCategoryRebirth, map[string]interface{}{
		"rebirth_count": count,
		"cost":          cost,
	})
}

// LogReward logs a minigame or offline reward
func (s *AuditService) LogReward(ctx context.Context, playerID, action string, details map[string]interface{}) {
	s.Log(ctx, playerID, action, domain.AuditCategoryReward, details)
}

// LogSession logs session lifecycle events
func (s *AuditService) LogSession(ctx context.Context, playerID, action string) {
	s.Log(ctx, playerID, action, domain.AuditCategorySession, nil)
}

// History returns the player's newest entries, optionally limited to one
// category. Without a store the history is empty.
func (s *AuditService) History(ctx context.Context, playerID, category string, limit int) ([]*domain.AuditLog, error) {
	if s == nil || s.repo == nil {
		return []*domain.AuditLog{}, nil
	}
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	var (
		logs []*domain.AuditLog
		err  error
	)
	if category == "" {
		logs, err = s.repo.GetByPlayerID(ctx, playerID, limit)
	} else {
		logs, err = s.repo.GetByPlayerCategory(ctx, playerID, category, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("audit history: %w", err)
	}
	if logs == nil {
		logs = []*domain.AuditLog{}
	}
	return logs, nil
}
