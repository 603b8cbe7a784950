package domain

import "time"

// AuditLog represents an audit log entry for a player action
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	PlayerID  string                 `db:"player_id" json:"player_id"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Audit action categories
const (
	AuditCategoryInventory = "inventory"
	AuditCategoryUpgrade   = "upgrade"
	AuditCategoryMarket    = "market"
	AuditCategoryRebirth   = "rebirth"
	AuditCategoryReward    = "reward"
	AuditCategorySession   = "session"
)

// ValidAuditCategory reports whether c is one of the categories above.
func ValidAuditCategory(c string) bool {
	switch c {
	case AuditCategoryInventory, AuditCategoryUpgrade, AuditCategoryMarket,
		AuditCategoryRebirth, AuditCategoryReward, AuditCategorySession:
		return true
	}
	return false
}

// Audit actions
const (
	// Inventory actions
	AuditActionBuyComputer    = "buy_computer"
	AuditActionRemoveComputer = "remove_computer"
	AuditActionHireWorker     = "hire_worker"
	AuditActionFireWorker     = "fire_worker"

	// Upgrade actions
	AuditActionBuyUpgrade = "buy_upgrade"

	// Market actions
	AuditActionSwitchToken  = "switch_token"
	AuditActionUpgradeToken = "upgrade_token"

	// Rebirth
	AuditActionRebirth = "rebirth"

	// Rewards
	AuditActionMinigameReward = "minigame_reward"
	AuditActionOfflineReward  = "offline_reward"

	// Session
	AuditActionSessionStart = "session_start"
	AuditActionSessionReset = "session_reset"
)
