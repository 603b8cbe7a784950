package domain

// UpgradeCategory - категория апгрейда
type UpgradeCategory string

const (
	UpgradeCategoryExpansion  UpgradeCategory = "expansion"
	UpgradeCategoryMining     UpgradeCategory = "mining"
	UpgradeCategoryEconomy    UpgradeCategory = "economy"
	UpgradeCategoryAutomation UpgradeCategory = "automation"
)

// Valid проверяет, что категория известна
func (c UpgradeCategory) Valid() bool {
	switch c {
	case UpgradeCategoryExpansion, UpgradeCategoryMining, UpgradeCategoryEconomy, UpgradeCategoryAutomation:
		return true
	}
	return false
}

// Идентификаторы апгрейдов, на которые ссылается движок
const (
	UpgradeRoomSpace       = "room-space"
	UpgradeMiningSpeed     = "mining-speed"
	UpgradeAutoCollect     = "auto-collect"
	UpgradeWorkerDiscount  = "worker-discount"
	UpgradeTokenDiscount   = "token-discount"
	UpgradeRebirthDiscount = "rebirth-discount"
	UpgradeOfflineBoost    = "offline-boost"
)

// Upgrade - апгрейд (каталог + текущий уровень)
type Upgrade struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
	Category    UpgradeCategory `yaml:"category" json:"category"`
	BaseCost    int64           `yaml:"base_cost" json:"base_cost"`
	MaxLevel    int             `yaml:"max_level" json:"max_level"`

	Cost         int64 `yaml:"-" json:"cost"`
	CurrentLevel int   `yaml:"-" json:"current_level"`
}

// IsExpansion - апгрейд расширения комнаты дорожает вдвое быстрее
func (u Upgrade) IsExpansion() bool {
	return u.ID == UpgradeRoomSpace
}

// Maxed проверяет, достигнут ли максимальный уровень
func (u Upgrade) Maxed() bool {
	return u.CurrentLevel >= u.MaxLevel
}
