package game

import (
	"time"

	"cryptofarm/internal/domain"
)

// Minigame ids.
const (
	MinigameHashCracker     = "hash-cracker"
	MinigameMemoryMatch     = "memory-match"
	MinigamePricePrediction = "price-prediction"
	MinigameCableConnect    = "cable-connect"
	MinigameTimingChallenge = "timing-challenge"
)

// MinigameReward is what a minigame grants on success.
type MinigameReward struct {
	Cash          int64            `json:"cash,omitempty"`
	BoostType     domain.BoostType `json:"boost_type,omitempty"`
	BoostValue    float64          `json:"boost_value,omitempty"`
	BoostDuration time.Duration    `json:"boost_duration,omitempty"`
}

func (r MinigameReward) IsBoost() bool { return r.BoostType != "" }

var minigameRewards = map[string]MinigameReward{
	MinigameHashCracker:     {Cash: 5000},
	MinigameMemoryMatch:     {BoostType: domain.BoostTypeMultiplier, BoostValue: 2, BoostDuration: 60 * time.Second},
	MinigamePricePrediction: {Cash: 10000},
	MinigameCableConnect:    {BoostType: domain.BoostTypeCash, BoostValue: 1.5, BoostDuration: 120 * time.Second},
	MinigameTimingChallenge: {Cash: 2500},
}

// MinigameRewardFor returns the reward table entry for a game.
func MinigameRewardFor(gameID string) (MinigameReward, bool) {
	r, ok := minigameRewards[gameID]
	return r, ok
}

// ApplyMinigameResult grants the game's reward when success is true. A
// failed attempt grants nothing and is not an error.
func (e *Engine) ApplyMinigameResult(gameID string, success bool) (MinigameReward, error) {
	reward, ok := minigameRewards[gameID]
	if !ok {
		return MinigameReward{}, ErrUnknownItem
	}
	if !success {
		return MinigameReward{}, nil
	}
	if reward.IsBoost() {
		e.AddBoost(reward.BoostType, reward.BoostValue, reward.BoostDuration, gameID)
	} else {
		e.wallet.Grant(reward.Cash)
	}
	return reward, nil
}
