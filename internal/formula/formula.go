package formula

import "math"

// Multipliers and constants shared by the live tick and offline reconciliation.
const (
	MiningSpeedStep      = 0.1
	RebirthEarningsStep  = 0.1
	RebirthDiscountStep  = 0.1
	WorkerDiscountStep   = 0.15
	ExpansionCostFactor  = 2.0
	DefaultCostFactor    = 1.5
	TokenSwitchBaseCost  = 10000
	TokenSwitchStep      = 1000
	ComputersPerWorker   = 5
	TokenValueStep       = 5
	TokenValueCostFactor = 1000
)

// floorEpsilon absorbs float noise such as 0.1*3 = 0.30000000000000004
// before flooring cash amounts.
const floorEpsilon = 1e-9

// FloorCash floors a cash amount to whole currency units.
func FloorCash(v float64) int64 {
	if v <= 0 {
		return 0
	}
	return int64(math.Floor(v + floorEpsilon))
}

// MiningRate returns tokens per second for a computer:
// base × (1 + 0.1×miningSpeedLevel) × boost.
func MiningRate(baseRate float64, miningSpeedLevel int, boostMultiplier float64) float64 {
	return baseRate * (1 + MiningSpeedStep*float64(miningSpeedLevel)) * boostMultiplier
}

// TickInput carries everything CashPerTick needs, read once per tick.
type TickInput struct {
	BaseRate               float64
	TokenPrice             float64
	MiningSpeedLevel       int
	BoostMultiplier        float64
	EarningsMultiplier     float64
	RebirthBoostMultiplier float64
}

// CashPerTick is the cash a single computer earns in one 1-second tick.
func CashPerTick(in TickInput) int64 {
	rate := MiningRate(in.BaseRate, in.MiningSpeedLevel, in.BoostMultiplier)
	return FloorCash(rate * in.TokenPrice * in.EarningsMultiplier * in.RebirthBoostMultiplier)
}

// UpgradeCostAtLevel is baseCost × (2 for expansion, 1.5 otherwise)^level, floored.
func UpgradeCostAtLevel(baseCost int64, level int, isExpansion bool) int64 {
	factor := DefaultCostFactor
	if isExpansion {
		factor = ExpansionCostFactor
	}
	return FloorCash(float64(baseCost) * math.Pow(factor, float64(level)))
}

// rebirth cost tiers
const (
	rebirthCostFirst  = 50000
	rebirthCostSecond = 300000
	rebirthCostThird  = 1500000
)

// RebirthBaseCost is the undiscounted cost of the rebirth performed at rebirthCount.
func RebirthBaseCost(rebirthCount int) int64 {
	switch {
	case rebirthCount <= 0:
		return rebirthCostFirst
	case rebirthCount == 1:
		return rebirthCostSecond
	case rebirthCount == 2:
		return rebirthCostThird
	default:
		return FloorCash(rebirthCostThird * math.Pow(2, float64(rebirthCount-2)))
	}
}

// RebirthCost applies the rebirth-discount upgrade to the tiered base cost.
func RebirthCost(rebirthCount, discountLevel int) int64 {
	return FloorCash(float64(RebirthBaseCost(rebirthCount)) * clampDiscount(1-RebirthDiscountStep*float64(discountLevel)))
}

// EarningsMultiplier is the permanent rebirth bonus: 1 + 0.1×rebirthCount.
func EarningsMultiplier(rebirthCount int) float64 {
	return 1 + RebirthEarningsStep*float64(rebirthCount)
}

// WorkerDiscountMultiplier is the hiring price factor, 1 − 0.15×level.
// This is the only worker discount rate in the game.
func WorkerDiscountMultiplier(level int) float64 {
	return clampDiscount(1 - WorkerDiscountStep*float64(level))
}

// WorkerCost is the discounted price of a worker.
func WorkerCost(baseCost int64, discountLevel int) int64 {
	return FloorCash(float64(baseCost) * WorkerDiscountMultiplier(discountLevel))
}

// TokenSwitchCost is max(0, 10000 − 1000×level).
func TokenSwitchCost(discountLevel int) int64 {
	cost := int64(TokenSwitchBaseCost - TokenSwitchStep*discountLevel)
	if cost < 0 {
		return 0
	}
	return cost
}

// TokenValueUpgradeCost prices the next +5 value purchase for a token.
func TokenValueUpgradeCost(basePrice float64, level int) int64 {
	return FloorCash(basePrice * TokenValueCostFactor * math.Pow(DefaultCostFactor, float64(level)))
}

// RequiredWorkers returns how many workers of a role are needed to own
// ownedOfTier+1 computers of the matching tier: ⌈(n+1)/5⌉.
func RequiredWorkers(ownedOfTier int) int {
	n := ownedOfTier + 1
	return (n + ComputersPerWorker - 1) / ComputersPerWorker
}

func clampDiscount(m float64) float64 {
	if m < 0 {
		return 0
	}
	return m
}
