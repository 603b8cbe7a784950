package formula

import "time"

const (
	// OfflineCashPerToken replaces the live token price while the player is away.
	OfflineCashPerToken = 10

	// OfflineMinAway is the threshold at or below which nothing is awarded.
	OfflineMinAway = 60 * time.Second
	// OfflineCap bounds the total time credited.
	OfflineCap = 24 * time.Hour
)

// OfflineTier is one time band of offline accrual.
type OfflineTier struct {
	From, To       time.Duration
	BaseMultiplier float64
}

// OfflineTiers: first 3h at 0.3, hours 3-6 at 0.2, hours 6-24 at 0.1.
// Each tier multiplier grows by 0.1 per offline-boost level.
var OfflineTiers = []OfflineTier{
	{From: 0, To: 3 * time.Hour, BaseMultiplier: 0.3},
	{From: 3 * time.Hour, To: 6 * time.Hour, BaseMultiplier: 0.2},
	{From: 6 * time.Hour, To: 24 * time.Hour, BaseMultiplier: 0.1},
}

const offlineBoostStep = 0.1

// OfflineBaseRate sums the catalog mining rates of owned computers,
// valued at OfflineCashPerToken and scaled by the rebirth multiplier.
func OfflineBaseRate(miningRates []float64, rebirthCount int) float64 {
	var sum float64
	for _, r := range miningRates {
		sum += r * OfflineCashPerToken
	}
	return sum * EarningsMultiplier(rebirthCount)
}

// OfflineEarnings computes the tiered cash awarded for time away.
func OfflineEarnings(secondsAway int64, miningRates []float64, rebirthCount, offlineBoostLevel int) int64 {
	if secondsAway <= int64(OfflineMinAway/time.Second) || len(miningRates) == 0 {
		return 0
	}
	return OfflineEarningsFromRate(secondsAway, OfflineBaseRate(miningRates, rebirthCount), offlineBoostLevel)
}

// OfflineEarningsFromRate applies the tiers to an already computed base rate.
func OfflineEarningsFromRate(secondsAway int64, baseRate float64, offlineBoostLevel int) int64 {
	if secondsAway <= int64(OfflineMinAway/time.Second) || baseRate <= 0 {
		return 0
	}
	away := time.Duration(secondsAway) * time.Second
	if away > OfflineCap {
		away = OfflineCap
	}

	var total int64
	for _, tier := range OfflineTiers {
		if away <= tier.From {
			break
		}
		end := tier.To
		if away < end {
			end = away
		}
		seconds := (end - tier.From).Seconds()
		mult := tier.BaseMultiplier + offlineBoostStep*float64(offlineBoostLevel)
		total += FloorCash(baseRate * seconds * mult)
	}
	return total
}
