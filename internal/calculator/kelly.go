package calculator

import (
	"math"

	"KyoteiSentinel/internal/model"
)

// MaxKellyFraction caps the bankroll share a single race may claim.
const MaxKellyFraction = 0.25

// KellyFraction computes the Kelly bet fraction for a single outcome:
// f = (b·p − q) / b with b = odds−1, p = winProb × confidenceMultiplier.
// Strategies pass their kelly multiplier as the confidence multiplier, so
// fractional Kelly is applied by shrinking the win probability.
// Unusable inputs and non-positive edges yield 0.
func KellyFraction(winProb, odds, confidenceMultiplier float64) float64 {
	if math.IsNaN(winProb) || math.IsNaN(odds) || math.IsNaN(confidenceMultiplier) {
		return 0
	}
	if math.IsInf(winProb, 0) || math.IsInf(odds, 0) || math.IsInf(confidenceMultiplier, 0) {
		return 0
	}
	if winProb <= 0 || winProb > 1 || odds <= 1.0 || confidenceMultiplier <= 0 {
		return 0
	}
	b := odds - 1.0
	p := winProb * confidenceMultiplier
	q := 1.0 - p
	f := (b*p - q) / b
	if f <= 0 {
		return 0
	}
	return math.Min(f, MaxKellyFraction)
}

// KellyStake sizes a bet from the current bankroll: bankroll × fraction,
// capped at bankroll × max bet ratio. Whole yen, never negative.
func KellyStake(bankroll int64, winProb, odds float64, profile model.StrategyProfile) int64 {
	if bankroll <= 0 {
		return 0
	}
	f := KellyFraction(winProb, odds, profile.KellyMultiplier)
	stake := int64(float64(bankroll) * f)
	maxBet := int64(float64(bankroll) * profile.MaxBetRatio)
	if stake > maxBet {
		stake = maxBet
	}
	if stake < 0 {
		return 0
	}
	return stake
}
