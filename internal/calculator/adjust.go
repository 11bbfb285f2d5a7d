package calculator

import (
	"math"

	"KyoteiSentinel/internal/model"
)

// AdjustStake applies streak, bankroll-level and daily-limit adjustments
// to a base stake. Losing streaks shrink the stake faster than winning
// streaks grow it, and the two never stack. The daily limit is a hard
// gate: once spend reaches bankroll × daily limit ratio the stake is 0.
func AdjustStake(base int64, state model.BankrollState, profile model.StrategyProfile) int64 {
	if base <= 0 || state.Current <= 0 {
		return 0
	}
	factor := 1.0

	switch {
	case state.ConsecutiveLosses >= 3:
		factor *= math.Min(0.8, math.Pow(0.9, float64(state.ConsecutiveLosses)))
	case state.ConsecutiveWins >= 3:
		streak := state.ConsecutiveWins
		if streak > 5 {
			streak = 5
		}
		factor *= math.Min(1.3, math.Pow(1.1, float64(streak)))
	}

	switch ratio := state.Ratio(); {
	case ratio < 0.5:
		factor *= 0.5
	case ratio > 2.0:
		factor *= 1.2
	}

	dailyLimit := int64(float64(state.Current) * profile.DailyLimitRatio)
	if state.DailySpent >= dailyLimit {
		return 0
	}

	adjusted := int64(float64(base) * factor)
	if remaining := dailyLimit - state.DailySpent; adjusted > remaining {
		adjusted = remaining
	}
	if adjusted < 0 {
		return 0
	}
	return adjusted
}
