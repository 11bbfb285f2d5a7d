package calculator

import (
	"math"
	"sort"

	"KyoteiSentinel/internal/model"
)

// Allocation assigns part of a day's budget to one race.
type Allocation struct {
	Prediction    model.RacePrediction
	ExpectedValue float64
	Amount        int64
}

// ExpectedValue is the per-yen expected return of a bet at the given
// confidence and decimal odds.
func ExpectedValue(confidence, odds float64) float64 {
	return confidence*(odds-1) - (1 - confidence)
}

// AllocateBudget spreads a daily budget across the races whose expected
// value clears minEV. Races are visited in descending EV order (stable
// for ties) and each takes remaining × min(0.3, confidence × 0.5), so
// the walk can never overdraw the budget.
func AllocateBudget(predictions []model.RacePrediction, budget int64, minEV float64) []Allocation {
	if budget <= 0 || len(predictions) == 0 {
		return nil
	}

	candidates := make([]Allocation, 0, len(predictions))
	for _, p := range predictions {
		ev := ExpectedValue(p.Confidence, p.EstimatedOdds)
		if math.IsNaN(ev) || ev <= minEV {
			continue
		}
		candidates = append(candidates, Allocation{Prediction: p, ExpectedValue: ev})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ExpectedValue > candidates[j].ExpectedValue
	})

	remaining := budget
	out := make([]Allocation, 0, len(candidates))
	for _, c := range candidates {
		if remaining <= 0 {
			break
		}
		ratio := math.Min(0.3, c.Prediction.Confidence*0.5)
		amount := int64(float64(remaining) * ratio)
		if amount <= 0 {
			continue
		}
		c.Amount = amount
		remaining -= amount
		out = append(out, c)
	}
	return out
}
