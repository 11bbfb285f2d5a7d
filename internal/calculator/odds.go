package calculator

import (
	"math"

	"KyoteiSentinel/internal/model"
)

// laneBaseOdds is the win-odds prior by boat number. Lane one wins far
// more often at kyotei, so inside lanes trade short.
var laneBaseOdds = map[int]float64{
	1: 2.5, 2: 4.0, 3: 5.5, 4: 8.0, 5: 12.0, 6: 15.0,
}

// WinOddsEstimate guesses win odds for a boat without a tote feed.
// Higher confidence means a shorter price. Clamped to [1.1, 50.0].
func WinOddsEstimate(boatNumber int, confidence float64) float64 {
	base, ok := laneBaseOdds[boatNumber]
	if !ok {
		base = 6.0
	}
	factor := 1 - (confidence-0.5)*0.5
	estimated := base * factor
	return math.Max(1.1, math.Min(50.0, estimated))
}

// LegOdds estimates the payout odds of one ticket kind from the race
// confidence. Place tickets pay short, trifectas pay long.
func LegOdds(betType model.BetType, confidence float64) float64 {
	switch betType {
	case model.BetWin:
		return math.Max(1.5, 10.0/math.Max(0.1, confidence*10))
	case model.BetPlace:
		return math.Max(1.2, 5.0/math.Max(0.1, confidence*10))
	case model.BetTrifecta:
		return math.Max(10.0, 100.0/math.Max(0.01, confidence*100))
	default:
		return 3.0
	}
}

// RoundStake floors a stake to whole tickets. Anything below one ticket
// rounds to zero.
func RoundStake(stake int64) int64 {
	if stake < MinTicket {
		return 0
	}
	return stake - stake%MinTicket
}
