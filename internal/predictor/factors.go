package predictor

import (
	"fmt"

	"KyoteiSentinel/internal/model"
)

// Factor weights follow kyotei handicapping convention: the racer
// matters most, then the lane, then the equipment.
const (
	weightRacer = 0.40
	weightLane  = 0.30
	weightMotor = 0.20
	weightBoat  = 0.10
)

// laneAdvantage rates the starting course. Lane one controls the first
// turn at almost every venue.
var laneAdvantage = map[int]float64{
	1: 1.0, 2: 0.7, 3: 0.5, 4: 0.4, 5: 0.3, 6: 0.2,
}

// laneBaseStrength is the historical win tendency by lane, blended into
// the final strength so thin stats cannot produce wild scores.
var laneBaseStrength = map[int]float64{
	1: 0.85, 2: 0.65, 3: 0.55, 4: 0.45, 5: 0.35, 6: 0.25,
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// scoreRacerAbility rates the racer from published win rates. National
// win rates run up to about 30%, with local form given a smaller say.
// Missing stats score neutral.
func scoreRacerAbility(b model.ProgramBoat) model.FactorScore {
	raw := 0.5
	if b.NationalTop1 > 0 || b.LocalTop1 > 0 {
		blended := b.NationalTop1*0.6 + b.LocalTop1*0.4
		raw = clamp01(blended / 30.0)
	}
	return model.FactorScore{
		Name:       "レーサー実力",
		RawScore:   raw,
		Weight:     weightRacer,
		Weighted:   raw * weightRacer,
		Commentary: fmt.Sprintf("全国%.2f/当地%.2f", b.NationalTop1, b.LocalTop1),
	}
}

// scoreLaneAdvantage rates the starting course itself.
func scoreLaneAdvantage(boatNumber int) model.FactorScore {
	raw, ok := laneAdvantage[boatNumber]
	if !ok {
		raw = 0.5
	}
	return model.FactorScore{
		Name:       "コース有利度",
		RawScore:   raw,
		Weight:     weightLane,
		Weighted:   raw * weightLane,
		Commentary: fmt.Sprintf("%dコース", boatNumber),
	}
}

// scoreMotorPerformance rates the assigned motor from its two-rate.
// Two-rates run roughly 20-50%; missing data scores neutral.
func scoreMotorPerformance(b model.ProgramBoat) model.FactorScore {
	raw := 0.5
	if b.MotorTop2 > 0 {
		raw = clamp01((b.MotorTop2 - 20) / 30.0)
	}
	return model.FactorScore{
		Name:       "モーター性能",
		RawScore:   raw,
		Weight:     weightMotor,
		Weighted:   raw * weightMotor,
		Commentary: fmt.Sprintf("2連率%.1f%%", b.MotorTop2),
	}
}

// scoreBoatPerformance rates the assigned hull from its two-rate.
func scoreBoatPerformance(b model.ProgramBoat) model.FactorScore {
	raw := 0.5
	if b.BoatTop2 > 0 {
		raw = clamp01((b.BoatTop2 - 20) / 30.0)
	}
	return model.FactorScore{
		Name:       "ボート性能",
		RawScore:   raw,
		Weight:     weightBoat,
		Weighted:   raw * weightBoat,
		Commentary: fmt.Sprintf("2連率%.1f%%", b.BoatTop2),
	}
}

// boatStrength combines the factor scores into one rating. The weighted
// sum carries 80% and the lane's historical base 20%, clamped to [0,1].
func boatStrength(b model.ProgramBoat) model.BoatStrength {
	factors := []model.FactorScore{
		scoreRacerAbility(b),
		scoreLaneAdvantage(b.BoatNumber),
		scoreMotorPerformance(b),
		scoreBoatPerformance(b),
	}
	sum := 0.0
	for _, f := range factors {
		sum += f.Weighted
	}
	base, ok := laneBaseStrength[b.BoatNumber]
	if !ok {
		base = 0.5
	}
	return model.BoatStrength{
		BoatNumber: b.BoatNumber,
		RacerName:  b.RacerName,
		Factors:    factors,
		Strength:   clamp01(sum*0.8 + base*0.2),
	}
}
