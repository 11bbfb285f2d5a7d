package strategy

import "KyoteiSentinel/internal/model"

// Profiles are the built-in risk styles. Conservative quarter-Kelly
// with a tight per-race cap, moderate half-Kelly, aggressive
// three-quarter Kelly with a loose cap and a lower confidence bar.
var Profiles = map[string]model.StrategyProfile{
	"conservative": {
		Name:            "conservative",
		MaxBetRatio:     0.02,
		KellyMultiplier: 0.25,
		RiskTolerance:   0.10,
		DailyLimitRatio: 0.20,
		MinConfidence:   0.60,
		StopLossRatio:   0.20,
	},
	"moderate": {
		Name:            "moderate",
		MaxBetRatio:     0.05,
		KellyMultiplier: 0.50,
		RiskTolerance:   0.20,
		DailyLimitRatio: 0.20,
		MinConfidence:   0.50,
		StopLossRatio:   0.20,
	},
	"aggressive": {
		Name:            "aggressive",
		MaxBetRatio:     0.10,
		KellyMultiplier: 0.75,
		RiskTolerance:   0.35,
		DailyLimitRatio: 0.20,
		MinConfidence:   0.40,
		StopLossRatio:   0.20,
	},
}

// ProfileByName resolves a profile, falling back to moderate.
func ProfileByName(name string) model.StrategyProfile {
	if p, ok := Profiles[name]; ok {
		return p
	}
	return Profiles["moderate"]
}
