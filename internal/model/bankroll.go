package model

import "time"

// BankrollState tracks the betting fund across a season. Amounts are yen.
type BankrollState struct {
	Initial           int64     `json:"initial"`
	Current           int64     `json:"current"`
	DailySpent        int64     `json:"daily_spent"`
	DailyPnL          int64     `json:"daily_pnl"`
	Day               string    `json:"day"` // YYYY-MM-DD key for the daily windows
	ConsecutiveWins   int       `json:"consecutive_wins"`
	ConsecutiveLosses int       `json:"consecutive_losses"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Ratio reports current bankroll as a fraction of the initial stake.
func (s BankrollState) Ratio() float64 {
	if s.Initial <= 0 {
		return 0
	}
	return float64(s.Current) / float64(s.Initial)
}

// StrategyProfile bundles the risk knobs of one betting style.
type StrategyProfile struct {
	Name            string  `json:"name" yaml:"name"`
	MaxBetRatio     float64 `json:"max_bet_ratio" yaml:"max_bet_ratio"`
	KellyMultiplier float64 `json:"kelly_multiplier" yaml:"kelly_multiplier"`
	RiskTolerance   float64 `json:"risk_tolerance" yaml:"risk_tolerance"`
	DailyLimitRatio float64 `json:"daily_limit_ratio" yaml:"daily_limit_ratio"`
	MinConfidence   float64 `json:"min_confidence" yaml:"min_confidence"`
	StopLossRatio   float64 `json:"stop_loss_ratio" yaml:"stop_loss_ratio"`
}
