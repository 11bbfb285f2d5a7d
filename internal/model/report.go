package model

// StrategyMetrics aggregates settled bets for one strategy.
type StrategyMetrics struct {
	Strategy           string  `json:"strategy"`
	TotalBets          int     `json:"total_bets"`
	Wins               int     `json:"wins"`
	WinRate            float64 `json:"win_rate"`
	TotalInvested      int64   `json:"total_invested"`
	TotalReturned      int64   `json:"total_returned"`
	ROI                float64 `json:"roi"`
	SharpeRatio        float64 `json:"sharpe_ratio"`
	MaxDrawdown        float64 `json:"max_drawdown"`
	ProfitabilityScore float64 `json:"profitability_score"`
	RiskLevel          string  `json:"risk_level"`
}

// CalibrationBucket compares predicted confidence with observed outcomes
// inside one confidence band.
type CalibrationBucket struct {
	Low           float64 `json:"low"`
	High          float64 `json:"high"`
	Bets          int     `json:"bets"`
	PredictedMean float64 `json:"predicted_mean"`
	ObservedRate  float64 `json:"observed_rate"`
}

// DailyReport is the end-of-day summary sent to operators.
type DailyReport struct {
	DateStr     string              `json:"date_str"`
	Bankroll    BankrollState       `json:"bankroll"`
	Metrics     StrategyMetrics     `json:"metrics"`
	Calibration []CalibrationBucket `json:"calibration"`
	Recommended string              `json:"recommended_strategy"`
}
