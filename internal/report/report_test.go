package report

import (
	"math"
	"testing"

	"KyoteiSentinel/internal/model"
)

func rec(result string, amount, profit, after int64, conf float64) model.InvestmentRecord {
	return model.InvestmentRecord{
		BetAmount:     amount,
		ProfitLoss:    profit,
		BankrollAfter: after,
		Result:        result,
		PredictedConf: conf,
	}
}

func TestComputeMetrics_Basics(t *testing.T) {
	records := []model.InvestmentRecord{
		rec("win", 1000, 1500, 11500, 0.7),
		rec("lose", 1000, -1000, 10500, 0.6),
		rec("win", 1000, 500, 11000, 0.8),
		rec("lose", 1000, -1000, 10000, 0.5),
	}
	m := ComputeMetrics("moderate", records)

	if m.TotalBets != 4 || m.Wins != 2 {
		t.Errorf("bets/wins = %d/%d, want 4/2", m.TotalBets, m.Wins)
	}
	if m.WinRate != 0.5 {
		t.Errorf("WinRate = %v, want 0.5", m.WinRate)
	}
	if m.TotalInvested != 4000 {
		t.Errorf("TotalInvested = %d, want 4000", m.TotalInvested)
	}
	// Net profit is 0, so ROI and returned == invested.
	if m.TotalReturned != 4000 || m.ROI != 0 {
		t.Errorf("returned/roi = %d/%v, want 4000/0", m.TotalReturned, m.ROI)
	}
	// Peak 11500, trough 10000 → drawdown ≈ 13%.
	if math.Abs(m.MaxDrawdown-1500.0/11500.0) > 1e-9 {
		t.Errorf("MaxDrawdown = %v", m.MaxDrawdown)
	}
	if m.RiskLevel != "medium" {
		t.Errorf("RiskLevel = %q, want medium", m.RiskLevel)
	}
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics("moderate", nil)
	if m.TotalBets != 0 || m.ProfitabilityScore != 0 || m.RiskLevel != "low" {
		t.Errorf("empty metrics = %+v", m)
	}
}

func TestSharpe_FlatSeriesIsZero(t *testing.T) {
	records := []model.InvestmentRecord{
		rec("win", 1000, 100, 10100, 0.7),
		rec("win", 1000, 100, 10200, 0.7),
		rec("win", 1000, 100, 10300, 0.7),
	}
	if s := ComputeMetrics("x", records).SharpeRatio; s != 0 {
		t.Errorf("Sharpe = %v, want 0 for zero dispersion", s)
	}
}

func TestRecommend_PicksBestScore(t *testing.T) {
	byStrategy := map[string]model.StrategyMetrics{
		"conservative": {ROI: 0.05, WinRate: 0.55, MaxDrawdown: 0.05},
		"moderate":     {ROI: 0.20, WinRate: 0.50, MaxDrawdown: 0.10},
		"aggressive":   {ROI: 0.25, WinRate: 0.35, MaxDrawdown: 0.60},
	}
	// moderate: 0.10+0.15-0.02=0.23; aggressive: 0.125+0.105-0.12=0.11;
	// conservative: 0.025+0.165-0.01=0.18.
	if got := Recommend(byStrategy); got != "moderate" {
		t.Errorf("Recommend = %q, want moderate", got)
	}
}

func TestRecommend_Empty(t *testing.T) {
	if got := Recommend(nil); got != "" {
		t.Errorf("Recommend(nil) = %q, want empty", got)
	}
}

func TestCalibration_BucketsByDecile(t *testing.T) {
	records := []model.InvestmentRecord{
		rec("win", 100, 100, 0, 0.65),
		rec("lose", 100, -100, 0, 0.68),
		rec("win", 100, 100, 0, 0.85),
	}
	buckets := Calibration(records)
	if len(buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(buckets))
	}
	b6 := buckets[0]
	if b6.Low != 0.6 || b6.Bets != 2 || b6.ObservedRate != 0.5 {
		t.Errorf("0.6 bucket = %+v", b6)
	}
	if math.Abs(b6.PredictedMean-0.665) > 1e-9 {
		t.Errorf("PredictedMean = %v, want 0.665", b6.PredictedMean)
	}
	b8 := buckets[1]
	if b8.Low != 0.8 || b8.Bets != 1 || b8.ObservedRate != 1.0 {
		t.Errorf("0.8 bucket = %+v", b8)
	}
}
