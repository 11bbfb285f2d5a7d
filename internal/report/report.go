package report

import (
	"math"
	"sort"

	"KyoteiSentinel/internal/model"
)

// ComputeMetrics aggregates one strategy's settled legs into the
// performance summary shown in the daily report.
func ComputeMetrics(strategy string, records []model.InvestmentRecord) model.StrategyMetrics {
	m := model.StrategyMetrics{Strategy: strategy, RiskLevel: "low"}
	if len(records) == 0 {
		return m
	}

	var rois []float64
	for _, r := range records {
		m.TotalBets++
		m.TotalInvested += r.BetAmount
		m.TotalReturned += r.BetAmount + r.ProfitLoss
		if r.Result == "win" {
			m.Wins++
		}
		if r.BetAmount > 0 {
			rois = append(rois, float64(r.ProfitLoss)/float64(r.BetAmount))
		}
	}
	m.WinRate = float64(m.Wins) / float64(m.TotalBets)
	if m.TotalInvested > 0 {
		m.ROI = float64(m.TotalReturned-m.TotalInvested) / float64(m.TotalInvested)
	}
	m.SharpeRatio = sharpe(rois)
	m.MaxDrawdown = maxDrawdown(records)

	// Normalized blend: ROI is graded over [-50%, +50%], Sharpe over
	// [0, 2]; win rate is already a fraction.
	roiScore := clamp01(m.ROI + 0.5)
	sharpeScore := clamp01(m.SharpeRatio / 2.0)
	m.ProfitabilityScore = roiScore*0.4 + m.WinRate*0.4 + sharpeScore*0.2

	switch {
	case m.MaxDrawdown < 0.10:
		m.RiskLevel = "low"
	case m.MaxDrawdown < 0.25:
		m.RiskLevel = "medium"
	default:
		m.RiskLevel = "high"
	}
	return m
}

// sharpe is the mean per-bet ROI over its standard deviation. A flat
// series has no dispersion and scores zero.
func sharpe(rois []float64) float64 {
	if len(rois) < 2 {
		return 0
	}
	mean := 0.0
	for _, r := range rois {
		mean += r
	}
	mean /= float64(len(rois))

	variance := 0.0
	for _, r := range rois {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(rois) - 1)
	if variance <= 0 {
		return 0
	}
	return mean / math.Sqrt(variance)
}

// maxDrawdown walks the bankroll_after series and reports the largest
// relative decline from a running peak.
func maxDrawdown(records []model.InvestmentRecord) float64 {
	peak := int64(0)
	worst := 0.0
	for _, r := range records {
		if r.BankrollAfter > peak {
			peak = r.BankrollAfter
		}
		if peak > 0 {
			dd := float64(peak-r.BankrollAfter) / float64(peak)
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// Recommend names the strategy with the best risk-adjusted score:
// roi×0.5 + win_rate×0.3 − drawdown×0.2. Ties break alphabetically so
// the recommendation is stable run to run.
func Recommend(byStrategy map[string]model.StrategyMetrics) string {
	names := make([]string, 0, len(byStrategy))
	for name := range byStrategy {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	bestScore := math.Inf(-1)
	for _, name := range names {
		m := byStrategy[name]
		score := m.ROI*0.5 + m.WinRate*0.3 - m.MaxDrawdown*0.2
		if score > bestScore {
			best = name
			bestScore = score
		}
	}
	return best
}

// Calibration buckets settled legs by predicted confidence decile and
// pairs the predicted mean with the observed win rate, so drift in the
// model's self-reported probabilities is visible before anyone retunes
// the confidence gate.
func Calibration(records []model.InvestmentRecord) []model.CalibrationBucket {
	type acc struct {
		bets    int
		wins    int
		confSum float64
	}
	buckets := make([]acc, 10)
	for _, r := range records {
		idx := int(r.PredictedConf * 10)
		if idx < 0 {
			idx = 0
		}
		if idx > 9 {
			idx = 9
		}
		buckets[idx].bets++
		buckets[idx].confSum += r.PredictedConf
		if r.Result == "win" {
			buckets[idx].wins++
		}
	}

	var out []model.CalibrationBucket
	for i, b := range buckets {
		if b.bets == 0 {
			continue
		}
		out = append(out, model.CalibrationBucket{
			Low:           float64(i) / 10,
			High:          float64(i+1) / 10,
			Bets:          b.bets,
			PredictedMean: b.confSum / float64(b.bets),
			ObservedRate:  float64(b.wins) / float64(b.bets),
		})
	}
	return out
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
