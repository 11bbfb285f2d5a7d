package notifier

import (
	"fmt"
	"strings"
	"time"

	"KyoteiSentinel/internal/model"
)

// FormatDailyReport formats the end-of-day performance report.
func FormatDailyReport(rep model.DailyReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>KyoteiSentinel 日報</b> | %s\n\n", rep.DateStr))

	m := rep.Metrics
	b.WriteString(fmt.Sprintf("戦略: %s\n", m.Strategy))
	b.WriteString(fmt.Sprintf("的中: %d/%d (%.1f%%)\n", m.Wins, m.TotalBets, m.WinRate*100))
	b.WriteString(fmt.Sprintf("投資額: ¥%d | 回収額: ¥%d\n", m.TotalInvested, m.TotalReturned))
	b.WriteString(fmt.Sprintf("ROI: %+.1f%% | シャープ: %.2f\n", m.ROI*100, m.SharpeRatio))
	b.WriteString(fmt.Sprintf("最大DD: %.1f%% | リスク: %s\n\n", m.MaxDrawdown*100, m.RiskLevel))

	if len(rep.Calibration) > 0 {
		b.WriteString("🎯 <b>信頼度キャリブレーション</b>\n")
		for _, c := range rep.Calibration {
			b.WriteString(fmt.Sprintf("  %.1f-%.1f: 予測%.0f%% / 実績%.0f%% (%d件)\n",
				c.Low, c.High, c.PredictedMean*100, c.ObservedRate*100, c.Bets))
		}
		b.WriteString("\n")
	}

	if rep.Recommended != "" {
		b.WriteString(fmt.Sprintf("💡 推奨戦略: <b>%s</b>\n\n", rep.Recommended))
	}

	b.WriteString(FormatBankrollStatus(rep.Bankroll))
	return b.String()
}

// FormatBankrollStatus formats the current bankroll state for display.
func FormatBankrollStatus(state model.BankrollState) string {
	var b strings.Builder
	b.WriteString("💰 <b>資金状態</b>\n\n")
	b.WriteString(fmt.Sprintf("現在資金: ¥%d (初期¥%d, %.1f%%)\n",
		state.Current, state.Initial, state.Ratio()*100))
	b.WriteString(fmt.Sprintf("本日投資: ¥%d | 本日損益: %+d\n", state.DailySpent, state.DailyPnL))
	b.WriteString(fmt.Sprintf("連勝: %d | 連敗: %d\n", state.ConsecutiveWins, state.ConsecutiveLosses))
	b.WriteString(fmt.Sprintf("更新時刻: %s\n", state.UpdatedAt.Format("2006-01-02 15:04")))
	return b.String()
}

// FormatDecisionDigest formats the morning's bet decisions. Skipped
// races are summarized on one line so the digest stays readable on a
// twelve-race card.
func FormatDecisionDigest(decisions []model.BetDecision) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚤 <b>本日の投票</b> | %s\n\n", time.Now().Format("2006-01-02")))

	placed := 0
	skipped := 0
	var total int64
	for _, d := range decisions {
		if d.Skipped() {
			skipped++
			continue
		}
		placed++
		total += d.TotalStake
		b.WriteString(fmt.Sprintf("<b>%s</b> (信頼度%.0f%%)\n", d.RaceKey, d.Confidence*100))
		for _, leg := range d.Legs {
			b.WriteString(fmt.Sprintf("  %s %s: ¥%d (予想%.1f倍)\n",
				betTypeLabel(leg.Type), leg.Selection, leg.Amount, leg.EstimatedOdds))
		}
	}

	if placed == 0 {
		b.WriteString("本日は見送りです\n")
	} else {
		b.WriteString(fmt.Sprintf("\n合計: %dレース ¥%d", placed, total))
	}
	if skipped > 0 {
		b.WriteString(fmt.Sprintf(" (見送り%d件)", skipped))
	}
	b.WriteString("\n")
	return b.String()
}

func betTypeLabel(t model.BetType) string {
	switch t {
	case model.BetWin:
		return "単勝"
	case model.BetPlace:
		return "複勝"
	case model.BetExacta:
		return "2連単"
	case model.BetQuinella:
		return "2連複"
	case model.BetTrifecta:
		return "3連単"
	case model.BetTrio:
		return "3連複"
	default:
		return string(t)
	}
}
