package settle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"KyoteiSentinel/internal/bankroll"
	"KyoteiSentinel/internal/collector"
	"KyoteiSentinel/internal/metrics"
	"KyoteiSentinel/internal/model"
	"KyoteiSentinel/internal/store"
)

// pendingTTL is how long an open bet waits for a result before it is
// voided and refunded. Results publish the same evening, so two days
// means the race key never matched.
const pendingTTL = 48 * time.Hour

// Settler matches open bets against official results, rolls the
// bankroll forward and appends the settled legs to the ledger.
type Settler struct {
	Collector *collector.Collector
	Manager   *bankroll.Manager
	Recorder  store.Recorder
	Metrics   *metrics.Recorder
	Log       *zap.Logger
}

// NewSettler wires a settler.
func NewSettler(col *collector.Collector, m *bankroll.Manager, rec store.Recorder, mr *metrics.Recorder, log *zap.Logger) *Settler {
	return &Settler{Collector: col, Manager: m, Recorder: rec, Metrics: mr, Log: log}
}

// Run settles every open bet that has a published result, then voids
// bets past the pending TTL. A panic anywhere is recovered into an
// error so a bad payload cannot take the scheduler down.
func (s *Settler) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in settlement: %v", r)
			s.Log.Error("settlement panicked", zap.Any("panic", r))
		}
	}()

	dates := s.Manager.PendingDates()
	if len(dates) == 0 {
		return nil
	}

	for _, date := range dates {
		results, err := s.Collector.Results(ctx, date)
		if err != nil {
			// Results may simply not be published yet.
			s.Log.Warn("results unavailable", zap.String("date", date), zap.Error(err))
			s.Metrics.Error("settle")
			continue
		}
		s.settleDate(date, results)
	}

	for _, p := range s.Manager.ExpireBefore(time.Now().Add(-pendingTTL)) {
		s.Log.Warn("bet voided, no result within TTL",
			zap.String("race", p.Decision.RaceKey))
		s.Metrics.BetSettled("void")
	}

	state := s.Manager.State()
	s.Metrics.Bankroll(state.Current, state.DailySpent)
	return nil
}

func (s *Settler) settleDate(date string, results []model.RaceResult) {
	byKey := make(map[string]model.RaceResult, len(results))
	for _, r := range results {
		key := model.RaceKey(model.VenueName(r.VenueID), r.RaceNumber, r.DateStr)
		byKey[key] = r
	}

	for _, p := range s.Manager.Pending() {
		if p.DateStr != date {
			continue
		}
		result, ok := byKey[p.Decision.RaceKey]
		if !ok {
			continue
		}
		if _, ok := s.Manager.ResolvePending(p.Decision.RaceKey); !ok {
			continue
		}
		s.settleBet(p, result)
	}
}

// settleBet decides each leg of one bet against the ordered finish and
// applies the outcome. Official payouts are used when the table has a
// row for the ticket; otherwise the estimated odds stand in, the same
// convention the expected-value gate was sized with.
func (s *Settler) settleBet(p bankroll.PendingBet, result model.RaceResult) {
	ordered := result.Ordered()
	now := time.Now()
	dateDashed := now.Format("2006-01-02")

	for _, leg := range p.Decision.Legs {
		won := leg.Type.Wins(leg.Selection, ordered)

		var payout int64
		odds := leg.EstimatedOdds
		if won {
			if amount, ok := result.PayoffFor(leg.Type, leg.Selection); ok {
				// Payoff rows quote yen per 100-yen ticket. Multiply
				// before dividing so legs that are not a 100-yen
				// multiple keep their full return.
				payout = leg.Amount * amount / 100
				if leg.Amount > 0 {
					odds = float64(amount) / 100.0
				}
			} else {
				payout = int64(float64(leg.Amount) * leg.EstimatedOdds)
			}
		}
		profit := payout - leg.Amount

		rec := model.SettlementRecord{
			RaceKey:    p.Decision.RaceKey,
			Strategy:   p.Decision.Strategy,
			BetType:    leg.Type,
			Selection:  leg.Selection,
			Stake:      leg.Amount,
			Odds:       odds,
			Won:        won,
			Payout:     payout,
			ProfitLoss: profit,
			Confidence: p.Decision.Confidence,
			SettledAt:  now,
		}
		state := s.Manager.ApplySettlement(rec)

		resultStr := "lose"
		if won {
			resultStr = "win"
		}
		roi := 0.0
		if leg.Amount > 0 {
			roi = float64(profit) / float64(leg.Amount)
		}
		if err := s.Recorder.InsertInvestment(model.InvestmentRecord{
			DateStr:       dateDashed,
			RaceKey:       p.Decision.RaceKey,
			StrategyName:  p.Decision.Strategy,
			BetType:       string(leg.Type),
			BetAmount:     leg.Amount,
			PredictedConf: p.Decision.Confidence,
			ActualOdds:    odds,
			Result:        resultStr,
			ProfitLoss:    profit,
			BankrollAfter: state.Current,
			ROI:           roi,
			Timestamp:     now,
		}); err != nil {
			s.Log.Error("record settlement", zap.String("race", p.Decision.RaceKey), zap.Error(err))
			s.Metrics.Error("recorder")
		}
		s.Metrics.BetSettled(resultStr)

		s.Log.Info("leg settled",
			zap.String("race", p.Decision.RaceKey),
			zap.String("bet_type", string(leg.Type)),
			zap.Bool("won", won),
			zap.Int64("stake", leg.Amount),
			zap.Int64("payout", payout),
			zap.Int64("bankroll", state.Current))
	}
}
