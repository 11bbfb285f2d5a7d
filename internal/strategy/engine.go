package strategy

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"KyoteiSentinel/internal/calculator"
	"KyoteiSentinel/internal/model"
)

// Engine turns race predictions into bet decisions for one profile.
// All methods work over a BankrollState snapshot and never mutate it.
type Engine struct {
	Profile model.StrategyProfile
}

// New builds an engine for the named profile.
func New(profileName string) *Engine {
	return &Engine{Profile: ProfileByName(profileName)}
}

// Evaluate sizes a single race: Kelly stake, streak and daily-limit
// adjustment, per-race cap, then the diversification split. A decision
// with zero stake carries the reason it was skipped.
func (e *Engine) Evaluate(state model.BankrollState, pred model.RacePrediction) model.BetDecision {
	return e.evaluate(state, pred, 0)
}

// evaluate applies an optional extra cap (0 means none) on top of the
// per-race maximum; EvaluateDay uses it for budget allocations.
func (e *Engine) evaluate(state model.BankrollState, pred model.RacePrediction, limit int64) model.BetDecision {
	d := model.BetDecision{
		ID:         uuid.NewString(),
		RaceKey:    pred.RaceKey,
		Strategy:   e.Profile.Name,
		Confidence: pred.Confidence,
		CreatedAt:  time.Now(),
	}

	if pred.Confidence < e.Profile.MinConfidence {
		d.SkipReason = fmt.Sprintf("confidence %.2f below minimum %.2f",
			pred.Confidence, e.Profile.MinConfidence)
		return d
	}
	if stop := int64(float64(state.Current) * e.Profile.StopLossRatio); state.DailyPnL <= -stop && stop > 0 {
		d.SkipReason = "daily stop loss reached"
		return d
	}
	// Bankroll protection floor: once drawdown erodes the bankroll past
	// stop_loss_ratio × 2.5 of initial (50% with the default profile),
	// stop betting entirely until capital is added or reset.
	if floor := 1 - e.Profile.StopLossRatio*2.5; state.Initial > 0 && state.Ratio() < floor {
		d.SkipReason = fmt.Sprintf("bankroll at %.0f%% of initial, below %.0f%% protection floor",
			state.Ratio()*100, floor*100)
		return d
	}

	stake := calculator.KellyStake(state.Current, pred.Confidence, pred.EstimatedOdds, e.Profile)
	stake = calculator.AdjustStake(stake, state, e.Profile)
	if maxBet := int64(float64(state.Current) * e.Profile.MaxBetRatio); stake > maxBet {
		stake = maxBet
	}
	if limit > 0 && stake > limit {
		stake = limit
	}
	stake = calculator.RoundStake(stake)
	if stake <= 0 {
		d.SkipReason = "stake below minimum ticket"
		return d
	}

	d.Legs = buildLegs(stake, pred)
	for _, leg := range d.Legs {
		d.TotalStake += leg.Amount
	}
	if d.TotalStake == 0 {
		d.Legs = nil
		d.SkipReason = "no leg reached the minimum ticket"
	}
	return d
}

// buildLegs splits the stake across ticket kinds and attaches the
// selections. A split part whose selection cannot be formed (short
// field, no trifecta) is dropped.
func buildLegs(stake int64, pred model.RacePrediction) []model.BetLeg {
	parts := calculator.SplitStake(stake, pred.Confidence)
	legs := make([]model.BetLeg, 0, len(parts))
	for _, p := range parts {
		selection := ""
		switch p.Type {
		case model.BetWin:
			if pred.WinBoat > 0 {
				selection = strconv.Itoa(pred.WinBoat)
			}
		case model.BetPlace:
			selection = joinBoats(pred.PlaceBoats)
		case model.BetTrifecta:
			selection = pred.TrifectaCombo
		}
		if selection == "" {
			continue
		}
		legs = append(legs, model.BetLeg{
			Type:          p.Type,
			Selection:     selection,
			Amount:        p.Amount,
			EstimatedOdds: calculator.LegOdds(p.Type, pred.Confidence),
		})
	}
	return legs
}

func joinBoats(boats []int) string {
	if len(boats) == 0 {
		return ""
	}
	parts := make([]string, len(boats))
	for i, b := range boats {
		parts[i] = strconv.Itoa(b)
	}
	return strings.Join(parts, "-")
}

// EvaluateDay allocates the remaining daily budget across the card and
// sizes each allocated race. Spend accumulates into the working state
// copy so later races see a shrinking daily budget.
func (e *Engine) EvaluateDay(state model.BankrollState, preds []model.RacePrediction) []model.BetDecision {
	budget := int64(float64(state.Current)*e.Profile.DailyLimitRatio) - state.DailySpent
	if budget <= 0 {
		return nil
	}

	allocs := calculator.AllocateBudget(preds, budget, 0)
	decisions := make([]model.BetDecision, 0, len(allocs))
	working := state
	for _, alloc := range allocs {
		d := e.evaluate(working, alloc.Prediction, alloc.Amount)
		if !d.Skipped() {
			working.DailySpent += d.TotalStake
		}
		decisions = append(decisions, d)
	}
	return decisions
}
