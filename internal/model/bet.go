package model

import (
	"strconv"
	"strings"
	"time"
)

// BetType identifies a pari-mutuel ticket kind.
type BetType string

const (
	BetWin      BetType = "win"      // 単勝: first place
	BetPlace    BetType = "place"    // 複勝: finish in top 2
	BetExacta   BetType = "exacta"   // 2連単: first and second in order
	BetQuinella BetType = "quinella" // 2連複: first and second in any order
	BetTrifecta BetType = "trifecta" // 3連単: top three in order
	BetTrio     BetType = "trio"     // 3連複: top three in any order
)

// ParseSelection splits a "1-2-3" selection into boat numbers.
// Malformed tokens yield nil so a bad selection can never win.
func ParseSelection(selection string) []int {
	if selection == "" {
		return nil
	}
	parts := strings.Split(selection, "-")
	boats := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil
		}
		boats = append(boats, n)
	}
	return boats
}

// Wins decides a ticket against the ordered finish (winner first).
// Ordered ticket kinds require the exact arrival sequence; unordered
// kinds require the same set of boats. A multi-boat place selection
// pays only when every pick finishes top two, the conservative reading
// of a combined ticket.
func (t BetType) Wins(selection string, ordered []int) bool {
	sel := ParseSelection(selection)
	if len(sel) == 0 || len(ordered) == 0 {
		return false
	}
	switch t {
	case BetWin:
		return len(sel) == 1 && sel[0] == ordered[0]
	case BetPlace:
		if len(ordered) < 2 {
			return false
		}
		top2 := map[int]bool{ordered[0]: true, ordered[1]: true}
		for _, b := range sel {
			if !top2[b] {
				return false
			}
		}
		return len(sel) >= 1 && len(sel) <= 2
	case BetExacta:
		return len(sel) == 2 && len(ordered) >= 2 &&
			sel[0] == ordered[0] && sel[1] == ordered[1]
	case BetQuinella:
		return len(sel) == 2 && len(ordered) >= 2 &&
			sameSet(sel, ordered[:2])
	case BetTrifecta:
		return len(sel) == 3 && len(ordered) >= 3 &&
			sel[0] == ordered[0] && sel[1] == ordered[1] && sel[2] == ordered[2]
	case BetTrio:
		return len(sel) == 3 && len(ordered) >= 3 &&
			sameSet(sel, ordered[:3])
	default:
		return false
	}
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[int]bool, len(a))
	for _, n := range a {
		set[n] = true
	}
	for _, n := range b {
		if !set[n] {
			return false
		}
	}
	return true
}

// BetLeg is one ticket inside a decision. Selection is boat numbers
// joined by "-" in finish order for the ordered bet types.
type BetLeg struct {
	Type          BetType `json:"bet_type"`
	Selection     string  `json:"selection"`
	Amount        int64   `json:"amount"`
	EstimatedOdds float64 `json:"estimated_odds"`
}

// BetDecision is the sizing engine's output for a single race.
// A zero TotalStake with a SkipReason means no bet.
type BetDecision struct {
	ID         string    `json:"id"`
	RaceKey    string    `json:"race_key"`
	Strategy   string    `json:"strategy"`
	Confidence float64   `json:"confidence"`
	TotalStake int64     `json:"total_stake"`
	Legs       []BetLeg  `json:"legs"`
	SkipReason string    `json:"skip_reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Skipped reports whether the decision places no money.
func (d BetDecision) Skipped() bool {
	return d.TotalStake <= 0 || len(d.Legs) == 0
}

// SettlementRecord captures the outcome of one settled leg.
type SettlementRecord struct {
	RaceKey    string    `json:"race_key"`
	Strategy   string    `json:"strategy"`
	BetType    BetType   `json:"bet_type"`
	Selection  string    `json:"selection"`
	Stake      int64     `json:"stake"`
	Odds       float64   `json:"odds"`
	Won        bool      `json:"won"`
	Payout     int64     `json:"payout"`
	ProfitLoss int64     `json:"profit_loss"`
	Confidence float64   `json:"confidence"`
	SettledAt  time.Time `json:"settled_at"`
}

// InvestmentRecord mirrors one row of the investment_history table.
type InvestmentRecord struct {
	ID            int64     `json:"id"`
	DateStr       string    `json:"date_str"`
	RaceKey       string    `json:"race_key"`
	StrategyName  string    `json:"strategy_name"`
	BetType       string    `json:"bet_type"`
	BetAmount     int64     `json:"bet_amount"`
	PredictedConf float64   `json:"predicted_confidence"`
	ActualOdds    float64   `json:"actual_odds"`
	Result        string    `json:"result"` // "win" or "lose"
	ProfitLoss    int64     `json:"profit_loss"`
	BankrollAfter int64     `json:"bankroll_after"`
	ROI           float64   `json:"roi"`
	Timestamp     time.Time `json:"timestamp"`
}
