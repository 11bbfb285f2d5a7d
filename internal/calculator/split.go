package calculator

import "KyoteiSentinel/internal/model"

// MinTicket is the smallest stake the tote sells, in yen.
const MinTicket = 100

// SplitPart is one leg of a diversified stake.
type SplitPart struct {
	Type   model.BetType
	Ratio  float64
	Amount int64
}

// SplitStake divides a stake across win, place and trifecta tickets by
// confidence tier. Low confidence leans on place tickets, high
// confidence on the win ticket. Parts below the ticket minimum are
// dropped, so the returned amounts never sum above base.
func SplitStake(base int64, confidence float64) []SplitPart {
	if base < MinTicket {
		return nil
	}

	win, place, trifecta := 0.5, 0.3, 0.2
	switch {
	case confidence < 0.6:
		win, place, trifecta = 0.3, 0.5, 0.2
	case confidence > 0.8:
		win, place, trifecta = 0.6, 0.2, 0.2
	}

	parts := []SplitPart{
		{Type: model.BetWin, Ratio: win},
		{Type: model.BetPlace, Ratio: place},
		{Type: model.BetTrifecta, Ratio: trifecta},
	}
	out := make([]SplitPart, 0, len(parts))
	for _, p := range parts {
		p.Amount = int64(float64(base) * p.Ratio)
		if p.Amount >= MinTicket {
			out = append(out, p)
		}
	}
	return out
}
