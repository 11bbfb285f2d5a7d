package calculator

import (
	"testing"

	"KyoteiSentinel/internal/model"
)

func amountsByType(parts []SplitPart) map[model.BetType]int64 {
	m := make(map[model.BetType]int64, len(parts))
	for _, p := range parts {
		m[p.Type] = p.Amount
	}
	return m
}

func TestSplitStake_ConfidenceTiers(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		wantWin    int64
		wantPlace  int64
		wantTri    int64
	}{
		{"low confidence leans place", 0.55, 300, 500, 200},
		{"mid tier default", 0.70, 500, 300, 200},
		{"high confidence leans win", 0.85, 600, 200, 200},
		{"boundary 0.6 uses mid tier", 0.60, 500, 300, 200},
		{"boundary 0.8 uses mid tier", 0.80, 500, 300, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := amountsByType(SplitStake(1000, tt.confidence))
			if got[model.BetWin] != tt.wantWin ||
				got[model.BetPlace] != tt.wantPlace ||
				got[model.BetTrifecta] != tt.wantTri {
				t.Errorf("SplitStake(1000, %v) = %v, want win=%d place=%d trifecta=%d",
					tt.confidence, got, tt.wantWin, tt.wantPlace, tt.wantTri)
			}
		})
	}
}

func TestSplitStake_DropsSubTicketParts(t *testing.T) {
	parts := SplitStake(450, 0.7) // win 225, place 135, trifecta 90
	got := amountsByType(parts)
	if _, ok := got[model.BetTrifecta]; ok {
		t.Errorf("trifecta part of 90 yen should be dropped, got %v", got)
	}
	if got[model.BetWin] != 225 || got[model.BetPlace] != 135 {
		t.Errorf("SplitStake(450, 0.7) = %v", got)
	}
}

func TestSplitStake_NeverExceedsBase(t *testing.T) {
	for _, base := range []int64{100, 333, 450, 999, 1000, 12345} {
		for _, conf := range []float64{0.3, 0.55, 0.7, 0.85, 0.95} {
			total := int64(0)
			for _, p := range SplitStake(base, conf) {
				if p.Amount < MinTicket {
					t.Fatalf("part below ticket minimum: %+v", p)
				}
				total += p.Amount
			}
			if total > base {
				t.Fatalf("SplitStake(%d, %v) sums to %d", base, conf, total)
			}
		}
	}
}

func TestSplitStake_TooSmallToBet(t *testing.T) {
	if parts := SplitStake(99, 0.7); parts != nil {
		t.Errorf("SplitStake(99) = %v, want nil", parts)
	}
	if parts := SplitStake(0, 0.7); parts != nil {
		t.Errorf("SplitStake(0) = %v, want nil", parts)
	}
}
