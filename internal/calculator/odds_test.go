package calculator

import (
	"math"
	"testing"

	"KyoteiSentinel/internal/model"
)

func TestWinOddsEstimate(t *testing.T) {
	tests := []struct {
		name       string
		boat       int
		confidence float64
		want       float64
	}{
		{"favorite lane neutral confidence", 1, 0.5, 2.5},
		{"favorite lane high confidence", 1, 0.9, 2.0},
		{"outside lane low confidence", 6, 0.3, 16.5},
		{"unknown boat falls back", 7, 0.5, 6.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WinOddsEstimate(tt.boat, tt.confidence)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WinOddsEstimate(%d, %v) = %v, want %v", tt.boat, tt.confidence, got, tt.want)
			}
		})
	}
}

func TestWinOddsEstimate_Clamped(t *testing.T) {
	for boat := 1; boat <= 6; boat++ {
		for conf := -1.0; conf <= 2.0; conf += 0.1 {
			got := WinOddsEstimate(boat, conf)
			if got < 1.1 || got > 50.0 {
				t.Fatalf("WinOddsEstimate(%d, %v) = %v out of [1.1, 50]", boat, conf, got)
			}
		}
	}
}

func TestLegOdds(t *testing.T) {
	tests := []struct {
		betType    model.BetType
		confidence float64
		want       float64
	}{
		{model.BetWin, 0.5, 2.0},
		{model.BetWin, 0.8, 1.5}, // 1.25 raised to the 1.5 floor
		{model.BetPlace, 0.5, 1.2},
		{model.BetPlace, 0.3, 5.0 / 3.0},
		{model.BetTrifecta, 0.5, 10.0},
		{model.BetTrifecta, 0.05, 20.0},
		{model.BetQuinella, 0.5, 3.0}, // default for unmodelled kinds
	}
	for _, tt := range tests {
		got := LegOdds(tt.betType, tt.confidence)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("LegOdds(%s, %v) = %v, want %v", tt.betType, tt.confidence, got, tt.want)
		}
	}
}

func TestRoundStake(t *testing.T) {
	tests := []struct {
		in   int64
		want int64
	}{
		{656, 600},
		{99, 0},
		{100, 100},
		{1234, 1200},
		{0, 0},
		{-500, 0},
	}
	for _, tt := range tests {
		if got := RoundStake(tt.in); got != tt.want {
			t.Errorf("RoundStake(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
