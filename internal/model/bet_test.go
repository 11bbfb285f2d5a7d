package model

import "testing"

func TestBetType_Wins(t *testing.T) {
	ordered := []int{3, 1, 5, 2, 4, 6}

	tests := []struct {
		name      string
		betType   BetType
		selection string
		want      bool
	}{
		{"win hits", BetWin, "3", true},
		{"win misses", BetWin, "1", false},
		{"place single top2", BetPlace, "1", true},
		{"place single third", BetPlace, "5", false},
		{"place pair both top2", BetPlace, "3-1", true},
		{"place pair one outside", BetPlace, "3-5", false},
		{"exacta exact order", BetExacta, "3-1", true},
		{"exacta wrong order", BetExacta, "1-3", false},
		{"quinella any order", BetQuinella, "1-3", true},
		{"quinella wrong pair", BetQuinella, "3-5", false},
		{"trifecta exact", BetTrifecta, "3-1-5", true},
		{"trifecta shuffled", BetTrifecta, "1-3-5", false},
		{"trio shuffled", BetTrio, "5-3-1", true},
		{"trio wrong set", BetTrio, "3-1-2", false},
		{"empty selection", BetWin, "", false},
		{"garbage selection", BetWin, "abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.betType.Wins(tt.selection, ordered); got != tt.want {
				t.Errorf("%s.Wins(%q) = %v, want %v", tt.betType, tt.selection, got, tt.want)
			}
		})
	}
}

func TestBetType_Wins_ShortResult(t *testing.T) {
	if BetTrifecta.Wins("1-2-3", []int{1, 2}) {
		t.Error("trifecta cannot win against a two-boat result")
	}
	if BetWin.Wins("1", nil) {
		t.Error("no result means no win")
	}
}

func TestRaceResult_Ordered(t *testing.T) {
	r := RaceResult{Boats: []ResultBoat{
		{BoatNumber: 4, ArrivalOrder: 2},
		{BoatNumber: 2, ArrivalOrder: 1},
		{BoatNumber: 6, ArrivalOrder: 0}, // DNF
		{BoatNumber: 1, ArrivalOrder: 3},
	}}
	got := r.Ordered()
	want := []int{2, 4, 1}
	if len(got) != len(want) {
		t.Fatalf("Ordered() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Ordered() = %v, want %v", got, want)
		}
	}
}

func TestRaceResult_PayoffFor(t *testing.T) {
	r := RaceResult{Payoffs: []Payoff{
		{BetType: "win", Combination: "1", Amount: 250},
		{BetType: "trifecta", Combination: "1-2-3", Amount: 1480},
	}}
	if amt, ok := r.PayoffFor(BetWin, "1"); !ok || amt != 250 {
		t.Errorf("PayoffFor(win, 1) = %d, %v", amt, ok)
	}
	if _, ok := r.PayoffFor(BetPlace, "1"); ok {
		t.Error("expected miss for absent payoff row")
	}
}
