package model

import "fmt"

// ProgramBoat holds one entry's published stats from the race program.
type ProgramBoat struct {
	BoatNumber   int     `json:"racer_boat_number"`
	RacerName    string  `json:"racer_name"`
	NationalTop1 float64 `json:"racer_national_top_1_percent"`
	LocalTop1    float64 `json:"racer_local_top_1_percent"`
	NationalTop2 float64 `json:"racer_national_top_2_percent"`
	MotorTop2    float64 `json:"racer_assigned_motor_top_2_percent"`
	BoatTop2     float64 `json:"racer_assigned_boat_top_2_percent"`
}

// RaceProgram is one race's pre-race card.
type RaceProgram struct {
	DateStr    string        `json:"race_date"`
	VenueID    int           `json:"race_stadium_number"`
	RaceNumber int           `json:"race_number"`
	ClosedAt   string        `json:"race_closed_at"`
	Title      string        `json:"race_title"`
	Boats      []ProgramBoat `json:"boats"`
}

// ResultBoat is one boat's finishing position.
type ResultBoat struct {
	BoatNumber   int `json:"boat_number"`
	ArrivalOrder int `json:"arrival_order"`
}

// Payoff is one row of the official payout table, in yen per 100-yen
// ticket. The feed omits the table for some races, in which case the
// settler falls back to the estimated odds.
type Payoff struct {
	BetType     string `json:"bet_type"`
	Combination string `json:"combination"`
	Amount      int64  `json:"amount"`
}

// RaceResult is one race's official outcome.
type RaceResult struct {
	DateStr    string       `json:"race_date"`
	VenueID    int          `json:"race_stadium_number"`
	RaceNumber int          `json:"race_number"`
	Boats      []ResultBoat `json:"boats"`
	Payoffs    []Payoff     `json:"payoffs"`
}

// PayoffFor looks up the official payout for a ticket, yen per 100 yen.
func (r RaceResult) PayoffFor(betType BetType, combination string) (int64, bool) {
	for _, p := range r.Payoffs {
		if p.BetType == string(betType) && p.Combination == combination {
			return p.Amount, true
		}
	}
	return 0, false
}

// VenueNames maps stadium numbers to the 24 kyotei venue names.
var VenueNames = map[int]string{
	1: "桐生", 2: "戸田", 3: "江戸川", 4: "平和島",
	5: "多摩川", 6: "浜名湖", 7: "蒲郡", 8: "常滑",
	9: "津", 10: "三国", 11: "びわこ", 12: "住之江",
	13: "尼崎", 14: "鳴門", 15: "丸亀", 16: "児島",
	17: "宮島", 18: "徳山", 19: "下関", 20: "若松",
	21: "芦屋", 22: "福岡", 23: "唐津", 24: "大村",
}

// VenueName resolves a stadium number, falling back to the number itself.
func VenueName(id int) string {
	if name, ok := VenueNames[id]; ok {
		return name
	}
	return fmt.Sprintf("場%d", id)
}

// RaceKey builds the canonical race identifier: venue_race_date.
func RaceKey(venueName string, raceNumber int, dateStr string) string {
	return fmt.Sprintf("%s_%d_%s", venueName, raceNumber, dateStr)
}

// Ordered returns boat numbers sorted by arrival order, winner first.
// Boats with arrival order 0 (disqualified or unfinished) are dropped.
func (r RaceResult) Ordered() []int {
	byOrder := make(map[int]int, len(r.Boats))
	max := 0
	for _, b := range r.Boats {
		if b.ArrivalOrder > 0 {
			byOrder[b.ArrivalOrder] = b.BoatNumber
			if b.ArrivalOrder > max {
				max = b.ArrivalOrder
			}
		}
	}
	out := make([]int, 0, len(byOrder))
	for pos := 1; pos <= max; pos++ {
		if boat, ok := byOrder[pos]; ok {
			out = append(out, boat)
		}
	}
	return out
}
