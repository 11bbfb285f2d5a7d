package model

import "time"

// FactorScore represents a single factor's scoring result for one boat.
type FactorScore struct {
	Name       string
	RawScore   float64
	Weight     float64
	Weighted   float64
	Commentary string
}

// BoatStrength is one boat's aggregate rating inside a prediction.
type BoatStrength struct {
	BoatNumber int
	RacerName  string
	Factors    []FactorScore
	Strength   float64
	WinProb    float64
}

// RacePrediction is the predictor's output for one race.
type RacePrediction struct {
	RaceKey       string         `json:"race_key"`
	VenueID       int            `json:"venue_id"`
	VenueName     string         `json:"venue_name"`
	RaceNumber    int            `json:"race_number"`
	DateStr       string         `json:"date_str"` // YYYYMMDD
	Boats         []BoatStrength `json:"-"`
	WinBoat       int            `json:"win_boat"`
	PlaceBoats    []int          `json:"place_boats"`    // top two
	TrifectaCombo string         `json:"trifecta_combo"` // "1-2-3"
	Confidence    float64        `json:"confidence"`
	EstimatedOdds float64        `json:"estimated_odds"`
	PredictedAt   time.Time      `json:"predicted_at"`
}
