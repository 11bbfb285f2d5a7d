package predictor

import (
	"fmt"
	"sort"
	"time"

	"KyoteiSentinel/internal/calculator"
	"KyoteiSentinel/internal/model"
)

// venueConfidenceAdjust nudges confidence for venues with a known
// temperament. Edogawa runs on a tidal river and upsets constantly.
var venueConfidenceAdjust = map[int]float64{
	1:  0.05,  // 桐生
	3:  -0.10, // 江戸川
	12: 0.02,  // 住之江
}

const (
	minConfidence = 0.30
	maxConfidence = 0.90
)

// Predict scores every boat in the program and derives the win, place
// and trifecta picks with a confidence grade. A program without boats
// yields a zero-confidence prediction the strategy layer will skip.
func Predict(prog model.RaceProgram) model.RacePrediction {
	venueName := model.VenueName(prog.VenueID)
	pred := model.RacePrediction{
		RaceKey:     model.RaceKey(venueName, prog.RaceNumber, prog.DateStr),
		VenueID:     prog.VenueID,
		VenueName:   venueName,
		RaceNumber:  prog.RaceNumber,
		DateStr:     prog.DateStr,
		PredictedAt: time.Now(),
	}
	if len(prog.Boats) == 0 {
		return pred
	}

	boats := make([]model.BoatStrength, 0, len(prog.Boats))
	total := 0.0
	for _, b := range prog.Boats {
		bs := boatStrength(b)
		boats = append(boats, bs)
		total += bs.Strength
	}
	if total > 0 {
		for i := range boats {
			boats[i].WinProb = boats[i].Strength / total
		}
	}

	// Strongest first; equal strengths keep program order.
	sort.SliceStable(boats, func(i, j int) bool {
		return boats[i].Strength > boats[j].Strength
	})
	pred.Boats = boats
	pred.WinBoat = boats[0].BoatNumber

	for i := 0; i < len(boats) && i < 2; i++ {
		pred.PlaceBoats = append(pred.PlaceBoats, boats[i].BoatNumber)
	}
	if len(boats) >= 3 {
		pred.TrifectaCombo = fmt.Sprintf("%d-%d-%d",
			boats[0].BoatNumber, boats[1].BoatNumber, boats[2].BoatNumber)
	}

	confidence := boats[0].Strength + venueConfidenceAdjust[prog.VenueID]
	if confidence < minConfidence {
		confidence = minConfidence
	}
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	pred.Confidence = confidence
	pred.EstimatedOdds = calculator.WinOddsEstimate(pred.WinBoat, confidence)

	return pred
}

// PredictAll scores a day's card.
func PredictAll(programs []model.RaceProgram) []model.RacePrediction {
	preds := make([]model.RacePrediction, 0, len(programs))
	for _, prog := range programs {
		preds = append(preds, Predict(prog))
	}
	return preds
}
