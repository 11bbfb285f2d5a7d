package collector

import (
	"context"

	"KyoteiSentinel/internal/model"
)

// Fetcher defines the interface for fetching race data. Dates are
// compact YYYYMMDD strings as used by the upstream API.
type Fetcher interface {
	FetchPrograms(ctx context.Context, date string) ([]model.RaceProgram, error)
	FetchResults(ctx context.Context, date string) ([]model.RaceResult, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Programs []model.RaceProgram
	Results  []model.RaceResult
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPrograms(_ context.Context, date string) ([]model.RaceProgram, error) {
	if m.Programs != nil {
		return m.Programs, nil
	}
	return generateMockPrograms(date), nil
}

func (m *MockFetcher) FetchResults(_ context.Context, date string) ([]model.RaceResult, error) {
	if m.Results != nil {
		return m.Results, nil
	}
	return generateMockResults(date), nil
}

// generateMockPrograms builds two plausible six-boat cards at 住之江.
// Boat one carries the strongest stats so a dry run always produces
// at least one confident pick.
func generateMockPrograms(date string) []model.RaceProgram {
	programs := make([]model.RaceProgram, 0, 2)
	for race := 1; race <= 2; race++ {
		prog := model.RaceProgram{
			DateStr:    date,
			VenueID:    12,
			RaceNumber: race,
			ClosedAt:   "15:00",
			Title:      "一般戦",
		}
		for boat := 1; boat <= 6; boat++ {
			spread := float64(7 - boat)
			prog.Boats = append(prog.Boats, model.ProgramBoat{
				BoatNumber:   boat,
				RacerName:    "モック選手",
				NationalTop1: 4.0 * spread,
				LocalTop1:    3.5 * spread,
				NationalTop2: 8.0 * spread,
				MotorTop2:    25.0 + 3.0*spread,
				BoatTop2:     22.0 + 2.0*spread,
			})
		}
		programs = append(programs, prog)
	}
	return programs
}

// generateMockResults finishes every mock race in lane order.
func generateMockResults(date string) []model.RaceResult {
	results := make([]model.RaceResult, 0, 2)
	for race := 1; race <= 2; race++ {
		res := model.RaceResult{DateStr: date, VenueID: 12, RaceNumber: race}
		for boat := 1; boat <= 6; boat++ {
			res.Boats = append(res.Boats, model.ResultBoat{BoatNumber: boat, ArrivalOrder: boat})
		}
		results = append(results, res)
	}
	return results
}
