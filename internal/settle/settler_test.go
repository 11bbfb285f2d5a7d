package settle

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"KyoteiSentinel/internal/bankroll"
	"KyoteiSentinel/internal/collector"
	"KyoteiSentinel/internal/model"
)

type memRecorder struct {
	records []model.InvestmentRecord
}

func (m *memRecorder) InsertInvestment(rec model.InvestmentRecord) error {
	m.records = append(m.records, rec)
	return nil
}
func (m *memRecorder) LatestBankroll() (int64, bool, error)              { return 0, false, nil }
func (m *memRecorder) DailySpent(string) (int64, error)                  { return 0, nil }
func (m *memRecorder) RecentRecords(int) ([]model.InvestmentRecord, error) { return nil, nil }
func (m *memRecorder) History(string) ([]model.InvestmentRecord, error)  { return nil, nil }
func (m *memRecorder) Close() error                                      { return nil }

// raceKey for 住之江 (venue 12) race 1 on 20240815.
var testKey = model.RaceKey(model.VenueName(12), 1, "20240815")

func pendingDecision() model.BetDecision {
	return model.BetDecision{
		ID:         "t",
		RaceKey:    testKey,
		Strategy:   "moderate",
		Confidence: 0.7,
		TotalStake: 500,
		Legs: []model.BetLeg{
			{Type: model.BetWin, Selection: "1", Amount: 300, EstimatedOdds: 2.5},
			{Type: model.BetTrifecta, Selection: "1-2-3", Amount: 200, EstimatedOdds: 15.0},
		},
		CreatedAt: time.Now(),
	}
}

func resultInOrder(order ...int) model.RaceResult {
	res := model.RaceResult{DateStr: "20240815", VenueID: 12, RaceNumber: 1}
	for pos, boat := range order {
		res.Boats = append(res.Boats, model.ResultBoat{BoatNumber: boat, ArrivalOrder: pos + 1})
	}
	return res
}

func newTestSettler(results []model.RaceResult, rec *memRecorder) (*Settler, *bankroll.Manager) {
	log := zap.NewNop()
	m := bankroll.NewManager(10000, log)
	col := collector.NewCollector(&collector.MockFetcher{Results: results}, log)
	return NewSettler(col, m, rec, nil, log), m
}

func TestRun_SettlesWinAndLoss(t *testing.T) {
	rec := &memRecorder{}
	// Boat 1 wins but the trifecta order is 1-3-2, so the win leg pays
	// and the trifecta leg loses.
	s, m := newTestSettler([]model.RaceResult{resultInOrder(1, 3, 2, 4, 5, 6)}, rec)

	if err := m.PlaceBet(pendingDecision(), "20240815"); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 10000 - 500 staked + 300×2.5 payout = 10250.
	state := m.State()
	if state.Current != 10250 {
		t.Errorf("bankroll = %d, want 10250", state.Current)
	}
	if len(m.Pending()) != 0 {
		t.Error("bet still pending after settlement")
	}
	if len(rec.records) != 2 {
		t.Fatalf("ledger rows = %d, want 2", len(rec.records))
	}
	byType := map[string]model.InvestmentRecord{}
	for _, r := range rec.records {
		byType[r.BetType] = r
	}
	if win := byType["win"]; win.Result != "win" || win.ProfitLoss != 450 {
		t.Errorf("win row = %+v", win)
	}
	if tri := byType["trifecta"]; tri.Result != "lose" || tri.ProfitLoss != -200 {
		t.Errorf("trifecta row = %+v", tri)
	}
}

func TestRun_UsesOfficialPayoffWhenPresent(t *testing.T) {
	res := resultInOrder(1, 2, 3, 4, 5, 6)
	res.Payoffs = []model.Payoff{{BetType: "win", Combination: "1", Amount: 320}}
	rec := &memRecorder{}
	s, m := newTestSettler([]model.RaceResult{res}, rec)

	d := pendingDecision()
	d.Legs = d.Legs[:1] // win leg only, 300 yen
	d.TotalStake = 300
	if err := m.PlaceBet(d, "20240815"); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 300-yen ticket at 320 yen per 100: payout 960.
	if got := m.State().Current; got != 10000-300+960 {
		t.Errorf("bankroll = %d, want %d", got, 10000-300+960)
	}
	if rec.records[0].ActualOdds != 3.2 {
		t.Errorf("ActualOdds = %v, want 3.2", rec.records[0].ActualOdds)
	}
}

func TestRun_PayoffKeepsFullReturnOnOddStake(t *testing.T) {
	res := resultInOrder(1, 2, 3, 4, 5, 6)
	res.Payoffs = []model.Payoff{{BetType: "win", Combination: "1", Amount: 250}}
	rec := &memRecorder{}
	s, m := newTestSettler([]model.RaceResult{res}, rec)

	d := pendingDecision()
	d.Legs = []model.BetLeg{{Type: model.BetWin, Selection: "1", Amount: 650, EstimatedOdds: 2.5}}
	d.TotalStake = 650
	if err := m.PlaceBet(d, "20240815"); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 650 × 250 ÷ 100 = 1625, not the 1500 a truncating per-100 unit
	// count would credit.
	if got := m.State().Current; got != 10000-650+1625 {
		t.Errorf("bankroll = %d, want %d", got, 10000-650+1625)
	}
	if rec.records[0].ProfitLoss != 1625-650 {
		t.Errorf("ProfitLoss = %d, want %d", rec.records[0].ProfitLoss, 1625-650)
	}
}

func TestRun_LeavesUnmatchedRacesPending(t *testing.T) {
	// Results for a different race only.
	other := resultInOrder(1, 2, 3)
	other.RaceNumber = 9
	rec := &memRecorder{}
	s, m := newTestSettler([]model.RaceResult{other}, rec)

	if err := m.PlaceBet(pendingDecision(), "20240815"); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(m.Pending()) != 1 {
		t.Error("unmatched bet should stay pending")
	}
	if len(rec.records) != 0 {
		t.Error("no ledger rows expected")
	}
}
