package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"KyoteiSentinel/internal/bankroll"
	"KyoteiSentinel/internal/model"
)

type stubRecorder struct {
	records []model.InvestmentRecord
}

func (s *stubRecorder) InsertInvestment(model.InvestmentRecord) error { return nil }
func (s *stubRecorder) LatestBankroll() (int64, bool, error)          { return 0, false, nil }
func (s *stubRecorder) DailySpent(string) (int64, error)              { return 0, nil }
func (s *stubRecorder) RecentRecords(int) ([]model.InvestmentRecord, error) {
	return nil, nil
}
func (s *stubRecorder) History(string) ([]model.InvestmentRecord, error) {
	return s.records, nil
}
func (s *stubRecorder) Close() error { return nil }

func newTestServer(t *testing.T) (*Server, *bankroll.Manager) {
	t.Helper()
	m := bankroll.NewManager(100000, zap.NewNop())
	rec := &stubRecorder{records: []model.InvestmentRecord{
		{DateStr: "2024-08-15", StrategyName: "moderate", BetAmount: 1000,
			ProfitLoss: 500, BankrollAfter: 100500, Result: "win", PredictedConf: 0.7},
	}}
	return New(0, m, rec, zap.NewNop()), m
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestHandleBankroll(t *testing.T) {
	s, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/bankroll", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var state model.BankrollState
	if err := json.Unmarshal(rr.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Current != 100000 {
		t.Errorf("Current = %d, want 100000", state.Current)
	}
}

func TestHandleSize_PositiveEdge(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"win_probability": 0.7, "odds": 4.0, "confidence": 0.7}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/size", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Strategy      string  `json:"strategy"`
		KellyFraction float64 `json:"kelly_fraction"`
		Stake         int64   `json:"stake"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Strategy != "moderate" {
		t.Errorf("default strategy = %q, want moderate", resp.Strategy)
	}
	// Half Kelly at p=0.7, odds=4.0: f = (3×0.35 − 0.65)/3 ≈ 0.1333.
	// That names 13333 yen, the 5% per-race cap brings it to 5000.
	if resp.KellyFraction <= 0.13 || resp.KellyFraction >= 0.14 {
		t.Errorf("KellyFraction = %v, want ≈ 0.1333", resp.KellyFraction)
	}
	if resp.Stake != 5000 {
		t.Errorf("Stake = %d, want 5000 (max bet ratio cap)", resp.Stake)
	}
}

func TestHandleSize_NoEdgeWarns(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"win_probability": 0.3, "odds": 1.5}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/size", strings.NewReader(body))
	s.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp sizeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Stake != 0 || len(resp.Warnings) == 0 {
		t.Errorf("no-edge preview: stake=%d warnings=%v", resp.Stake, resp.Warnings)
	}
}

func TestHandleSize_RejectsInvalid(t *testing.T) {
	s, _ := newTestServer(t)
	for _, body := range []string{
		`{"win_probability": 1.5, "odds": 2.0}`,
		`{"win_probability": 0.5, "odds": 0.8}`,
		`{"win_probability": 0.5, "odds": 2.0, "strategy": "yolo"}`,
		`not json`,
	} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/size", strings.NewReader(body))
		s.Handler().ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rr.Code)
		}
	}
}

func TestHandleReport(t *testing.T) {
	s, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/report?days=7", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Since      string                             `json:"since"`
		Strategies map[string]model.StrategyMetrics `json:"strategies"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, ok := resp.Strategies["moderate"]
	if !ok {
		t.Fatalf("missing moderate metrics: %v", resp.Strategies)
	}
	if m.TotalBets != 1 || m.Wins != 1 {
		t.Errorf("metrics = %+v", m)
	}
	want := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	if resp.Since != want {
		t.Errorf("since = %q, want %q", resp.Since, want)
	}
}

func TestHandleReport_BadDays(t *testing.T) {
	s, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/report?days=0", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
