package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"KyoteiSentinel/internal/calculator"
	"KyoteiSentinel/internal/model"
	"KyoteiSentinel/internal/report"
	"KyoteiSentinel/internal/strategy"
)

var validate = validator.New()

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "kyotei-sentinel",
	})
}

func (s *Server) handleBankroll(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.manager.State())
}

// sizeRequest is a sizing preview: what would the engine stake at
// these inputs, against the live bankroll snapshot.
type sizeRequest struct {
	WinProbability float64 `json:"win_probability" validate:"required,gt=0,lte=1"`
	Odds           float64 `json:"odds" validate:"required,gt=1"`
	Confidence     float64 `json:"confidence" validate:"gte=0,lte=1"`
	Strategy       string  `json:"strategy" default:"moderate" validate:"oneof=conservative moderate aggressive"`
}

type sizeResponse struct {
	Strategy      string                 `json:"strategy"`
	KellyFraction float64                `json:"kelly_fraction"`
	Stake         int64                  `json:"stake"`
	Splits        []calculator.SplitPart `json:"splits"`
	Warnings      []string               `json:"warnings,omitempty"`
}

func (s *Server) handleSize(w http.ResponseWriter, r *http.Request) {
	var req sizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if err := defaults.Set(&req); err != nil {
		respondError(w, http.StatusInternalServerError, "apply defaults")
		return
	}
	if req.Confidence == 0 {
		req.Confidence = req.WinProbability
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("validation: %v", err))
		return
	}

	profile := strategy.ProfileByName(req.Strategy)
	state := s.manager.State()

	fraction := calculator.KellyFraction(req.WinProbability, req.Odds, profile.KellyMultiplier)
	stake := calculator.KellyStake(state.Current, req.WinProbability, req.Odds, profile)
	stake = calculator.AdjustStake(stake, state, profile)
	stake = calculator.RoundStake(stake)

	resp := sizeResponse{
		Strategy:      profile.Name,
		KellyFraction: fraction,
		Stake:         stake,
		Splits:        calculator.SplitStake(stake, req.Confidence),
	}
	if fraction == 0 {
		resp.Warnings = append(resp.Warnings, "no positive edge at these inputs")
	} else if stake == 0 {
		resp.Warnings = append(resp.Warnings, "daily budget exhausted or stake below minimum ticket")
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 365 {
			respondError(w, http.StatusBadRequest, "days must be in 1..365")
			return
		}
		days = n
	}

	since := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	records, err := s.rec.History(since)
	if err != nil {
		s.log.Error("report history", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "load history")
		return
	}

	groups := make(map[string][]model.InvestmentRecord)
	for _, rec := range records {
		groups[rec.StrategyName] = append(groups[rec.StrategyName], rec)
	}
	byStrategy := make(map[string]model.StrategyMetrics, len(groups))
	for name, rows := range groups {
		byStrategy[name] = report.ComputeMetrics(name, rows)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"since":      since,
		"strategies": byStrategy,
	})
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
