package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder exposes the operational counters. A nil *Recorder is a
// valid no-op, so components take one without caring whether metrics
// are enabled.
type Recorder struct {
	betsPlaced   *prometheus.CounterVec
	settlements  *prometheus.CounterVec
	bankroll     prometheus.Gauge
	dailySpent   prometheus.Gauge
	fetchLatency *prometheus.HistogramVec
	errorsTotal  *prometheus.CounterVec
}

// New registers the collectors on the default registry.
func New() *Recorder {
	return &Recorder{
		betsPlaced: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyotei_bets_placed_total",
				Help: "Bets placed, by strategy and bet type",
			},
			[]string{"strategy", "bet_type"},
		),
		settlements: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyotei_settlements_total",
				Help: "Settled bet legs, by result",
			},
			[]string{"result"},
		),
		bankroll: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "kyotei_bankroll_yen",
			Help: "Current bankroll in yen",
		}),
		dailySpent: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "kyotei_daily_spent_yen",
			Help: "Stake placed today in yen",
		}),
		fetchLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kyotei_fetch_duration_seconds",
				Help:    "Upstream fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyotei_errors_total",
				Help: "Errors encountered, by component",
			},
			[]string{"component"},
		),
	}
}

// BetPlaced counts one placed leg.
func (r *Recorder) BetPlaced(strategy, betType string) {
	if r == nil {
		return
	}
	r.betsPlaced.WithLabelValues(strategy, betType).Inc()
}

// BetSettled counts one settled leg.
func (r *Recorder) BetSettled(result string) {
	if r == nil {
		return
	}
	r.settlements.WithLabelValues(result).Inc()
}

// Bankroll records the current bankroll level.
func (r *Recorder) Bankroll(current, dailySpent int64) {
	if r == nil {
		return
	}
	r.bankroll.Set(float64(current))
	r.dailySpent.Set(float64(dailySpent))
}

// FetchLatency records one upstream fetch duration.
func (r *Recorder) FetchLatency(endpoint string, seconds float64) {
	if r == nil {
		return
	}
	r.fetchLatency.WithLabelValues(endpoint).Observe(seconds)
}

// Error counts one component error.
func (r *Recorder) Error(component string) {
	if r == nil {
		return
	}
	r.errorsTotal.WithLabelValues(component).Inc()
}

// Serve starts a lightweight HTTP server with /metrics and /healthz
// in a goroutine and returns it for shutdown.
func Serve(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
