package collector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"KyoteiSentinel/internal/model"
	"KyoteiSentinel/internal/predictor"
)

// Collector orchestrates program fetching and race scoring.
type Collector struct {
	Fetcher Fetcher
	Log     *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, log *zap.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Log: log}
}

// Collect fetches the day's race card and scores every race. Races the
// predictor could not grade (empty fields) come back with zero
// confidence and are skipped downstream, not dropped here.
func (c *Collector) Collect(ctx context.Context, date string) ([]model.RacePrediction, error) {
	programs, err := c.Fetcher.FetchPrograms(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("collect programs: %w", err)
	}

	preds := predictor.PredictAll(programs)
	c.Log.Info("collected race card",
		zap.String("date", date),
		zap.Int("races", len(programs)),
		zap.Int("predictions", len(preds)))
	return preds, nil
}

// Results fetches the official outcomes for one date.
func (c *Collector) Results(ctx context.Context, date string) ([]model.RaceResult, error) {
	results, err := c.Fetcher.FetchResults(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("collect results: %w", err)
	}
	c.Log.Info("collected results", zap.String("date", date), zap.Int("races", len(results)))
	return results, nil
}
