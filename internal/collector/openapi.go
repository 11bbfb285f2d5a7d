package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"KyoteiSentinel/internal/cache"
	"KyoteiSentinel/internal/metrics"
	"KyoteiSentinel/internal/model"
)

const (
	programsBaseURL = "https://boatraceopenapi.github.io/programs/v2"
	resultsBaseURL  = "https://boatraceopenapi.github.io/results/v2"

	fetchAttempts = 3
	retryPause    = time.Second
	cacheTTL      = 300 * time.Second
)

// OpenAPIFetcher pulls race programs and results from the public
// BoatraceOpenAPI static JSON feeds.
type OpenAPIFetcher struct {
	ProgramsURL string
	ResultsURL  string
	Client      *http.Client
	Cache       cache.Cache
	Metrics     *metrics.Recorder
	Log         *zap.Logger
}

// NewOpenAPIFetcher creates a fetcher with optional proxy support.
func NewOpenAPIFetcher(proxyURL string, c cache.Cache, mr *metrics.Recorder, log *zap.Logger) *OpenAPIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &OpenAPIFetcher{
		ProgramsURL: programsBaseURL,
		ResultsURL:  resultsBaseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Cache:   c,
		Metrics: mr,
		Log:     log,
	}
}

func (f *OpenAPIFetcher) Name() string { return "boatrace-openapi" }

func (f *OpenAPIFetcher) FetchPrograms(ctx context.Context, date string) ([]model.RaceProgram, error) {
	endpoint := fmt.Sprintf("%s/%s.json", f.ProgramsURL, date)
	body, err := f.fetch(ctx, endpoint, "programs")
	if err != nil {
		return nil, fmt.Errorf("fetch programs: %w", err)
	}
	var payload struct {
		Programs []model.RaceProgram `json:"programs"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode programs: %w", err)
	}
	return payload.Programs, nil
}

func (f *OpenAPIFetcher) FetchResults(ctx context.Context, date string) ([]model.RaceResult, error) {
	endpoint := fmt.Sprintf("%s/%s.json", f.ResultsURL, date)
	body, err := f.fetch(ctx, endpoint, "results")
	if err != nil {
		return nil, fmt.Errorf("fetch results: %w", err)
	}
	var payload struct {
		Results []model.RaceResult `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return payload.Results, nil
}

// fetch GETs one URL through the response cache with a short retry
// loop. The feeds are static files, so any 200 body is cacheable as-is.
// Each upstream round trip is timed; cache hits are not.
func (f *OpenAPIFetcher) fetch(ctx context.Context, endpoint, kind string) ([]byte, error) {
	if f.Cache != nil {
		if body, ok := f.Cache.Get(ctx, endpoint); ok {
			return body, nil
		}
	}

	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		start := time.Now()
		body, err := f.get(ctx, endpoint)
		f.Metrics.FetchLatency(kind, time.Since(start).Seconds())
		if err == nil {
			if f.Cache != nil {
				f.Cache.Set(ctx, endpoint, body, cacheTTL)
			}
			return body, nil
		}
		lastErr = err
		f.Log.Warn("fetch attempt failed",
			zap.String("url", endpoint),
			zap.Int("attempt", attempt),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryPause):
		}
	}
	return nil, fmt.Errorf("all %d attempts failed: %w", fetchAttempts, lastErr)
}

func (f *OpenAPIFetcher) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
