package store

import (
	"go.uber.org/zap"

	"KyoteiSentinel/internal/model"
)

// Noop satisfies Recorder without persisting anything. Used when the
// SQLite store cannot be opened so the bot still runs, degraded.
type Noop struct {
	log *zap.Logger
}

// NewNoop builds the no-op recorder.
func NewNoop(log *zap.Logger) *Noop {
	log.Warn("using noop recorder, settled bets will not be persisted")
	return &Noop{log: log}
}

func (n *Noop) InsertInvestment(rec model.InvestmentRecord) error {
	n.log.Debug("noop insert", zap.String("race", rec.RaceKey))
	return nil
}

func (n *Noop) LatestBankroll() (int64, bool, error) { return 0, false, nil }

func (n *Noop) DailySpent(string) (int64, error) { return 0, nil }

func (n *Noop) RecentRecords(int) ([]model.InvestmentRecord, error) { return nil, nil }

func (n *Noop) History(string) ([]model.InvestmentRecord, error) { return nil, nil }

func (n *Noop) Close() error { return nil }
