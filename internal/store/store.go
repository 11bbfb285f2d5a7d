package store

import "KyoteiSentinel/internal/model"

// Recorder persists the settled-bet ledger and answers the queries the
// bankroll manager needs to rebuild its state after a restart.
type Recorder interface {
	// InsertInvestment appends one settled bet. The ledger is append-only.
	InsertInvestment(rec model.InvestmentRecord) error
	// LatestBankroll returns bankroll_after of the newest row. ok is
	// false when the ledger is empty.
	LatestBankroll() (amount int64, ok bool, err error)
	// DailySpent sums bet_amount for one day (date_str, YYYY-MM-DD).
	DailySpent(dateStr string) (int64, error)
	// RecentRecords returns the newest n rows, newest first.
	RecentRecords(n int) ([]model.InvestmentRecord, error)
	// History returns rows from sinceDateStr onward in insert order.
	History(sinceDateStr string) ([]model.InvestmentRecord, error)
	Close() error
}
