package bankroll

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"KyoteiSentinel/internal/model"
	"KyoteiSentinel/internal/store"
)

// PendingBet is a placed, not yet settled decision. Pending bets live
// only in memory; the SQLite ledger records settled bets.
type PendingBet struct {
	Decision model.BetDecision
	DateStr  string // compact YYYYMMDD, keys the results fetch
	PlacedAt time.Time
}

// Manager guards the bankroll state and the pending-bet ledger. All
// mutations go through methods; State returns a copy so callers size
// bets over an immutable snapshot.
type Manager struct {
	mu      sync.Mutex
	state   model.BankrollState
	pending map[string]PendingBet // keyed by race key
	log     *zap.Logger
}

// NewManager starts a manager from the configured initial bankroll.
func NewManager(initial int64, log *zap.Logger) *Manager {
	now := time.Now()
	return &Manager{
		state: model.BankrollState{
			Initial:   initial,
			Current:   initial,
			Day:       now.Format("2006-01-02"),
			UpdatedAt: now,
		},
		pending: make(map[string]PendingBet),
		log:     log,
	}
}

// Hydrate rebuilds the running state from the investment ledger:
// current from the newest bankroll_after, daily spend and PnL from
// today's rows, streaks from a scan of recent results. The ledger
// stays authoritative; nothing is written back here.
func (m *Manager) Hydrate(rec store.Recorder, today string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok, err := rec.LatestBankroll()
	if err != nil {
		return fmt.Errorf("hydrate bankroll: %w", err)
	}
	if ok {
		m.state.Current = current
	}

	spent, err := rec.DailySpent(today)
	if err != nil {
		return fmt.Errorf("hydrate daily spent: %w", err)
	}
	m.state.DailySpent = spent
	m.state.Day = today

	records, err := rec.RecentRecords(20)
	if err != nil {
		return fmt.Errorf("hydrate streaks: %w", err)
	}
	m.state.ConsecutiveWins, m.state.ConsecutiveLosses = countStreak(records)
	for _, r := range records {
		if r.DateStr == today {
			m.state.DailyPnL += r.ProfitLoss
		}
	}
	m.state.UpdatedAt = time.Now()

	m.log.Info("bankroll hydrated",
		zap.Int64("current", m.state.Current),
		zap.Int64("daily_spent", m.state.DailySpent),
		zap.Int("wins", m.state.ConsecutiveWins),
		zap.Int("losses", m.state.ConsecutiveLosses))
	return nil
}

// countStreak walks records newest-first and counts the run of equal
// results at the head.
func countStreak(records []model.InvestmentRecord) (wins, losses int) {
	if len(records) == 0 {
		return 0, 0
	}
	head := records[0].Result
	run := 0
	for _, r := range records {
		if r.Result != head {
			break
		}
		run++
	}
	if head == "win" {
		return run, 0
	}
	return 0, run
}

// State returns a copy of the current bankroll state.
func (m *Manager) State() model.BankrollState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// RollDay resets the daily windows when the day key changes.
func (m *Manager) RollDay(day string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Day == day {
		return
	}
	m.log.Info("rolling day window",
		zap.String("from", m.state.Day), zap.String("to", day),
		zap.Int64("spent", m.state.DailySpent), zap.Int64("pnl", m.state.DailyPnL))
	m.state.Day = day
	m.state.DailySpent = 0
	m.state.DailyPnL = 0
	m.state.UpdatedAt = time.Now()
}

// PlaceBet deducts the stake, raises the daily spend and registers the
// decision as pending. Skipped decisions and duplicates are rejected.
func (m *Manager) PlaceBet(d model.BetDecision, dateStr string) error {
	if d.Skipped() {
		return fmt.Errorf("decision %s carries no stake", d.RaceKey)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pending[d.RaceKey]; exists {
		return fmt.Errorf("race %s already has a pending bet", d.RaceKey)
	}
	if d.TotalStake > m.state.Current {
		return fmt.Errorf("stake %d exceeds bankroll %d", d.TotalStake, m.state.Current)
	}

	m.state.Current -= d.TotalStake
	m.state.DailySpent += d.TotalStake
	m.state.UpdatedAt = time.Now()
	m.pending[d.RaceKey] = PendingBet{Decision: d, DateStr: dateStr, PlacedAt: time.Now()}

	m.log.Info("bet placed",
		zap.String("race", d.RaceKey),
		zap.Int64("stake", d.TotalStake),
		zap.Int64("bankroll", m.state.Current))
	return nil
}

// Pending returns a copy of all open bets, stable by race key.
func (m *Manager) Pending() []PendingBet {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PendingBet, 0, len(m.pending))
	for _, p := range m.pending {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Decision.RaceKey < out[j].Decision.RaceKey
	})
	return out
}

// PendingDates lists the distinct dates with open bets, sorted.
func (m *Manager) PendingDates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	for _, p := range m.pending {
		seen[p.DateStr] = true
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// ResolvePending removes one open bet, returning it for settlement.
func (m *Manager) ResolvePending(raceKey string) (PendingBet, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[raceKey]
	if ok {
		delete(m.pending, raceKey)
	}
	return p, ok
}

// ApplySettlement credits the payout of one settled leg and rolls the
// streak counters. The stake was already deducted at placement, so a
// loss only moves the counters. Returns the updated state copy.
func (m *Manager) ApplySettlement(rec model.SettlementRecord) model.BankrollState {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Current += rec.Payout
	m.state.DailyPnL += rec.ProfitLoss
	if rec.Won {
		m.state.ConsecutiveWins++
		m.state.ConsecutiveLosses = 0
	} else {
		m.state.ConsecutiveLosses++
		m.state.ConsecutiveWins = 0
	}
	m.state.UpdatedAt = time.Now()
	return m.state
}

// ExpireBefore voids pending bets placed before the cutoff, refunding
// their stakes. Returns the voided bets for logging.
func (m *Manager) ExpireBefore(cutoff time.Time) []PendingBet {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []PendingBet
	for key, p := range m.pending {
		if p.PlacedAt.Before(cutoff) {
			m.state.Current += p.Decision.TotalStake
			m.state.DailySpent -= p.Decision.TotalStake
			if m.state.DailySpent < 0 {
				m.state.DailySpent = 0
			}
			delete(m.pending, key)
			expired = append(expired, p)
			m.log.Warn("pending bet expired, stake refunded",
				zap.String("race", key),
				zap.Int64("stake", p.Decision.TotalStake))
		}
	}
	if len(expired) > 0 {
		m.state.UpdatedAt = time.Now()
	}
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].Decision.RaceKey < expired[j].Decision.RaceKey
	})
	return expired
}
