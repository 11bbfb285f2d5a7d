package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"KyoteiSentinel/internal/model"
)

// SQLiteStore keeps the investment ledger in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
	mu  sync.Mutex
}

// NewSQLite opens (or creates) the database, applies the pragmas and
// runs the schema migration in one step.
func NewSQLite(dbPath string, log *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets report reads run while the settler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite store opened", zap.String("path", dbPath))
	return s, nil
}

// migrate owns the whole schema. Every table and index lives here so
// no other code path issues DDL.
func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS investment_history (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			date_str             TEXT NOT NULL,
			race_key             TEXT NOT NULL,
			strategy_name        TEXT NOT NULL,
			bet_type             TEXT NOT NULL,
			bet_amount           INTEGER NOT NULL,
			predicted_confidence REAL,
			actual_odds          REAL,
			result               TEXT,
			profit_loss          INTEGER,
			bankroll_after       INTEGER,
			roi                  REAL,
			timestamp            TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_date ON investment_history(date_str)`,
		`CREATE INDEX IF NOT EXISTS idx_history_strategy_ts ON investment_history(strategy_name, timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) InsertInvestment(rec model.InvestmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO investment_history
		(date_str, race_key, strategy_name, bet_type, bet_amount,
		 predicted_confidence, actual_odds, result, profit_loss,
		 bankroll_after, roi, timestamp)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.DateStr, rec.RaceKey, rec.StrategyName, rec.BetType, rec.BetAmount,
		rec.PredictedConf, rec.ActualOdds, rec.Result, rec.ProfitLoss,
		rec.BankrollAfter, rec.ROI, ts.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert investment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LatestBankroll() (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var amount int64
	err := s.db.QueryRow(`SELECT bankroll_after FROM investment_history
		ORDER BY timestamp DESC, id DESC LIMIT 1`).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("latest bankroll: %w", err)
	}
	return amount, true, nil
}

func (s *SQLiteStore) DailySpent(dateStr string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var spent sql.NullInt64
	err := s.db.QueryRow(`SELECT SUM(bet_amount) FROM investment_history
		WHERE date_str = ?`, dateStr).Scan(&spent)
	if err != nil {
		return 0, fmt.Errorf("daily spent: %w", err)
	}
	if !spent.Valid {
		return 0, nil
	}
	return spent.Int64, nil
}

func (s *SQLiteStore) RecentRecords(n int) ([]model.InvestmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, date_str, race_key, strategy_name,
		bet_type, bet_amount, predicted_confidence, actual_odds, result,
		profit_loss, bankroll_after, roi, timestamp
		FROM investment_history
		ORDER BY timestamp DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("recent records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *SQLiteStore) History(sinceDateStr string) ([]model.InvestmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, date_str, race_key, strategy_name,
		bet_type, bet_amount, predicted_confidence, actual_odds, result,
		profit_loss, bankroll_after, roi, timestamp
		FROM investment_history
		WHERE date_str >= ?
		ORDER BY timestamp ASC, id ASC`, sinceDateStr)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]model.InvestmentRecord, error) {
	var out []model.InvestmentRecord
	for rows.Next() {
		var rec model.InvestmentRecord
		var ts string
		if err := rows.Scan(&rec.ID, &rec.DateStr, &rec.RaceKey, &rec.StrategyName,
			&rec.BetType, &rec.BetAmount, &rec.PredictedConf, &rec.ActualOdds,
			&rec.Result, &rec.ProfitLoss, &rec.BankrollAfter, &rec.ROI, &ts); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = parsed
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite store")
	return s.db.Close()
}
