package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/portfolio"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists summary snapshots and refresh outcomes to SQLite.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the daemon writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS summary_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			units       REAL,
			close       REAL,
			value       REAL,
			weight      REAL,
			stale       INTEGER,
			total_value REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_summary_ts ON summary_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS refresh_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			batch_id  TEXT NOT NULL,
			interval  TEXT,
			symbol    TEXT NOT NULL,
			outcome   TEXT NOT NULL,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_ts ON refresh_events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_batch ON refresh_events(batch_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordSummary writes one row per symbol of a portfolio snapshot.
func (r *SQLiteRecorder) RecordSummary(summary model.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for _, s := range summary.Symbols {
		stale := 0
		if s.Stale {
			stale = 1
		}
		if _, err := r.db.Exec(`INSERT INTO summary_snapshots
			(timestamp, symbol, units, close, value, weight, stale, total_value)
			VALUES (?,?,?,?,?,?,?,?)`,
			now, s.Symbol, s.Units, s.Close, s.Value, s.Weight, stale, summary.TotalValue,
		); err != nil {
			return err
		}
	}
	return nil
}

// RecordRefresh writes one row per symbol touched by an update-all batch.
func (r *SQLiteRecorder) RecordRefresh(report *portfolio.BatchReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	insert := func(symbol, outcome, errMsg string) error {
		_, err := r.db.Exec(`INSERT INTO refresh_events
			(timestamp, batch_id, interval, symbol, outcome, error)
			VALUES (?,?,?,?,?,?)`,
			now, report.ID.String(), string(report.Interval), symbol, outcome, errMsg)
		return err
	}
	for _, s := range report.Refreshed {
		if err := insert(s, "refreshed", ""); err != nil {
			return err
		}
	}
	for _, s := range report.Skipped {
		if err := insert(s, "skipped", ""); err != nil {
			return err
		}
	}
	for s, ferr := range report.Failed {
		if err := insert(s, "failed", ferr.Error()); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
