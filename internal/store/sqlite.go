package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"fasttrade/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ RunStore = (*SQLiteStore)(nil)

// SQLiteStore implements RunStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	strategy    TEXT NOT NULL,
	symbol      TEXT NOT NULL,
	created_at  INTEGER NOT NULL, -- Unix ms
	summary     TEXT NOT NULL     -- JSON domain.Summary
);
CREATE TABLE IF NOT EXISTS run_trades (
	run_id          INTEGER NOT NULL REFERENCES runs(id),
	entry_time      INTEGER NOT NULL, -- Unix ms
	entry_price     REAL NOT NULL,
	exit_time       INTEGER NOT NULL, -- Unix ms
	exit_price      REAL NOT NULL,
	gross_return    REAL NOT NULL,
	net_return      REAL NOT NULL,
	commission_paid REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_run_trades_run ON run_trades(run_id);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies the
// schema, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun persists the run summary and trade ledger in one transaction and
// returns the assigned run ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) (int64, error) {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return 0, fmt.Errorf("encoding summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (strategy, symbol, created_at, summary) VALUES (?, ?, ?, ?)`,
		run.Strategy, run.Symbol, createdAt.UnixMilli(), string(summaryJSON))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, t := range run.Trades {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_trades
			 (run_id, entry_time, entry_price, exit_time, exit_price, gross_return, net_return, commission_paid)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, t.EntryTime.UnixMilli(), t.EntryPrice, t.ExitTime.UnixMilli(),
			t.ExitPrice, t.GrossReturn, t.NetReturn, t.CommissionPaid); err != nil {
			return 0, fmt.Errorf("inserting trade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetRun retrieves a run and its trade ledger by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id int64) (*Run, error) {
	run := &Run{ID: id}
	var createdAt int64
	var summaryJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT strategy, symbol, created_at, summary FROM runs WHERE id = ?`, id).
		Scan(&run.Strategy, &run.Symbol, &createdAt, &summaryJSON)
	if err != nil {
		return nil, err
	}
	run.CreatedAt = time.UnixMilli(createdAt).UTC()
	if err := json.Unmarshal([]byte(summaryJSON), &run.Summary); err != nil {
		return nil, fmt.Errorf("decoding summary: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_time, entry_price, exit_time, exit_price, gross_return, net_return, commission_paid
		 FROM run_trades WHERE run_id = ? ORDER BY exit_time`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.Trade
		var entryMs, exitMs int64
		if err := rows.Scan(&entryMs, &t.EntryPrice, &exitMs, &t.ExitPrice,
			&t.GrossReturn, &t.NetReturn, &t.CommissionPaid); err != nil {
			return nil, err
		}
		t.EntryTime = time.UnixMilli(entryMs).UTC()
		t.ExitTime = time.UnixMilli(exitMs).UTC()
		t.Duration = t.ExitTime.Sub(t.EntryTime)
		run.Trades = append(run.Trades, t)
	}
	return run, rows.Err()
}

// ListRuns returns the most recent runs, newest first, without trade
// ledgers.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, strategy, symbol, created_at, summary FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt int64
		var summaryJSON string
		if err := rows.Scan(&run.ID, &run.Strategy, &run.Symbol, &createdAt, &summaryJSON); err != nil {
			return nil, err
		}
		run.CreatedAt = time.UnixMilli(createdAt).UTC()
		if err := json.Unmarshal([]byte(summaryJSON), &run.Summary); err != nil {
			return nil, fmt.Errorf("decoding summary for run %d: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
