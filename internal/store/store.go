// Package store persists candle archives and backtest runs. Candles live in
// Parquet files on disk; completed runs (summary plus trade ledger) live in
// SQLite.
package store

import (
	"context"
	"time"

	"fasttrade/internal/domain"
)

// CandleStore persists and retrieves OHLCV candle series.
type CandleStore interface {
	// SaveCandles persists a batch of candles for the given series key,
	// merging with any candles already stored.
	SaveCandles(ctx context.Context, exchange, symbol, interval string, candles []domain.Candle) error

	// LoadCandles returns the stored candles for the series key within
	// [start, end], sorted by timestamp.
	LoadCandles(ctx context.Context, exchange, symbol, interval string, start, end time.Time) ([]domain.Candle, error)

	// ListSymbols returns all distinct symbols archived for the exchange.
	ListSymbols(ctx context.Context, exchange string) ([]string, error)
}

// Run is a persisted backtest: identity, the summary, and the trade ledger.
type Run struct {
	ID        int64
	Strategy  string
	Symbol    string
	CreatedAt time.Time
	Summary   domain.Summary
	Trades    []domain.Trade
}

// RunStore persists completed backtest runs.
type RunStore interface {
	// SaveRun persists a run and returns its assigned ID.
	SaveRun(ctx context.Context, run *Run) (int64, error)

	// GetRun retrieves a run with its trade ledger.
	GetRun(ctx context.Context, id int64) (*Run, error)

	// ListRuns returns the most recent runs, newest first, without their
	// trade ledgers.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}
