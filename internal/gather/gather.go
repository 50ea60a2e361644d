// Package gather downloads historical candle data from exchange APIs. The
// engine itself never fetches anything: it consumes a complete, already
// sorted series, and this package is the collaborator that assembles one.
package gather

import (
	"context"
	"time"

	"fasttrade/internal/domain"
)

// Fetcher retrieves historical candles for a symbol on an exchange.
// Implementations handle pagination and rate limiting internally; the
// returned series is sorted by timestamp with duplicates removed.
type Fetcher interface {
	Fetch(ctx context.Context, symbol, exchange string, start, end time.Time, interval string) ([]domain.Candle, error)
}

// Status reports download progress to an optional callback.
type Status struct {
	Symbol       string
	PercComplete float64
	CallCount    int
	TotalCalls   int
	Elapsed      time.Duration
}

// StatusFunc receives progress updates during a fetch.
type StatusFunc func(Status)

// Intervals maps every supported candle interval to its duration. Months
// are approximated at 30 days, matching common exchange candle APIs.
var Intervals = map[string]time.Duration{
	"1m": time.Minute, "3m": 3 * time.Minute, "5m": 5 * time.Minute,
	"15m": 15 * time.Minute, "30m": 30 * time.Minute,
	"1h": time.Hour, "2h": 2 * time.Hour, "4h": 4 * time.Hour,
	"6h": 6 * time.Hour, "12h": 12 * time.Hour,
	"1d": 24 * time.Hour, "3d": 72 * time.Hour,
	"1w": 7 * 24 * time.Hour,
	"1M": 30 * 24 * time.Hour,
}

// SupportedInterval reports whether the interval string is recognized.
func SupportedInterval(interval string) bool {
	_, ok := Intervals[interval]
	return ok
}
