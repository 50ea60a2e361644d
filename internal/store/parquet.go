package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"fasttrade/internal/domain"
)

// Compile-time interface check.
var _ CandleStore = (*ParquetStore)(nil)

// ParquetStore implements CandleStore using Parquet files on disk, one file
// per (exchange, interval, symbol, year).
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a ParquetStore rooted at the given data directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// CandleRecord is the Parquet schema for candle data. Timestamps are Unix
// milliseconds.
type CandleRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"`
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

// SaveCandles writes candles to Parquet files grouped by year, merging with
// and deduplicating against any candles already on disk for the same file.
func (s *ParquetStore) SaveCandles(_ context.Context, exchange, symbol, interval string, candles []domain.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	groups := make(map[int][]CandleRecord)
	for _, c := range candles {
		year := c.Timestamp.UTC().Year()
		groups[year] = append(groups[year], CandleRecord{
			Timestamp: c.Timestamp.UnixMilli(),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		})
	}

	for year, records := range groups {
		path := s.candlePath(exchange, symbol, interval, year)

		existing, _ := readParquetFile[CandleRecord](path)
		merged := mergeCandleRecords(existing, records)

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing candles for %s/%s/%d: %w", symbol, interval, year, err)
		}
	}
	return nil
}

// LoadCandles reads candles for the series key within [start, end].
func (s *ParquetStore) LoadCandles(_ context.Context, exchange, symbol, interval string, start, end time.Time) ([]domain.Candle, error) {
	var candles []domain.Candle
	for year := start.UTC().Year(); year <= end.UTC().Year(); year++ {
		path := s.candlePath(exchange, symbol, interval, year)

		records, err := readParquetFile[CandleRecord](path)
		if err != nil {
			// No file for this year, skip.
			continue
		}

		for _, r := range records {
			ts := time.UnixMilli(r.Timestamp).UTC()
			if ts.Before(start) || ts.After(end) {
				continue
			}
			candles = append(candles, domain.Candle{
				Timestamp: ts,
				Open:      r.Open,
				High:      r.High,
				Low:       r.Low,
				Close:     r.Close,
				Volume:    r.Volume,
			})
		}
	}
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})
	return candles, nil
}

// ListSymbols lists all symbols with archived candles on the exchange,
// across all intervals.
func (s *ParquetStore) ListSymbols(_ context.Context, exchange string) ([]string, error) {
	root := filepath.Join(s.DataDir, strings.ToLower(exchange))
	intervals, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	seen := make(map[string]bool)
	for _, iv := range intervals {
		if !iv.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(root, iv.Name()))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				seen[e.Name()] = true
			}
		}
	}

	symbols := make([]string, 0, len(seen))
	for sym := range seen {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols, nil
}

// candlePath returns the filesystem path for a candle Parquet file.
// Layout: <dataDir>/<exchange>/<interval>/<SYMBOL>/<YYYY>.parquet
func (s *ParquetStore) candlePath(exchange, symbol, interval string, year int) string {
	return filepath.Join(s.DataDir, strings.ToLower(exchange), interval,
		strings.ToUpper(symbol), fmt.Sprintf("%d.parquet", year))
}

// ---------------------------------------------------------------------------
// Parquet file helpers
// ---------------------------------------------------------------------------

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mergeCandleRecords deduplicates records by timestamp, preferring incoming
// over existing. Results are sorted by timestamp.
func mergeCandleRecords(existing, incoming []CandleRecord) []CandleRecord {
	seen := make(map[int64]CandleRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[r.Timestamp] = r
	}
	for _, r := range incoming {
		seen[r.Timestamp] = r
	}

	merged := make([]CandleRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
