// Package fasttrade is the public API for running backtests. It re-exports
// the domain types and the engine entry points so callers do not need to
// reach into internal packages.
package fasttrade

import (
	"fasttrade/internal/backtest"
	"fasttrade/internal/domain"
	"fasttrade/internal/strategy"
)

// Core types consumed and produced by a backtest run.
type (
	Candle      = domain.Candle
	Trade       = domain.Trade
	EquityPoint = domain.EquityPoint
	Summary     = domain.Summary
	Result      = domain.Result

	Spec      = strategy.Spec
	Datapoint = strategy.Datapoint
	Rule      = strategy.Rule
)

// Error types returned for bad strategies and bad input data.
type (
	ConfigurationError = domain.ConfigurationError
	DataError          = domain.DataError
)

// LoadStrategy reads and parses a YAML or JSON strategy document from path.
func LoadStrategy(path string) (*Spec, error) {
	return strategy.Load(path)
}

// ParseStrategy parses a strategy document from raw bytes.
func ParseStrategy(data []byte) (*Spec, error) {
	return strategy.Parse(data)
}

// Validate checks a strategy for structural and semantic problems without
// running it. It returns one error per problem found, or nil when the
// strategy is runnable.
func Validate(spec *Spec) []error {
	return backtest.ValidateStrategy(spec)
}

// Run executes the strategy against the candle series and returns the full
// result: closed trades, any still-open position, the per-candle equity
// trace, and the summary statistics.
func Run(spec *Spec, candles []Candle) (*Result, error) {
	return backtest.Run(spec, candles)
}
