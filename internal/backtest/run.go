// Package backtest is the engine entry point: it validates a strategy,
// computes its indicators, folds the confirmation state machines and the
// trade simulator over the candle series, and hands the ledger and equity
// trace to the analytics package. One invocation is a single deterministic
// batch computation with no shared state across calls.
package backtest

import (
	"errors"
	"strconv"
	"time"

	"fasttrade/internal/analytics"
	"fasttrade/internal/domain"
	"fasttrade/internal/indicator"
	"fasttrade/internal/signal"
	"fasttrade/internal/strategy"
)

// Run executes one backtest of the strategy over the candle series and
// returns the trade ledger, equity trace, and metrics summary. It fails
// fast: configuration and data errors surface before any simulation state
// exists, and a failed run produces no partial result.
func Run(spec *strategy.Spec, candles []domain.Candle) (*domain.Result, error) {
	if errs := ValidateStrategy(spec); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	candles, err := applyWindow(spec, candles)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateCandles(candles); err != nil {
		return nil, err
	}

	table, err := indicator.Evaluate(candles, spec.Datapoints)
	if err != nil {
		return nil, err
	}

	enterRule, err := signal.Compile("enter", spec.Enter, spec.AnyEnter, table)
	if err != nil {
		return nil, err
	}
	exitRule, err := signal.Compile("exit", spec.Exit, spec.AnyExit, table)
	if err != nil {
		return nil, err
	}

	enterConfirm := signal.NewConfirmer(spec.EnterConfirmations)
	exitConfirm := signal.NewConfirmer(spec.ExitConfirmations)
	sim := newSimulator(spec.BaseBalance, spec.Commission)

	// Strictly sequential fold: confirmation counters and position state
	// are chronologically stateful, so no reordering is permitted here.
	equity := make([]domain.EquityPoint, 0, len(candles))
	for i, c := range candles {
		enterFired := enterConfirm.Step(enterRule.Holds(table, i))
		exitFired := exitConfirm.Step(exitRule.Holds(table, i))

		switch {
		case sim.stopHit(c.Close, spec.TrailingStopLoss):
			sim.apply(domain.SignalEvent{Timestamp: c.Timestamp, Index: i, Kind: domain.Exit}, c.Close)
		case sim.inPosition && exitFired:
			sim.apply(domain.SignalEvent{Timestamp: c.Timestamp, Index: i, Kind: domain.Exit}, c.Close)
		case !sim.inPosition && enterFired:
			sim.apply(domain.SignalEvent{Timestamp: c.Timestamp, Index: i, Kind: domain.Enter}, c.Close)
		}
		sim.trackPeak(c.Close)

		equity = append(equity, domain.EquityPoint{
			Timestamp: c.Timestamp,
			Balance:   sim.markedBalance(c.Close, spec.MarkToMarket),
		})
	}

	last := candles[len(candles)-1]
	if spec.ExitOnEnd && sim.inPosition {
		sim.exit(last.Timestamp, last.Close)
		equity[len(equity)-1].Balance = sim.balance
	}
	open := sim.openPosition(last.Timestamp, last.Close)

	analytics.Annotate(equity)
	return &domain.Result{
		Trades:  sim.trades,
		Open:    open,
		Equity:  equity,
		Summary: analytics.Summarize(spec.BaseBalance, sim.trades, open, equity),
	}, nil
}

// ValidateStrategy reports every configuration error in the strategy:
// structural problems, unknown transformers, and rule operands that resolve
// to no series. An empty slice means the strategy is runnable.
func ValidateStrategy(spec *strategy.Spec) []error {
	errs := spec.Validate()

	known := map[string]bool{
		"open": true, "high": true, "low": true, "close": true, "volume": true,
	}
	for _, dp := range spec.Datapoints {
		if dp.Transformer == "" {
			continue
		}
		if !indicator.Has(dp.Transformer) {
			errs = append(errs, domain.ConfigErrorf("datapoints",
				"datapoint %q uses unknown transformer %q", dp.Name, dp.Transformer))
			continue
		}
		for _, out := range indicator.Outputs(dp.Transformer, dp.Name) {
			known[out] = true
		}
	}

	for field, rules := range map[string][]strategy.Rule{
		"enter": spec.Enter, "exit": spec.Exit,
		"any_enter": spec.AnyEnter, "any_exit": spec.AnyExit,
	} {
		for _, r := range rules {
			if len(r) != 3 {
				continue // shape already reported by spec.Validate
			}
			for _, operand := range []string{r[0], r[2]} {
				if isNumeric(operand) || known[operand] {
					continue
				}
				errs = append(errs, domain.ConfigErrorf(field, "unknown series %q", operand))
			}
		}
	}
	return errs
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// applyWindow slices the candle series to the strategy's optional
// start_date/stop_date bounds (inclusive). Dates accept YYYY-MM-DD or
// RFC 3339.
func applyWindow(spec *strategy.Spec, candles []domain.Candle) ([]domain.Candle, error) {
	start, err := parseDate(spec.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	stop, err := parseDate(spec.StopDate, "stop_date")
	if err != nil {
		return nil, err
	}
	if start.IsZero() && stop.IsZero() {
		return candles, nil
	}

	var out []domain.Candle
	for _, c := range candles {
		if !start.IsZero() && c.Timestamp.Before(start) {
			continue
		}
		if !stop.IsZero() && c.Timestamp.After(stop) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func parseDate(raw, field string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.ConfigErrorf(field, "unparseable date %q", raw)
}
