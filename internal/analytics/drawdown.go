// Package analytics computes risk and performance metrics from a backtest's
// trade ledger and equity trace. Degenerate inputs never produce NaN or
// accidental division by zero: zero-variance returns give a Sharpe of 0, an
// all-winning ledger gives a Sortino of 0, zero losses give a profit factor
// of +Inf, and zero trades give an all-neutral summary. Each of these is a
// deliberate sentinel, documented on the function that applies it.
package analytics

import (
	"time"

	"fasttrade/internal/domain"
)

// Annotate fills Peak and Drawdown on the equity trace in place. Peak is
// non-decreasing; Drawdown = (Peak - Balance)/Peak, always >= 0 and exactly
// 0 at new peaks.
func Annotate(trace []domain.EquityPoint) {
	var peak float64
	for i := range trace {
		if trace[i].Balance > peak {
			peak = trace[i].Balance
		}
		trace[i].Peak = peak
		trace[i].Drawdown = (peak - trace[i].Balance) / peak
	}
}

// drawdownStats returns the max drawdown, the duration of the longest
// contiguous span with positive drawdown, and the mean of all positive
// drawdown values. The trace must already be annotated.
func drawdownStats(trace []domain.EquityPoint) (maxDD float64, maxDur time.Duration, avgDD float64) {
	var spanStart time.Time
	inSpan := false
	var posSum float64
	var posCount int

	endSpan := func(until time.Time) {
		if inSpan {
			if d := until.Sub(spanStart); d > maxDur {
				maxDur = d
			}
			inSpan = false
		}
	}

	for _, p := range trace {
		if p.Drawdown > maxDD {
			maxDD = p.Drawdown
		}
		if p.Drawdown > 0 {
			posSum += p.Drawdown
			posCount++
			if !inSpan {
				inSpan = true
				spanStart = p.Timestamp
			}
		} else {
			endSpan(p.Timestamp)
		}
	}
	if len(trace) > 0 {
		endSpan(trace[len(trace)-1].Timestamp)
	}
	if posCount > 0 {
		avgDD = posSum / float64(posCount)
	}
	return maxDD, maxDur, avgDD
}
