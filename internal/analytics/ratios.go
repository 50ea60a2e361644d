package analytics

import (
	"math"
	"sort"
	"time"

	"fasttrade/internal/domain"
)

const secondsPerYear = 365.25 * 24 * 3600

// periodReturns computes per-bar balance returns from the equity trace.
func periodReturns(trace []domain.EquityPoint) []float64 {
	if len(trace) < 2 {
		return nil
	}
	out := make([]float64, 0, len(trace)-1)
	for i := 1; i < len(trace); i++ {
		out = append(out, trace[i].Balance/trace[i-1].Balance-1)
	}
	return out
}

// periodsPerYear derives the annualization factor from the median candle
// spacing. A series too short or degenerate to measure falls back to daily
// periods.
func periodsPerYear(trace []domain.EquityPoint) float64 {
	if len(trace) < 2 {
		return 365
	}
	gaps := make([]float64, 0, len(trace)-1)
	for i := 1; i < len(trace); i++ {
		gaps = append(gaps, trace[i].Timestamp.Sub(trace[i-1].Timestamp).Seconds())
	}
	sort.Float64s(gaps)
	median := gaps[len(gaps)/2]
	if median <= 0 {
		return 365
	}
	return secondsPerYear / median
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// sharpe is the annualized mean/stdev of period returns. Zero variance
// yields 0 by definition, not an infinity.
func sharpe(returns []float64, perYear float64) float64 {
	sd := stdev(returns)
	if sd == 0 {
		return 0
	}
	return mean(returns) / sd * math.Sqrt(perYear)
}

// sortino annualizes mean return over the standard deviation of negative
// returns only. When no negative returns exist the downside deviation is
// undefined and the ratio is 0 by definition.
func sortino(returns []float64, perYear float64) float64 {
	var negative []float64
	for _, r := range returns {
		if r < 0 {
			negative = append(negative, r)
		}
	}
	sd := stdev(negative)
	if sd == 0 {
		return 0
	}
	return mean(returns) / sd * math.Sqrt(perYear)
}

// dailyReturns resamples the equity trace into UTC calendar days and
// returns the day-over-day balance returns in chronological order. The
// baseline for the first day is the base balance.
func dailyReturns(trace []domain.EquityPoint, baseBalance float64) []float64 {
	if len(trace) == 0 {
		return nil
	}
	type day struct {
		date    time.Time
		balance float64
	}
	var days []day
	for _, p := range trace {
		date := p.Timestamp.UTC().Truncate(24 * time.Hour)
		if len(days) > 0 && days[len(days)-1].date.Equal(date) {
			days[len(days)-1].balance = p.Balance
			continue
		}
		days = append(days, day{date: date, balance: p.Balance})
	}

	out := make([]float64, 0, len(days))
	prev := baseBalance
	for _, d := range days {
		out = append(out, d.balance/prev-1)
		prev = d.balance
	}
	return out
}
