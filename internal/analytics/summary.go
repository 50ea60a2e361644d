package analytics

import (
	"math"

	"fasttrade/internal/domain"
)

// Summarize computes the full metrics summary from a closed-trade ledger,
// the optional position still open at series end, and the annotated equity
// trace. A run with zero closed trades produces a neutral all-zero summary
// rather than failing.
func Summarize(baseBalance float64, trades []domain.Trade, open *domain.OpenPosition, trace []domain.EquityPoint) domain.Summary {
	s := domain.Summary{
		BaseBalance:  baseBalance,
		FinalBalance: baseBalance,
		OpenAtEnd:    open != nil,
	}
	if len(trace) > 0 {
		s.FinalBalance = trace[len(trace)-1].Balance
		s.TotalDuration = trace[len(trace)-1].Timestamp.Sub(trace[0].Timestamp)
	}
	s.ReturnPct = s.FinalBalance/baseBalance - 1

	s.MaxDrawdownPct, s.MaxDrawdownDuration, s.AvgDrawdownPct = drawdownStats(trace)

	returns := periodReturns(trace)
	s.PeriodsPerYear = periodsPerYear(trace)
	s.SharpeRatio = sharpe(returns, s.PeriodsPerYear)
	s.SortinoRatio = sortino(returns, s.PeriodsPerYear)

	fillTradeStats(&s, trades)
	fillDailyStats(&s, trace, baseBalance)
	fillTimeInMarket(&s, trades, open)
	return s
}

// fillTradeStats computes win rate, average win/loss, and profit factor.
// Profit factor is +Inf when losses sum to zero but wins do not, and 0
// when there are no trades at all.
func fillTradeStats(s *domain.Summary, trades []domain.Trade) {
	s.NumTrades = len(trades)
	if len(trades) == 0 {
		return
	}
	var winSum, lossSum float64
	for _, t := range trades {
		if t.NetReturn > 0 {
			s.NumWins++
			winSum += t.NetReturn
		} else {
			s.NumLosses++
			lossSum += t.NetReturn
		}
	}
	s.WinRate = float64(s.NumWins) / float64(s.NumTrades)
	if s.NumWins > 0 {
		s.AvgWinPct = winSum / float64(s.NumWins)
	}
	if s.NumLosses > 0 {
		s.AvgLossPct = lossSum / float64(s.NumLosses)
	}
	switch {
	case lossSum == 0 && winSum > 0:
		s.ProfitFactor = math.Inf(1)
	case lossSum == 0:
		s.ProfitFactor = 0
	default:
		s.ProfitFactor = winSum / math.Abs(lossSum)
	}
}

func fillDailyStats(s *domain.Summary, trace []domain.EquityPoint, baseBalance float64) {
	daily := dailyReturns(trace, baseBalance)
	if len(daily) == 0 {
		return
	}
	best := math.Inf(-1)
	worst := math.Inf(1)
	profitable := 0
	for _, r := range daily {
		best = math.Max(best, r)
		worst = math.Min(worst, r)
		if r > 0 {
			profitable++
		}
	}
	s.BestDayPct = best
	s.WorstDayPct = worst
	s.AvgDayPct = mean(daily)
	s.ProfitableDays = float64(profitable) / float64(len(daily))
}

// fillTimeInMarket sums position holding time (closed trades plus any
// position still open at series end) over the total series duration.
func fillTimeInMarket(s *domain.Summary, trades []domain.Trade, open *domain.OpenPosition) {
	if s.TotalDuration <= 0 {
		return
	}
	var held float64
	for _, t := range trades {
		held += t.Duration.Seconds()
	}
	if open != nil {
		held += open.LastTime.Sub(open.EntryTime).Seconds()
	}
	s.TimeInMarket = held / s.TotalDuration.Seconds()
}
