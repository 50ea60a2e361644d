package analytics

import (
	"math"
	"testing"
	"time"

	"fasttrade/internal/domain"
)

func trace(balances ...float64) []domain.EquityPoint {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.EquityPoint, len(balances))
	for i, b := range balances {
		out[i] = domain.EquityPoint{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Balance:   b,
		}
	}
	return out
}

func TestAnnotateInvariants(t *testing.T) {
	tr := trace(1000, 1100, 1050, 1200, 900, 950)
	Annotate(tr)

	for i, p := range tr {
		if p.Drawdown < 0 {
			t.Errorf("Drawdown[%d] = %v, want >= 0", i, p.Drawdown)
		}
		if i > 0 && p.Peak < tr[i-1].Peak {
			t.Errorf("Peak decreased at %d: %v -> %v", i, tr[i-1].Peak, p.Peak)
		}
		if p.Balance == p.Peak && p.Drawdown != 0 {
			t.Errorf("Drawdown[%d] = %v at a new peak, want exactly 0", i, p.Drawdown)
		}
	}

	// Max drawdown is at the 1200 -> 900 drop: (1200-900)/1200 = 0.25.
	maxDD, _, avgDD := drawdownStats(tr)
	if math.Abs(maxDD-0.25) > 1e-12 {
		t.Errorf("maxDD = %v, want 0.25", maxDD)
	}
	if avgDD <= 0 {
		t.Errorf("avgDD = %v, want > 0 for a trace with drawdowns", avgDD)
	}
}

func TestDrawdownDuration(t *testing.T) {
	// Underwater from hour 1 until recovery at hour 4, then again at hour 5.
	tr := trace(1000, 900, 950, 980, 1100, 1050)
	Annotate(tr)

	_, dur, _ := drawdownStats(tr)
	if dur != 3*time.Hour {
		t.Errorf("longest drawdown duration = %v, want 3h", dur)
	}
}

func TestSharpeZeroVariance(t *testing.T) {
	if got := sharpe([]float64{0.01, 0.01, 0.01}, 365); got != 0 {
		t.Errorf("sharpe(constant returns) = %v, want 0", got)
	}
	if got := sharpe(nil, 365); got != 0 {
		t.Errorf("sharpe(no returns) = %v, want 0", got)
	}
}

func TestSharpeSign(t *testing.T) {
	up := sharpe([]float64{0.01, 0.02, 0.015, 0.005}, 365)
	if up <= 0 {
		t.Errorf("sharpe(all-positive returns) = %v, want > 0", up)
	}
	down := sharpe([]float64{-0.01, -0.02, -0.015, -0.005}, 365)
	if down >= 0 {
		t.Errorf("sharpe(all-negative returns) = %v, want < 0", down)
	}
}

func TestSortinoAllWinning(t *testing.T) {
	// No negative returns: downside deviation is undefined, sentinel 0.
	if got := sortino([]float64{0.01, 0.02, 0.03}, 365); got != 0 {
		t.Errorf("sortino(all-winning) = %v, want 0", got)
	}
}

func TestSortinoMixed(t *testing.T) {
	got := sortino([]float64{0.05, -0.01, 0.04, -0.03, 0.02}, 365)
	if got <= 0 {
		t.Errorf("sortino(net-positive mixed returns) = %v, want > 0", got)
	}
}

func TestPeriodsPerYear(t *testing.T) {
	// Hourly spacing: 365.25*24 periods per year.
	got := periodsPerYear(trace(1, 1, 1, 1))
	want := 365.25 * 24
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("periodsPerYear(hourly) = %v, want %v", got, want)
	}

	if got := periodsPerYear(trace(1)); got != 365 {
		t.Errorf("periodsPerYear(single point) = %v, want fallback 365", got)
	}
}

func closedTrade(entry, exit time.Time, net float64) domain.Trade {
	return domain.Trade{
		EntryTime: entry,
		ExitTime:  exit,
		Duration:  exit.Sub(entry),
		NetReturn: net,
	}
}

func TestSummarizeZeroTrades(t *testing.T) {
	tr := trace(1000, 1000, 1000)
	Annotate(tr)
	s := Summarize(1000, nil, nil, tr)

	if s.NumTrades != 0 || s.WinRate != 0 {
		t.Errorf("zero-trade summary has NumTrades=%d WinRate=%v, want zeros", s.NumTrades, s.WinRate)
	}
	if s.ProfitFactor != 0 {
		t.Errorf("ProfitFactor = %v, want 0 with no trades", s.ProfitFactor)
	}
	if s.SharpeRatio != 0 || s.SortinoRatio != 0 {
		t.Errorf("ratios = %v/%v, want 0/0 on a flat trace", s.SharpeRatio, s.SortinoRatio)
	}
	if s.ReturnPct != 0 {
		t.Errorf("ReturnPct = %v, want 0", s.ReturnPct)
	}
	if math.IsNaN(s.MaxDrawdownPct) || math.IsNaN(s.AvgDayPct) {
		t.Error("zero-trade summary contains NaN")
	}
}

func TestSummarizeProfitFactorInf(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []domain.Trade{
		closedTrade(t0, t0.Add(time.Hour), 0.05),
		closedTrade(t0.Add(2*time.Hour), t0.Add(3*time.Hour), 0.02),
	}
	tr := trace(1000, 1050, 1050, 1071)
	Annotate(tr)

	s := Summarize(1000, trades, nil, tr)
	if !math.IsInf(s.ProfitFactor, 1) {
		t.Errorf("ProfitFactor = %v, want +Inf with no losing trades", s.ProfitFactor)
	}
	if s.NumWins != 2 || s.NumLosses != 0 {
		t.Errorf("wins/losses = %d/%d, want 2/0", s.NumWins, s.NumLosses)
	}
	if s.WinRate != 1 {
		t.Errorf("WinRate = %v, want 1", s.WinRate)
	}
}

func TestSummarizeTradeStats(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []domain.Trade{
		closedTrade(t0, t0.Add(time.Hour), 0.10),
		closedTrade(t0.Add(2*time.Hour), t0.Add(3*time.Hour), -0.05),
	}
	tr := trace(1000, 1100, 1100, 1045)
	Annotate(tr)

	s := Summarize(1000, trades, nil, tr)
	if s.NumTrades != 2 || s.NumWins != 1 || s.NumLosses != 1 {
		t.Fatalf("trade counts = %d/%d/%d, want 2/1/1", s.NumTrades, s.NumWins, s.NumLosses)
	}
	if s.WinRate != 0.5 {
		t.Errorf("WinRate = %v, want 0.5", s.WinRate)
	}
	if math.Abs(s.AvgWinPct-0.10) > 1e-12 {
		t.Errorf("AvgWinPct = %v, want 0.10", s.AvgWinPct)
	}
	if math.Abs(s.AvgLossPct+0.05) > 1e-12 {
		t.Errorf("AvgLossPct = %v, want -0.05", s.AvgLossPct)
	}
	if math.Abs(s.ProfitFactor-2) > 1e-12 {
		t.Errorf("ProfitFactor = %v, want 2", s.ProfitFactor)
	}
	// Two of four hours in the market.
	if math.Abs(s.TimeInMarket-2.0/3.0) > 1e-12 {
		t.Errorf("TimeInMarket = %v, want 2/3", s.TimeInMarket)
	}
}

func TestDailyReturns(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := []domain.EquityPoint{
		{Timestamp: t0, Balance: 1000},
		{Timestamp: t0.Add(12 * time.Hour), Balance: 1020},
		{Timestamp: t0.Add(24 * time.Hour), Balance: 1010},
		{Timestamp: t0.Add(48 * time.Hour), Balance: 1111},
	}

	got := dailyReturns(tr, 1000)
	want := []float64{0.02, 1010.0/1020.0 - 1, 0.1}
	if len(got) != len(want) {
		t.Fatalf("got %d daily returns, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("daily[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSummarizeDailyAggregates(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := []domain.EquityPoint{
		{Timestamp: t0, Balance: 1000},
		{Timestamp: t0.Add(24 * time.Hour), Balance: 1100},
		{Timestamp: t0.Add(48 * time.Hour), Balance: 1045},
	}
	Annotate(tr)

	s := Summarize(1000, nil, nil, tr)
	if math.Abs(s.BestDayPct-0.10) > 1e-12 {
		t.Errorf("BestDayPct = %v, want 0.10", s.BestDayPct)
	}
	if math.Abs(s.WorstDayPct-(1045.0/1100.0-1)) > 1e-12 {
		t.Errorf("WorstDayPct = %v, want %v", s.WorstDayPct, 1045.0/1100.0-1)
	}
	if math.Abs(s.ProfitableDays-1.0/3.0) > 1e-12 {
		t.Errorf("ProfitableDays = %v, want 1/3", s.ProfitableDays)
	}
}
