// Package domain defines the core value types shared across the backtest
// engine: candles, signal events, trades, equity points, and the summary
// produced at the end of a run.
package domain

import "time"

// Candle is a single OHLCV bar. Timestamps are UTC; a candle series must be
// strictly increasing in time. Gaps are permitted: alignment is by index,
// not by wall clock.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// EventKind distinguishes enter from exit signal events.
type EventKind int

const (
	Enter EventKind = iota
	Exit
)

// String returns "ENTER" or "EXIT".
func (k EventKind) String() string {
	if k == Enter {
		return "ENTER"
	}
	return "EXIT"
}

// SignalEvent is a confirmed rule firing at a specific candle. Each event is
// consumed exactly once by the trade simulator.
type SignalEvent struct {
	Timestamp time.Time
	Index     int
	Kind      EventKind
}

// Trade is one closed round trip. Immutable after close.
type Trade struct {
	EntryTime      time.Time     `json:"entry_time"`
	EntryPrice     float64       `json:"entry_price"`
	ExitTime       time.Time     `json:"exit_time"`
	ExitPrice      float64       `json:"exit_price"`
	Duration       time.Duration `json:"duration"`
	GrossReturn    float64       `json:"gross_return_pct"`
	NetReturn      float64       `json:"net_return_pct"`
	CommissionPaid float64       `json:"commission_paid"`
}

// OpenPosition describes a position still open when the candle series ends.
// It is excluded from closed-trade statistics and reported separately.
type OpenPosition struct {
	EntryTime  time.Time `json:"entry_time"`
	EntryPrice float64   `json:"entry_price"`
	LastPrice  float64   `json:"last_price"`
	LastTime   time.Time `json:"last_time"`
}

// EquityPoint is one sample of the account balance, one per candle. Balance
// is marked at trade close and held flat in between. Peak is non-decreasing;
// Drawdown = (Peak - Balance)/Peak and is always >= 0.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Balance   float64   `json:"balance"`
	Peak      float64   `json:"running_peak"`
	Drawdown  float64   `json:"drawdown_pct"`
}

// Summary is the aggregate read-only snapshot computed from the trade ledger
// and equity trace at the end of a run. Degenerate inputs (zero trades, zero
// variance, no losing trades) produce the documented sentinel values rather
// than NaN or Inf surprises; see the analytics package.
type Summary struct {
	// Overall return.
	BaseBalance  float64 `json:"base_balance"`
	FinalBalance float64 `json:"final_balance"`
	ReturnPct    float64 `json:"return_pct"`

	// Risk metrics.
	SharpeRatio  float64 `json:"sharpe_ratio"`
	SortinoRatio float64 `json:"sortino_ratio"`

	// Drawdown metrics.
	MaxDrawdownPct      float64       `json:"max_drawdown_pct"`
	MaxDrawdownDuration time.Duration `json:"max_drawdown_duration"`
	AvgDrawdownPct      float64       `json:"avg_drawdown_pct"`

	// Trade statistics.
	NumTrades    int     `json:"num_trades"`
	NumWins      int     `json:"num_wins"`
	NumLosses    int     `json:"num_losses"`
	WinRate      float64 `json:"win_rate"`
	AvgWinPct    float64 `json:"avg_win_pct"`
	AvgLossPct   float64 `json:"avg_loss_pct"`
	ProfitFactor float64 `json:"profit_factor"` // +Inf when no losing trades exist
	OpenAtEnd    bool    `json:"open_at_end"`

	// Time-based aggregates over UTC calendar days.
	BestDayPct     float64       `json:"best_day_pct"`
	WorstDayPct    float64       `json:"worst_day_pct"`
	AvgDayPct      float64       `json:"avg_day_pct"`
	ProfitableDays float64       `json:"profitable_days_pct"`
	TimeInMarket   float64       `json:"time_in_market"`
	TotalDuration  time.Duration `json:"total_duration"`
	PeriodsPerYear float64       `json:"periods_per_year"`
}

// Result is the full output of one backtest invocation.
type Result struct {
	Trades  []Trade       `json:"trades"`
	Open    *OpenPosition `json:"open_position,omitempty"`
	Equity  []EquityPoint `json:"equity"`
	Summary Summary       `json:"summary"`
}
