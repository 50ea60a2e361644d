package backtest

import (
	"time"

	"fasttrade/internal/domain"
)

// simulator is the FLAT/IN_POSITION execution state machine. It consumes
// confirmed signal events in chronological order, applies commission on both
// legs, and appends one immutable Trade per closed position. At most one
// position is open at any time.
type simulator struct {
	commission float64
	balance    float64

	inPosition bool
	entryTime  time.Time
	entryPrice float64
	peakClose  float64

	trades []domain.Trade
}

func newSimulator(baseBalance, commission float64) *simulator {
	return &simulator{commission: commission, balance: baseBalance}
}

// apply consumes one signal event at the given execution price (the close
// of the event's candle). Events that do not match the current state
// (ENTER while in a position, EXIT while flat) are ignored.
func (s *simulator) apply(ev domain.SignalEvent, price float64) {
	switch ev.Kind {
	case domain.Enter:
		if !s.inPosition {
			s.enter(ev.Timestamp, price)
		}
	case domain.Exit:
		if s.inPosition {
			s.exit(ev.Timestamp, price)
		}
	}
}

func (s *simulator) enter(t time.Time, price float64) {
	s.inPosition = true
	s.entryTime = t
	s.entryPrice = price
	s.peakClose = price
}

// exit closes the position. Entry cost is price*(1+commission), exit
// proceeds are price*(1-commission); the net return compounds the balance
// and the two commission legs are reported in quote currency relative to
// the position size at entry.
func (s *simulator) exit(t time.Time, price float64) {
	entryCost := s.entryPrice * (1 + s.commission)
	exitProceeds := price * (1 - s.commission)
	netReturn := exitProceeds/entryCost - 1

	units := s.balance / entryCost
	commissionPaid := units * (s.entryPrice + price) * s.commission

	s.trades = append(s.trades, domain.Trade{
		EntryTime:      s.entryTime,
		EntryPrice:     s.entryPrice,
		ExitTime:       t,
		ExitPrice:      price,
		Duration:       t.Sub(s.entryTime),
		GrossReturn:    price/s.entryPrice - 1,
		NetReturn:      netReturn,
		CommissionPaid: commissionPaid,
	})

	s.balance *= 1 + netReturn
	s.inPosition = false
}

// trackPeak records the highest close seen since entry, for the trailing
// stop.
func (s *simulator) trackPeak(close float64) {
	if s.inPosition && close > s.peakClose {
		s.peakClose = close
	}
}

// stopHit reports whether the trailing stop is breached at the given close.
func (s *simulator) stopHit(close, trailingStop float64) bool {
	return s.inPosition && trailingStop > 0 && close < s.peakClose*(1-trailingStop)
}

// markedBalance is the balance for the equity trace: the realized balance,
// or the unrealized liquidation value of the open position when mark-to-
// market accounting is requested.
func (s *simulator) markedBalance(close float64, markToMarket bool) float64 {
	if !markToMarket || !s.inPosition {
		return s.balance
	}
	entryCost := s.entryPrice * (1 + s.commission)
	return s.balance * (close * (1 - s.commission)) / entryCost
}

// openPosition reports the unclosed position at series end, if any.
func (s *simulator) openPosition(lastTime time.Time, lastClose float64) *domain.OpenPosition {
	if !s.inPosition {
		return nil
	}
	return &domain.OpenPosition{
		EntryTime:  s.entryTime,
		EntryPrice: s.entryPrice,
		LastPrice:  lastClose,
		LastTime:   lastTime,
	}
}
