package signal

// Confirmer is the per-rule confirmation state machine. It counts
// consecutive true candles; when the count first reaches the window the
// rule fires, and the Confirmer stays armed and suppresses further fires
// until the predicate goes false, which resets the count to zero.
type Confirmer struct {
	window int
	count  int
	armed  bool
}

// NewConfirmer creates a Confirmer requiring window consecutive true
// candles. Window must be positive; validation enforces this upstream.
func NewConfirmer(window int) *Confirmer {
	return &Confirmer{window: window}
}

// Step advances the machine with one candle's predicate value. It returns
// true exactly once per confirmed run: on the candle where the consecutive
// count first reaches the window.
func (c *Confirmer) Step(holds bool) bool {
	if !holds {
		c.count = 0
		c.armed = false
		return false
	}
	if c.armed {
		return false
	}
	c.count++
	if c.count >= c.window {
		c.armed = true
		return true
	}
	return false
}
