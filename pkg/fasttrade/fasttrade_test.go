package fasttrade

import (
	"testing"
	"time"
)

const doc = `
name: breakout
base_balance: 2000
datapoints:
  - name: trend
    transformer: sma
    args: ["3"]
enter:
  - ["close", ">", "trend"]
exit:
  - ["close", "<", "trend"]
`

func TestParseValidateRun(t *testing.T) {
	spec, err := ParseStrategy([]byte(doc))
	if err != nil {
		t.Fatalf("ParseStrategy: %v", err)
	}
	if errs := Validate(spec); len(errs) != 0 {
		t.Fatalf("Validate = %v, want no errors", errs)
	}

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	closes := []float64{10, 10, 10, 12, 13, 9, 9}
	candles := make([]Candle, len(closes))
	for i, c := range closes {
		candles[i] = Candle{
			Timestamp: t0.Add(time.Duration(i) * time.Minute),
			Open:      c, High: c + 1, Low: c - 1, Close: c, Volume: 100,
		}
	}

	result, err := Run(spec, candles)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(result.Trades))
	}
	if result.Summary.BaseBalance != 2000 {
		t.Errorf("BaseBalance = %v, want 2000", result.Summary.BaseBalance)
	}
	if len(result.Equity) != len(candles) {
		t.Errorf("equity length = %d, want %d", len(result.Equity), len(candles))
	}
}

func TestValidateReportsErrors(t *testing.T) {
	spec, err := ParseStrategy([]byte(`{"enter": [["ghost", ">", "1"]], "exit": [["close", "<", "1"]]}`))
	if err != nil {
		t.Fatalf("ParseStrategy: %v", err)
	}
	if errs := Validate(spec); len(errs) == 0 {
		t.Fatal("Validate = no errors, want unknown series reported")
	}
}
