package gather

import (
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

func TestSupportedInterval(t *testing.T) {
	for _, iv := range []string{"1m", "15m", "1h", "1d", "1w", "1M"} {
		if !SupportedInterval(iv) {
			t.Errorf("SupportedInterval(%q) = false, want true", iv)
		}
	}
	for _, iv := range []string{"", "2m", "1y", "daily"} {
		if SupportedInterval(iv) {
			t.Errorf("SupportedInterval(%q) = true, want false", iv)
		}
	}
}

func TestIntervalDurations(t *testing.T) {
	if Intervals["1h"] != time.Hour {
		t.Errorf("Intervals[1h] = %v, want 1h", Intervals["1h"])
	}
	if Intervals["1d"] != 24*time.Hour {
		t.Errorf("Intervals[1d] = %v, want 24h", Intervals["1d"])
	}
	if Intervals["1M"] != 30*24*time.Hour {
		t.Errorf("Intervals[1M] = %v, want 30 days", Intervals["1M"])
	}
}

func TestTimeFrame(t *testing.T) {
	cases := []struct {
		interval string
		want     marketdata.TimeFrame
	}{
		{"1m", marketdata.NewTimeFrame(1, marketdata.Min)},
		{"15m", marketdata.NewTimeFrame(15, marketdata.Min)},
		{"4h", marketdata.NewTimeFrame(4, marketdata.Hour)},
		{"3d", marketdata.NewTimeFrame(3, marketdata.Day)},
		{"1w", marketdata.NewTimeFrame(1, marketdata.Week)},
		{"1M", marketdata.NewTimeFrame(1, marketdata.Month)},
	}
	for _, tc := range cases {
		got, err := timeFrame(tc.interval)
		if err != nil {
			t.Errorf("timeFrame(%q): %v", tc.interval, err)
			continue
		}
		if got != tc.want {
			t.Errorf("timeFrame(%q) = %v, want %v", tc.interval, got, tc.want)
		}
	}

	for _, bad := range []string{"", "m", "15", "15x", "0m"} {
		if _, err := timeFrame(bad); err == nil {
			t.Errorf("timeFrame(%q) = nil error, want error", bad)
		}
	}
}

func TestCryptoFeed(t *testing.T) {
	if cryptoFeed("") != marketdata.US {
		t.Errorf("cryptoFeed(\"\") = %v, want US", cryptoFeed(""))
	}
	if cryptoFeed("US") != marketdata.US {
		t.Errorf("cryptoFeed(US) = %v, want US", cryptoFeed("US"))
	}
	if cryptoFeed("global") != marketdata.CryptoFeed("global") {
		t.Errorf("cryptoFeed(global) = %v, want passthrough", cryptoFeed("global"))
	}
}
