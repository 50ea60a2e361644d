package domain

import "fmt"

// ConfigurationError reports a malformed strategy: an unknown transformer,
// a cyclic datapoint dependency, a non-positive confirmation window, and so
// on. It is raised before simulation starts and surfaced verbatim.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("strategy configuration: %s", e.Reason)
	}
	return fmt.Sprintf("strategy configuration: %s: %s", e.Field, e.Reason)
}

// ConfigErrorf creates a ConfigurationError for the given strategy field.
func ConfigErrorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DataError reports an unusable candle series: empty input, non-monotonic
// timestamps, or non-positive prices. The engine never gap-fills or
// interpolates; a bad series fails the whole run.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return "candle data: " + e.Reason
}

// DataErrorf creates a DataError.
func DataErrorf(format string, args ...any) *DataError {
	return &DataError{Reason: fmt.Sprintf(format, args...)}
}

// ValidateCandles checks the invariants the engine assumes: a non-empty
// series with strictly increasing timestamps and positive close prices.
func ValidateCandles(candles []Candle) error {
	if len(candles) == 0 {
		return DataErrorf("empty candle series")
	}
	for i, c := range candles {
		if c.Close <= 0 {
			return DataErrorf("non-positive close %v at index %d", c.Close, i)
		}
		if i > 0 && !c.Timestamp.After(candles[i-1].Timestamp) {
			return DataErrorf("non-monotonic timestamp at index %d: %s !> %s",
				i, c.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
				candles[i-1].Timestamp.UTC().Format("2006-01-02T15:04:05Z"))
		}
	}
	return nil
}
