// Package indicator computes named indicator series over a candle series.
// Every transformer produces output aligned index-for-index with its input;
// warm-up positions are NaN, and NaN inputs propagate so that chained
// datapoints stay undefined until their whole pipeline has warmed up.
package indicator

import (
	"math"
	"sort"

	"fasttrade/internal/domain"
)

// Input carries the candle columns plus the resolved input series for one
// transformer evaluation. Series defaults to Close and may instead be any
// column or a previously computed datapoint (chaining).
type Input struct {
	Open, High, Low, Close, Volume []float64
	Series                         []float64
}

// Transformer computes one indicator family. Compute returns series keyed by
// output suffix: "" is the datapoint's own name, any other key k becomes
// name_k (e.g. a datapoint "bands" yields bands, bands_upper, bands_lower).
type Transformer struct {
	Compute func(in Input, args []float64) (map[string][]float64, error)
	Outputs []string
}

var registry = map[string]Transformer{
	"sma":        {Compute: computeSMA, Outputs: []string{""}},
	"ema":        {Compute: computeEMA, Outputs: []string{""}},
	"zlema":      {Compute: computeZLEMA, Outputs: []string{""}},
	"rsi":        {Compute: computeRSI, Outputs: []string{""}},
	"macd":       {Compute: computeMACD, Outputs: []string{"", "signal", "hist"}},
	"bbands":     {Compute: computeBBands, Outputs: []string{"", "upper", "lower"}},
	"atr":        {Compute: computeATR, Outputs: []string{""}},
	"obv":        {Compute: computeOBV, Outputs: []string{""}},
	"adx":        {Compute: computeADX, Outputs: []string{""}},
	"cci":        {Compute: computeCCI, Outputs: []string{""}},
	"stochastic": {Compute: computeStochastic, Outputs: []string{"", "d"}},
	"volume_sma": {Compute: computeVolumeSMA, Outputs: []string{""}},
}

// Has reports whether a transformer with the given name is registered.
func Has(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names returns the sorted list of registered transformer names.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Outputs returns the full series names a datapoint will produce, or nil if
// the transformer is unknown.
func Outputs(transformer, datapointName string) []string {
	t, ok := registry[transformer]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(t.Outputs))
	for _, suffix := range t.Outputs {
		if suffix == "" {
			out = append(out, datapointName)
		} else {
			out = append(out, datapointName+"_"+suffix)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// NaN helpers
// ---------------------------------------------------------------------------

// nans returns a slice of n NaNs.
func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// firstDefined returns the index of the first non-NaN value, or len(x).
func firstDefined(x []float64) int {
	for i, v := range x {
		if !math.IsNaN(v) {
			return i
		}
	}
	return len(x)
}

// onDefined runs core on the defined suffix of x and pads the warm-up back,
// so every single-series transformer handles chained NaN inputs uniformly.
func onDefined(x []float64, core func([]float64) []float64) []float64 {
	off := firstDefined(x)
	out := nans(len(x))
	copy(out[off:], core(x[off:]))
	return out
}

func argCount(transformer string, args []float64, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return domain.ConfigErrorf("datapoints", "%s expects %d numeric args, got %d", transformer, min, len(args))
		}
		return domain.ConfigErrorf("datapoints", "%s expects %d to %d numeric args, got %d", transformer, min, max, len(args))
	}
	return nil
}

func window(transformer string, v float64) (int, error) {
	w := int(v)
	if float64(w) != v || w <= 0 {
		return 0, domain.ConfigErrorf("datapoints", "%s window must be a positive integer, got %v", transformer, v)
	}
	return w, nil
}
