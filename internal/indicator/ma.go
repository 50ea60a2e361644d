package indicator

import "math"

// smaCore computes a simple moving average over a clean (NaN-free) series.
// The first w-1 positions are NaN.
func smaCore(x []float64, w int) []float64 {
	out := nans(len(x))
	var sum float64
	for i := range x {
		sum += x[i]
		if i >= w {
			sum -= x[i-w]
		}
		if i >= w-1 {
			out[i] = sum / float64(w)
		}
	}
	return out
}

// emaCore computes an exponential moving average seeded with the SMA of the
// first w values, smoothing factor 2/(w+1).
func emaCore(x []float64, w int) []float64 {
	out := nans(len(x))
	if len(x) < w {
		return out
	}
	k := 2.0 / float64(w+1)
	var seed float64
	for i := 0; i < w; i++ {
		seed += x[i]
	}
	out[w-1] = seed / float64(w)
	for i := w; i < len(x); i++ {
		out[i] = (x[i]-out[i-1])*k + out[i-1]
	}
	return out
}

func smaSeries(x []float64, w int) []float64 {
	return onDefined(x, func(xs []float64) []float64 { return smaCore(xs, w) })
}

func emaSeries(x []float64, w int) []float64 {
	return onDefined(x, func(xs []float64) []float64 { return emaCore(xs, w) })
}

func computeSMA(in Input, args []float64) (map[string][]float64, error) {
	if err := argCount("sma", args, 1, 1); err != nil {
		return nil, err
	}
	w, err := window("sma", args[0])
	if err != nil {
		return nil, err
	}
	return map[string][]float64{"": smaSeries(in.Series, w)}, nil
}

func computeEMA(in Input, args []float64) (map[string][]float64, error) {
	if err := argCount("ema", args, 1, 1); err != nil {
		return nil, err
	}
	w, err := window("ema", args[0])
	if err != nil {
		return nil, err
	}
	return map[string][]float64{"": emaSeries(in.Series, w)}, nil
}

// computeZLEMA implements the zero-lag EMA: the input is de-lagged by
// x[i] + (x[i] - x[i-lag]) with lag = (w-1)/2, then smoothed with a
// standard EMA of the same window.
func computeZLEMA(in Input, args []float64) (map[string][]float64, error) {
	if err := argCount("zlema", args, 1, 1); err != nil {
		return nil, err
	}
	w, err := window("zlema", args[0])
	if err != nil {
		return nil, err
	}
	lag := (w - 1) / 2
	adj := nans(len(in.Series))
	for i := range in.Series {
		if i < lag || math.IsNaN(in.Series[i]) || math.IsNaN(in.Series[i-lag]) {
			continue
		}
		adj[i] = 2*in.Series[i] - in.Series[i-lag]
	}
	return map[string][]float64{"": emaSeries(adj, w)}, nil
}

func computeVolumeSMA(in Input, args []float64) (map[string][]float64, error) {
	if err := argCount("volume_sma", args, 1, 1); err != nil {
		return nil, err
	}
	w, err := window("volume_sma", args[0])
	if err != nil {
		return nil, err
	}
	return map[string][]float64{"": smaSeries(in.Volume, w)}, nil
}
