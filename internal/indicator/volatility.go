package indicator

import "math"

// trueRange returns max(H-L, |H-prevC|, |L-prevC|) for index i >= 1.
func trueRange(in Input, i int) float64 {
	hl := in.High[i] - in.Low[i]
	hc := math.Abs(in.High[i] - in.Close[i-1])
	lc := math.Abs(in.Low[i] - in.Close[i-1])
	return math.Max(hl, math.Max(hc, lc))
}

// computeATR implements Wilder's average true range: the first value at
// index w is the mean of the first w true ranges, then Wilder smoothing.
func computeATR(in Input, args []float64) (map[string][]float64, error) {
	if err := argCount("atr", args, 1, 1); err != nil {
		return nil, err
	}
	w, err := window("atr", args[0])
	if err != nil {
		return nil, err
	}
	n := len(in.Close)
	out := nans(n)
	if n <= w {
		return map[string][]float64{"": out}, nil
	}
	var sum float64
	for i := 1; i <= w; i++ {
		sum += trueRange(in, i)
	}
	out[w] = sum / float64(w)
	for i := w + 1; i < n; i++ {
		out[i] = (out[i-1]*float64(w-1) + trueRange(in, i)) / float64(w)
	}
	return map[string][]float64{"": out}, nil
}

// computeBBands produces Bollinger Bands: the primary output is the middle
// band (SMA), with _upper and _lower at ±k population standard deviations.
// Args: window, optional k (default 2).
func computeBBands(in Input, args []float64) (map[string][]float64, error) {
	if err := argCount("bbands", args, 1, 2); err != nil {
		return nil, err
	}
	w, err := window("bbands", args[0])
	if err != nil {
		return nil, err
	}
	k := 2.0
	if len(args) > 1 {
		k = args[1]
	}

	n := len(in.Series)
	middle := smaSeries(in.Series, w)
	upper := nans(n)
	lower := nans(n)
	off := firstDefined(in.Series)
	var sum, sum2 float64
	for i := off; i < n; i++ {
		v := in.Series[i]
		sum += v
		sum2 += v * v
		if i >= off+w {
			old := in.Series[i-w]
			sum -= old
			sum2 -= old * old
		}
		if i < off+w-1 {
			continue
		}
		m := sum / float64(w)
		variance := sum2/float64(w) - m*m
		if variance < 0 {
			variance = 0
		}
		sd := math.Sqrt(variance)
		upper[i] = m + k*sd
		lower[i] = m - k*sd
	}
	return map[string][]float64{"": middle, "upper": upper, "lower": lower}, nil
}

// computeOBV accumulates on-balance volume from the first candle. OBV has no
// warm-up: index 0 is defined as 0.
func computeOBV(in Input, args []float64) (map[string][]float64, error) {
	if err := argCount("obv", args, 0, 0); err != nil {
		return nil, err
	}
	n := len(in.Close)
	out := make([]float64, n)
	for i := 1; i < n; i++ {
		switch {
		case in.Close[i] > in.Close[i-1]:
			out[i] = out[i-1] + in.Volume[i]
		case in.Close[i] < in.Close[i-1]:
			out[i] = out[i-1] - in.Volume[i]
		default:
			out[i] = out[i-1]
		}
	}
	return map[string][]float64{"": out}, nil
}
