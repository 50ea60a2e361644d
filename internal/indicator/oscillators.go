package indicator

import "math"

// computeRSI implements Wilder's relative strength index. The first defined
// value appears at index w (one change is consumed per lookback step), and
// subsequent values use Wilder smoothing of average gain and loss.
func computeRSI(in Input, args []float64) (map[string][]float64, error) {
	if err := argCount("rsi", args, 1, 1); err != nil {
		return nil, err
	}
	w, err := window("rsi", args[0])
	if err != nil {
		return nil, err
	}
	out := onDefined(in.Series, func(xs []float64) []float64 {
		vals := nans(len(xs))
		if len(xs) <= w {
			return vals
		}
		var gain, loss float64
		for i := 1; i <= w; i++ {
			change := xs[i] - xs[i-1]
			if change >= 0 {
				gain += change
			} else {
				loss -= change
			}
		}
		avgGain := gain / float64(w)
		avgLoss := loss / float64(w)
		vals[w] = rsiValue(avgGain, avgLoss)
		for i := w + 1; i < len(xs); i++ {
			change := xs[i] - xs[i-1]
			var g, l float64
			if change > 0 {
				g = change
			} else {
				l = -change
			}
			avgGain = (avgGain*float64(w-1) + g) / float64(w)
			avgLoss = (avgLoss*float64(w-1) + l) / float64(w)
			vals[i] = rsiValue(avgGain, avgLoss)
		}
		return vals
	})
	return map[string][]float64{"": out}, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// computeMACD produces the MACD line (fast EMA - slow EMA), its signal EMA,
// and the histogram. Default periods 12/26/9.
func computeMACD(in Input, args []float64) (map[string][]float64, error) {
	if err := argCount("macd", args, 0, 3); err != nil {
		return nil, err
	}
	fast, slow, signal := 12, 26, 9
	var err error
	if len(args) > 0 {
		if fast, err = window("macd", args[0]); err != nil {
			return nil, err
		}
	}
	if len(args) > 1 {
		if slow, err = window("macd", args[1]); err != nil {
			return nil, err
		}
	}
	if len(args) > 2 {
		if signal, err = window("macd", args[2]); err != nil {
			return nil, err
		}
	}

	fastEMA := emaSeries(in.Series, fast)
	slowEMA := emaSeries(in.Series, slow)
	line := nans(len(in.Series))
	for i := range line {
		if !math.IsNaN(fastEMA[i]) && !math.IsNaN(slowEMA[i]) {
			line[i] = fastEMA[i] - slowEMA[i]
		}
	}
	sig := emaSeries(line, signal)
	hist := nans(len(line))
	for i := range hist {
		if !math.IsNaN(line[i]) && !math.IsNaN(sig[i]) {
			hist[i] = line[i] - sig[i]
		}
	}
	return map[string][]float64{"": line, "signal": sig, "hist": hist}, nil
}

// computeCCI implements the commodity channel index over the typical price
// (H+L+C)/3 with Lambert's 0.015 scaling constant.
func computeCCI(in Input, args []float64) (map[string][]float64, error) {
	if err := argCount("cci", args, 1, 1); err != nil {
		return nil, err
	}
	w, err := window("cci", args[0])
	if err != nil {
		return nil, err
	}
	n := len(in.Close)
	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = (in.High[i] + in.Low[i] + in.Close[i]) / 3
	}
	mean := smaCore(tp, w)
	out := nans(n)
	for i := w - 1; i < n; i++ {
		var dev float64
		for j := i - w + 1; j <= i; j++ {
			dev += math.Abs(tp[j] - mean[i])
		}
		dev /= float64(w)
		if dev == 0 {
			out[i] = 0
			continue
		}
		out[i] = (tp[i] - mean[i]) / (0.015 * dev)
	}
	return map[string][]float64{"": out}, nil
}

// computeStochastic produces %K over the lookback window and %D as an SMA
// of %K. Args: k window, optional d window (default 3).
func computeStochastic(in Input, args []float64) (map[string][]float64, error) {
	if err := argCount("stochastic", args, 1, 2); err != nil {
		return nil, err
	}
	k, err := window("stochastic", args[0])
	if err != nil {
		return nil, err
	}
	d := 3
	if len(args) > 1 {
		if d, err = window("stochastic", args[1]); err != nil {
			return nil, err
		}
	}
	n := len(in.Close)
	pk := nans(n)
	for i := k - 1; i < n; i++ {
		hi := math.Inf(-1)
		lo := math.Inf(1)
		for j := i - k + 1; j <= i; j++ {
			hi = math.Max(hi, in.High[j])
			lo = math.Min(lo, in.Low[j])
		}
		if hi == lo {
			pk[i] = 50
			continue
		}
		pk[i] = (in.Close[i] - lo) / (hi - lo) * 100
	}
	return map[string][]float64{"": pk, "d": smaSeries(pk, d)}, nil
}

// computeADX implements Wilder's average directional index: smoothed
// directional movement ratios into DX, then a Wilder average of DX. The
// first defined value appears at index 2w-1.
func computeADX(in Input, args []float64) (map[string][]float64, error) {
	if err := argCount("adx", args, 1, 1); err != nil {
		return nil, err
	}
	w, err := window("adx", args[0])
	if err != nil {
		return nil, err
	}
	n := len(in.Close)
	out := nans(n)
	if n <= 2*w-1 {
		return map[string][]float64{"": out}, nil
	}

	dx := nans(n)
	var smTR, smPlus, smMinus float64
	for i := 1; i < n; i++ {
		tr := trueRange(in, i)
		up := in.High[i] - in.High[i-1]
		down := in.Low[i-1] - in.Low[i]
		var plusDM, minusDM float64
		if up > down && up > 0 {
			plusDM = up
		}
		if down > up && down > 0 {
			minusDM = down
		}

		if i <= w {
			smTR += tr
			smPlus += plusDM
			smMinus += minusDM
			if i < w {
				continue
			}
		} else {
			smTR = smTR - smTR/float64(w) + tr
			smPlus = smPlus - smPlus/float64(w) + plusDM
			smMinus = smMinus - smMinus/float64(w) + minusDM
		}

		if smTR == 0 {
			dx[i] = 0
			continue
		}
		plusDI := 100 * smPlus / smTR
		minusDI := 100 * smMinus / smTR
		if plusDI+minusDI == 0 {
			dx[i] = 0
			continue
		}
		dx[i] = 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
	}

	// ADX: mean of the first w DX values, then Wilder smoothing.
	var sum float64
	for i := w; i < 2*w; i++ {
		sum += dx[i]
	}
	out[2*w-1] = sum / float64(w)
	for i := 2 * w; i < n; i++ {
		out[i] = (out[i-1]*float64(w-1) + dx[i]) / float64(w)
	}
	return map[string][]float64{"": out}, nil
}
