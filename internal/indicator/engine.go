package indicator

import (
	"strconv"
	"sync"

	"fasttrade/internal/domain"
	"fasttrade/internal/strategy"
)

// Table maps series names (candle columns and datapoint outputs) to
// candle-aligned value slices. Immutable once Evaluate returns.
type Table map[string][]float64

// Evaluate computes every datapoint over the candle series and returns a
// table containing the raw columns plus all indicator outputs. Datapoints
// are topologically ordered so chained inputs are ready before their
// consumers; independent datapoints within one level run concurrently and
// join before the next level starts.
func Evaluate(candles []domain.Candle, dps []strategy.Datapoint) (Table, error) {
	n := len(candles)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	volume := make([]float64, n)
	for i, c := range candles {
		open[i] = c.Open
		high[i] = c.High
		low[i] = c.Low
		closes[i] = c.Close
		volume[i] = c.Volume
	}

	table := Table{
		"open":   open,
		"high":   high,
		"low":    low,
		"close":  closes,
		"volume": volume,
	}

	sorted, err := strategy.SortDatapoints(dps)
	if err != nil {
		return nil, err
	}

	for _, level := range strategy.Levels(sorted) {
		results := make([]Table, len(level))
		errs := make([]error, len(level))
		var wg sync.WaitGroup
		for i, dp := range level {
			wg.Add(1)
			go func(i int, dp strategy.Datapoint) {
				defer wg.Done()
				results[i], errs[i] = evalDatapoint(table, dp)
			}(i, dp)
		}
		wg.Wait()
		for i := range level {
			if errs[i] != nil {
				return nil, errs[i]
			}
			for name, series := range results[i] {
				table[name] = series
			}
		}
	}
	return table, nil
}

// evalDatapoint computes a single datapoint against the (read-only) table.
func evalDatapoint(table Table, dp strategy.Datapoint) (Table, error) {
	t, ok := registry[dp.Transformer]
	if !ok {
		return nil, domain.ConfigErrorf("datapoints",
			"datapoint %q uses unknown transformer %q", dp.Name, dp.Transformer)
	}

	in := Input{
		Open:   table["open"],
		High:   table["high"],
		Low:    table["low"],
		Close:  table["close"],
		Volume: table["volume"],
		Series: table["close"],
	}

	var args []float64
	for _, raw := range dp.Args {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			args = append(args, v)
			continue
		}
		src, ok := table[raw]
		if !ok {
			return nil, domain.ConfigErrorf("datapoints",
				"datapoint %q references undefined series %q", dp.Name, raw)
		}
		in.Series = src
	}

	computed, err := t.Compute(in, args)
	if err != nil {
		return nil, err
	}

	out := make(Table, len(computed))
	for suffix, series := range computed {
		name := dp.Name
		if suffix != "" {
			name = dp.Name + "_" + suffix
		}
		out[name] = series
	}
	return out, nil
}
