package indicator

// MACDResult holds the MACD line, its signal line, and the histogram. The
// three series start at different input offsets; Histogram[i] equals
// Line[i+signalPeriod-1] - Signal[i] exactly.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes Moving Average Convergence Divergence. The fast and slow EMA
// series are aligned to a common start index with offset = slow - fast before
// subtracting; getting this shift wrong produces plausible but wrong values,
// so it is covered by an exact-equality test.
func MACD(prices []float64, fast, slow, signalPeriod int) MACDResult {
	if fast <= 0 || slow <= 0 || signalPeriod <= 0 || fast >= slow {
		return MACDResult{Line: []float64{}, Signal: []float64{}, Histogram: []float64{}}
	}

	emaFast := EMA(prices, fast)
	emaSlow := EMA(prices, slow)
	if len(emaSlow) == 0 {
		return MACDResult{Line: []float64{}, Signal: []float64{}, Histogram: []float64{}}
	}

	offset := slow - fast
	line := make([]float64, len(emaSlow))
	for i := range emaSlow {
		line[i] = emaFast[i+offset] - emaSlow[i]
	}

	signal := EMA(line, signalPeriod)

	histogram := make([]float64, len(signal))
	for i := range signal {
		histogram[i] = line[i+signalPeriod-1] - signal[i]
	}

	return MACDResult{Line: line, Signal: signal, Histogram: histogram}
}
