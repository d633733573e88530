package indicator

// RSI computes the Relative Strength Index over plain rolling means of gains
// and losses (not Wilder's smoothing — kept for numeric compatibility with the
// data the chart layer already renders). Returns len(prices)-period values,
// each in [0, 100]; a window with zero average loss yields 100.
func RSI(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) <= period {
		return []float64{}
	}

	diffs := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		diffs[i-1] = prices[i] - prices[i-1]
	}

	out := make([]float64, 0, len(diffs)-period+1)
	for i := period - 1; i < len(diffs); i++ {
		var gain, loss float64
		for j := i - period + 1; j <= i; j++ {
			if diffs[j] > 0 {
				gain += diffs[j]
			} else {
				loss -= diffs[j]
			}
		}
		avgGain := gain / float64(period)
		avgLoss := loss / float64(period)

		if avgLoss == 0 {
			out = append(out, 100.0)
			continue
		}
		rs := avgGain / avgLoss
		out = append(out, 100.0-100.0/(1.0+rs))
	}
	return out
}
