// Package indicator provides batch technical indicator calculations over a
// price series. All functions are pure: no I/O, no state across calls.
//
// Output sequences are trailing-aligned and may be shorter than the input;
// degenerate inputs (empty series, non-positive period, period longer than the
// series) yield an empty sequence, never an error or NaN.
package indicator

// SMA computes the simple moving average over a trailing window.
// Returns len(prices)-period+1 values.
func SMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}
	out := make([]float64, 0, len(prices)-period+1)
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}

// EMA computes the exponential moving average, seeded with the SMA of the
// first window. Returns len(prices)-period+1 values; the first corresponds to
// input index period-1.
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}
	out := make([]float64, 0, len(prices)-period+1)

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += prices[i]
	}
	seed /= float64(period)
	out = append(out, seed)

	multiplier := 2.0 / float64(period+1)
	prev := seed
	for i := period; i < len(prices); i++ {
		prev = prev + (prices[i]-prev)*multiplier
		out = append(out, prev)
	}
	return out
}
