package indicator

import "math"

// Bands holds the three Bollinger band series, trailing-aligned with the SMA
// of the same period. upper[i] >= middle[i] >= lower[i] for any k >= 0.
type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes Bollinger Bands: middle = SMA(period), upper/lower at
// ±k population standard deviations (divide by period, not period-1).
func Bollinger(prices []float64, period int, k float64) Bands {
	middle := SMA(prices, period)
	upper := make([]float64, len(middle))
	lower := make([]float64, len(middle))

	for i, mean := range middle {
		window := prices[i : i+period]
		var variance float64
		for _, p := range window {
			d := p - mean
			variance += d * d
		}
		variance /= float64(period)
		sd := math.Sqrt(variance)
		upper[i] = mean + k*sd
		lower[i] = mean - k*sd
	}

	return Bands{Upper: upper, Middle: middle, Lower: lower}
}
