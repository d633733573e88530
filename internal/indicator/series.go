package indicator

import (
	"StockPulse/internal/domain/models"
)

// Defaults used when computing by identifier.
const (
	DefaultRSIPeriod  = 14
	DefaultBandPeriod = 20
	DefaultBandWidth  = 2.0
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// Compute builds an IndicatorSeries from the requested indicator identifiers
// (SMA_20, SMA_50, EMA_12, EMA_26, RSI, BOLLINGER, MACD). Unknown identifiers
// are skipped; repeated identifiers overwrite their own keys, so the call is
// idempotent.
func Compute(points []models.PricePoint, ids []string) models.IndicatorSeries {
	closes := Closes(points)
	series := make(models.IndicatorSeries)

	for _, id := range ids {
		switch id {
		case "SMA_20":
			series["sma20"] = SMA(closes, 20)
		case "SMA_50":
			series["sma50"] = SMA(closes, 50)
		case "EMA_12":
			series["ema12"] = EMA(closes, 12)
		case "EMA_26":
			series["ema26"] = EMA(closes, 26)
		case "RSI":
			series["rsi"] = RSI(closes, DefaultRSIPeriod)
		case "BOLLINGER":
			bands := Bollinger(closes, DefaultBandPeriod, DefaultBandWidth)
			series["bbUpper"] = bands.Upper
			series["bbMiddle"] = bands.Middle
			series["bbLower"] = bands.Lower
		case "MACD":
			m := MACD(closes, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
			series["macd"] = m.Line
			series["macdSignal"] = m.Signal
			series["macdHistogram"] = m.Histogram
		}
	}
	return series
}

// Closes extracts the close column from a price series.
func Closes(points []models.PricePoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}
	return closes
}
