package models

import "time"

// PricePoint is a single OHLCV bar. Ordering of a series is caller-defined;
// the engine computes in input order and does not assume sortedness.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// StockRecord is one row of the watch table. PriceChange is expected to equal
// CurrentPrice - previous close; that invariant is maintained by the ingest
// layer, not enforced here.
type StockRecord struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	CurrentPrice   float64 `json:"currentPrice"`
	PriceChange    float64 `json:"priceChange"`
	PriceChangePct float64 `json:"priceChangePct"`
	Volume         float64 `json:"volume"`
	MarketCap      float64 `json:"marketCap,omitempty"`
	Sector         string  `json:"sector,omitempty"`
}

// QuoteUpdate is a live tick from the market stream.
type QuoteUpdate struct {
	Symbol    string  `json:"s"`
	Price     float64 `json:"p"`
	Volume    float64 `json:"v"`
	Timestamp int64   `json:"t"` // unix milliseconds
}

// IndicatorSeries maps an indicator name (sma20, rsi, macdSignal, ...) to its
// value sequence. Sequences may be shorter than the input series; consumers
// align by trailing offset, not by index equality.
type IndicatorSeries map[string][]float64
