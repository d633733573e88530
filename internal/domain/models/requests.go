package models

// Requests for engine HTTP endpoints. Defined in domain for consistency and reuse.

// IndicatorsRequest submits a ComputeIndicators task. When Points is empty the
// handler loads candles for Symbol from the history store instead.
type IndicatorsRequest struct {
	Symbol     string       `query:"symbol" json:"symbol"`
	N          int          `query:"n" json:"n" default:"200" validate:"gte=0,lte=10000"`
	Points     []PricePoint `json:"points" validate:"max=10000"`
	Indicators []string     `json:"indicators" validate:"required,min=1,dive,oneof=SMA_20 SMA_50 EMA_12 EMA_26 RSI BOLLINGER MACD"`
}

// FilterRequest submits a FilterSort task over the supplied records, or over
// the live stock table when Records is empty.
type FilterRequest struct {
	Records []StockRecord     `json:"records"`
	Options FilterSortOptions `json:"options"`
}

// PortfolioRequest submits an AggregatePortfolio task.
type PortfolioRequest struct {
	Records  []StockRecord      `json:"records"`
	Holdings map[string]float64 `json:"holdings" validate:"required"`
}

// WatchlistRequest adds or removes a code on a user's watchlist.
type WatchlistRequest struct {
	Code string `json:"code" validate:"required,min=1,max=16"`
}

// StocksRequest filters the live table via query parameters.
type StocksRequest struct {
	Search      string  `query:"search" json:"search"`
	SortBy      string  `query:"sortBy" json:"sortBy" default:"code" validate:"oneof=code name currentPrice priceChange priceChangePct volume marketCap sector"`
	SortOrder   string  `query:"sortOrder" json:"sortOrder" default:"asc" validate:"oneof=asc desc"`
	MinPrice    float64 `query:"minPrice" json:"minPrice" validate:"gte=0"`
	MaxPrice    float64 `query:"maxPrice" json:"maxPrice" validate:"gte=0"`
	GainersOnly bool    `query:"gainersOnly" json:"gainersOnly"`
	LosersOnly  bool    `query:"losersOnly" json:"losersOnly"`
}
