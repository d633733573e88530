package models

// TaskKind identifies which engine handler a task is routed to.
type TaskKind string

const (
	KindComputeIndicators  TaskKind = "ComputeIndicators"
	KindProcessBulk        TaskKind = "ProcessBulk"
	KindFilterSort         TaskKind = "FilterSort"
	KindAggregatePortfolio TaskKind = "AggregatePortfolio"
)

// TaskPayload is the sealed payload union. Each concrete payload pins the task
// kind it belongs to, so a kind/payload mismatch cannot be constructed from Go
// code; string kinds only enter through the wire envelope.
type TaskPayload interface {
	Kind() TaskKind
}

// IndicatorsPayload carries a price series plus the indicator identifiers to
// compute (SMA_20, SMA_50, EMA_12, EMA_26, RSI, BOLLINGER, MACD).
type IndicatorsPayload struct {
	Points     []PricePoint `json:"points"`
	Indicators []string     `json:"indicators"`
}

func (IndicatorsPayload) Kind() TaskKind { return KindComputeIndicators }

// BulkPayload carries records plus filter/sort/search options. It serves both
// ProcessBulk and FilterSort; the two kinds share semantics.
type BulkPayload struct {
	Records []StockRecord     `json:"records"`
	Options FilterSortOptions `json:"options"`
	AsKind  TaskKind          `json:"-"`
}

func (p BulkPayload) Kind() TaskKind {
	if p.AsKind == KindFilterSort {
		return KindFilterSort
	}
	return KindProcessBulk
}

// PortfolioPayload carries records plus the caller's holdings map.
type PortfolioPayload struct {
	Records  []StockRecord      `json:"records"`
	Holdings map[string]float64 `json:"holdings"`
}

func (PortfolioPayload) Kind() TaskKind { return KindAggregatePortfolio }

// FilterSortOptions configures the record pipeline: search, then filters, then
// sort. Zero values disable each stage.
type FilterSortOptions struct {
	SortBy      string   `json:"sortBy,omitempty"`
	SortOrder   string   `json:"sortOrder,omitempty"` // "asc" or "desc"
	Search      string   `json:"search,omitempty"`
	MinPrice    *float64 `json:"minPrice,omitempty"`
	MaxPrice    *float64 `json:"maxPrice,omitempty"`
	GainersOnly bool     `json:"gainersOnly,omitempty"`
	LosersOnly  bool     `json:"losersOnly,omitempty"`
}

// Task is one unit of engine work. ID is caller-supplied and echoed on the
// result; uniqueness is a caller contract.
type Task struct {
	ID      string
	Payload TaskPayload
}

// Result is the correlated outcome of a task. Exactly one of Value / Error is
// meaningful depending on Success.
type Result struct {
	ID               string      `json:"id"`
	Success          bool        `json:"success"`
	Value            interface{} `json:"result,omitempty"`
	Error            string      `json:"error,omitempty"`
	ErrorKind        string      `json:"errorKind,omitempty"`
	ProcessingTimeMs float64     `json:"processingTimeMs"`
}

// IndicatorsResult is the ComputeIndicators output shape.
type IndicatorsResult struct {
	ProcessedData       []PricePoint    `json:"processedData"`
	TechnicalIndicators IndicatorSeries `json:"technicalIndicators"`
}

// HoldingPerformance is one portfolio line in the gainer/loser rankings.
type HoldingPerformance struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Shares         float64 `json:"shares"`
	CurrentPrice   float64 `json:"currentPrice"`
	PriceChangePct float64 `json:"priceChangePct"`
}

// PortfolioSummary is the AggregatePortfolio output shape.
type PortfolioSummary struct {
	TotalValue   float64              `json:"totalValue"`
	TotalGain    float64              `json:"totalGain"`
	TotalGainPct float64              `json:"totalGainPct"`
	TopGainers   []HoldingPerformance `json:"topGainers"`
	TopLosers    []HoldingPerformance `json:"topLosers"`
}
