package middleware

import (
	"fmt"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/service/ratelimit"
)

// QuotePipeline sits between the market stream and the stock table. It
// validates quotes and throttles per-symbol update rates so a bursty feed
// cannot monopolize the table lock. Invalid or throttled quotes are counted
// and dropped.
type QuotePipeline struct {
	sink    domrepo.QuoteSink
	metrics domrepo.Metrics
	limiter *ratelimit.Limiter
	maxRPS  float64
}

type PipelineOption func(*QuotePipeline)

// WithMaxRPS sets the max accepted quotes per second per symbol.
func WithMaxRPS(n float64) PipelineOption {
	return func(p *QuotePipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// NewQuotePipeline wraps sink with validation and throttling.
func NewQuotePipeline(sink domrepo.QuoteSink, metrics domrepo.Metrics, opts ...PipelineOption) *QuotePipeline {
	p := &QuotePipeline{
		sink:    sink,
		metrics: metrics,
		limiter: ratelimit.New(),
		maxRPS:  20,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ApplyQuote validates, throttles, and forwards the quote.
func (p *QuotePipeline) ApplyQuote(q *models.QuoteUpdate) {
	if err := validateQuote(q); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return
	}
	if !p.limiter.Allow(q.Symbol, p.maxRPS, p.maxRPS) {
		p.metrics.RecordError("pipeline_throttle")
		return
	}
	p.sink.ApplyQuote(q)
}

func validateQuote(q *models.QuoteUpdate) error {
	if q == nil {
		return fmt.Errorf("quote nil")
	}
	if q.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if q.Price < 0 || q.Volume < 0 {
		return fmt.Errorf("negative price/volume")
	}
	return nil
}
