package middleware

import (
	"testing"

	"StockPulse/internal/domain/models"
)

type captureSink struct {
	quotes []*models.QuoteUpdate
}

func (s *captureSink) ApplyQuote(q *models.QuoteUpdate) {
	s.quotes = append(s.quotes, q)
}

type countingMetrics struct {
	errors map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{errors: make(map[string]int)}
}

func (m *countingMetrics) RecordTask(string, bool)            {}
func (m *countingMetrics) RecordError(kind string)            { m.errors[kind]++ }
func (m *countingMetrics) RecordTaskDuration(string, float64) {}
func (m *countingMetrics) RecordQueueDepth(int)               {}
func (m *countingMetrics) RecordLastPrice(string, float64)    {}

func TestPipelineForwardsValidQuote(t *testing.T) {
	sink := &captureSink{}
	m := newCountingMetrics()
	p := NewQuotePipeline(sink, m)

	q := &models.QuoteUpdate{Symbol: "AAPL", Price: 191.5, Volume: 100, Timestamp: 1756400000000}
	p.ApplyQuote(q)

	if len(sink.quotes) != 1 {
		t.Fatalf("expected 1 forwarded quote, got %d", len(sink.quotes))
	}
	if sink.quotes[0] != q {
		t.Error("quote was not forwarded as-is")
	}
	if len(m.errors) != 0 {
		t.Errorf("unexpected errors recorded: %v", m.errors)
	}
}

func TestPipelineDropsInvalidQuotes(t *testing.T) {
	sink := &captureSink{}
	m := newCountingMetrics()
	p := NewQuotePipeline(sink, m)

	p.ApplyQuote(nil)
	p.ApplyQuote(&models.QuoteUpdate{Symbol: "", Price: 10})
	p.ApplyQuote(&models.QuoteUpdate{Symbol: "AAPL", Price: -1})
	p.ApplyQuote(&models.QuoteUpdate{Symbol: "AAPL", Price: 10, Volume: -5})

	if len(sink.quotes) != 0 {
		t.Fatalf("invalid quotes reached the sink: %d", len(sink.quotes))
	}
	if m.errors["pipeline_validate"] != 4 {
		t.Errorf("expected 4 validation errors, got %d", m.errors["pipeline_validate"])
	}
}

func TestPipelineThrottlesBursts(t *testing.T) {
	sink := &captureSink{}
	m := newCountingMetrics()
	p := NewQuotePipeline(sink, m, WithMaxRPS(5))

	for i := 0; i < 20; i++ {
		p.ApplyQuote(&models.QuoteUpdate{Symbol: "TSLA", Price: 250, Volume: 1})
	}

	if len(sink.quotes) > 6 {
		t.Errorf("burst was not throttled: %d quotes passed", len(sink.quotes))
	}
	if m.errors["pipeline_throttle"] == 0 {
		t.Error("expected throttle drops to be recorded")
	}

	// a different symbol has its own bucket
	p.ApplyQuote(&models.QuoteUpdate{Symbol: "NVDA", Price: 120, Volume: 1})
	if sink.quotes[len(sink.quotes)-1].Symbol != "NVDA" {
		t.Error("independent symbol should not be throttled")
	}
}
