package usecase

import (
	"context"
	"encoding/json"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	pkgkafka "StockPulse/pkg/kafka"
)

// QuoteTopicHandler consumes quote messages from Kafka and applies them to
// the live stock table. It lets deployments feed the table from a broker
// instead of (or alongside) the WebSocket stream.
type QuoteTopicHandler struct {
	topic   string
	sink    drepo.QuoteSink
	metrics drepo.Metrics
}

func NewQuoteTopicHandler(topic string, sink drepo.QuoteSink, metrics drepo.Metrics) *QuoteTopicHandler {
	return &QuoteTopicHandler{topic: topic, sink: sink, metrics: metrics}
}

func (h *QuoteTopicHandler) Topic() string { return h.topic }

// incoming message schema: {s, p, v, t}
func (h *QuoteTopicHandler) Handle(ctx context.Context, b []byte) error {
	var q models.QuoteUpdate
	if err := json.Unmarshal(b, &q); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if q.Symbol == "" {
		h.metrics.RecordError("consumer_empty_symbol")
		return nil
	}
	if q.Timestamp != 0 && q.Timestamp < 1e11 { // seconds, normalize to ms
		q.Timestamp *= 1000
	}
	h.sink.ApplyQuote(&q)
	h.metrics.RecordLastPrice(q.Symbol, q.Price)
	return nil
}

var _ pkgkafka.MessageHandler = (*QuoteTopicHandler)(nil)
