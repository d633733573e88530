package usecase

import (
	"context"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/pkg/logger"
)

// QuoteIngestor pulls quotes from a market stream and applies them to the
// live stock table. Stream errors trigger a reconnect instead of killing
// the loop.
type QuoteIngestor struct {
	stream  drepo.MarketStream
	sink    drepo.QuoteSink
	metrics drepo.Metrics
	log     *logger.Logger
}

// NewQuoteIngestor creates a QuoteIngestor.
func NewQuoteIngestor(stream drepo.MarketStream, sink drepo.QuoteSink, metrics drepo.Metrics, log *logger.Logger) *QuoteIngestor {
	return &QuoteIngestor{stream: stream, sink: sink, metrics: metrics, log: log}
}

// IsConnected reports whether the underlying stream is connected.
func (c *QuoteIngestor) IsConnected() bool {
	return c.stream.IsConnected()
}

// Start connects, subscribes, and launches the consume loop.
func (c *QuoteIngestor) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	qCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, qCh, errCh)
	return nil
}

func (c *QuoteIngestor) consume(ctx context.Context, qCh <-chan *models.QuoteUpdate, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok || err == nil {
				// read loop is gone, wait for reconnect below
				errCh = nil
				continue
			}
			c.log.Warn("stream error, reconnecting", logger.Error(err))
			c.metrics.RecordError("stream")
			for {
				rerr := c.stream.Reconnect(ctx)
				if rerr == nil {
					qCh, errCh = c.stream.Read(ctx)
					break
				}
				c.metrics.RecordError("reconnect")
				c.log.Error("stream reconnect failed", logger.Error(rerr))
				select {
				case <-ctx.Done():
					return
				default:
				}
			}
		case q, ok := <-qCh:
			if !ok {
				qCh = nil
				continue
			}
			if q == nil {
				continue
			}
			c.sink.ApplyQuote(q)
			c.metrics.RecordLastPrice(q.Symbol, q.Price)
		}
	}
}

// Stop closes the market stream.
func (c *QuoteIngestor) Stop() error { return c.stream.Close() }
