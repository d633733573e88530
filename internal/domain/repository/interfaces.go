package repository

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
)

// MarketStream is a live quote source (WebSocket or replay).
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.QuoteUpdate, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// HistoryStore provides read-only access to historical candles.
type HistoryStore interface {
	Candles(ctx context.Context, symbol string, from, to time.Time, tf Timeframe) ([]models.PricePoint, error)
	LatestCandles(ctx context.Context, symbol string, n int, tf Timeframe) ([]models.PricePoint, error)
}

// Watchlist stores per-user sets of stock codes.
type Watchlist interface {
	Add(ctx context.Context, user, code string) error
	Remove(ctx context.Context, user, code string) error
	List(ctx context.Context, user string) ([]string, error)
}

// QuoteSink receives live quote updates, typically an in-memory stock table.
type QuoteSink interface {
	ApplyQuote(q *models.QuoteUpdate)
}

// ResultPublisher publishes completed engine results for downstream consumers.
type ResultPublisher interface {
	Publish(ctx context.Context, res *models.Result) error
	Close() error
}

// Metrics records engine and ingest observability signals.
type Metrics interface {
	RecordTask(kind string, success bool)
	RecordError(kind string)
	RecordTaskDuration(kind string, seconds float64)
	RecordQueueDepth(depth int)
	RecordLastPrice(symbol string, price float64)
}
