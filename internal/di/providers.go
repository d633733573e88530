package di

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	drepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/handler/api"
	mid "StockPulse/internal/middleware"
	internalrepo "StockPulse/internal/repository"
	"StockPulse/internal/service/stream"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	pkgkafka "StockPulse/pkg/kafka"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideRedisClient creates a shared Redis client, or nil when disabled.
func ProvideRedisClient(cfg *config.Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// ProvideClickHouseClient creates a ClickHouse client with the candle schema,
// or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS stockpulse",
		"CREATE TABLE IF NOT EXISTS stockpulse.candles_1m (symbol String, bucket DateTime, open Float64, high Float64, low Float64, close Float64, vol Float64) ENGINE=MergeTree ORDER BY (symbol, bucket)",
		"CREATE TABLE IF NOT EXISTS stockpulse.candles_1h (symbol String, bucket DateTime, open Float64, high Float64, low Float64, close Float64, vol Float64) ENGINE=MergeTree ORDER BY (symbol, bucket)",
		"CREATE TABLE IF NOT EXISTS stockpulse.candles_1d (symbol String, bucket DateTime, open Float64, high Float64, low Float64, close Float64, vol Float64) ENGINE=MergeTree ORDER BY (symbol, bucket)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer, or nil when disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.QuotesTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideResultCache builds the indicator-result cache: layered when Redis is
// available, in-memory otherwise, nil when caching is disabled.
func ProvideResultCache(cfg *config.Config, redisClient *redis.Client) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if cfg.Redis.Enabled && redisClient != nil {
		host, port := splitAddr(cfg.Redis.Addr)
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(host),
			cache.WithRedisPort(port),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.MaxItems)), nil
	}
	return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxItems)), nil
}

// ProvideStockTable creates the live in-memory stock table.
func ProvideStockTable() *internalrepo.StockTable {
	return internalrepo.NewStockTable(nil)
}

// ProvideWatchlist creates the Redis watchlist store, or nil without Redis.
func ProvideWatchlist(client *redis.Client) drepo.Watchlist {
	if client == nil {
		return nil
	}
	return internalrepo.NewRedisWatchlist(client)
}

// ProvideHistoryStore creates the ClickHouse history store, or nil without
// ClickHouse.
func ProvideHistoryStore(ch *pkgch.Client, lgr *logger.Logger) drepo.HistoryStore {
	if ch == nil {
		return nil
	}
	store := internalrepo.NewCHHistoryStore(ch)
	store.SetLogger(lgr)
	return store
}

// ProvideResultPublisher creates the Kafka result publisher, or nil without a
// producer.
func ProvideResultPublisher(producer *pkgkafka.Producer, cfg *config.Config) drepo.ResultPublisher {
	if producer == nil || cfg.Kafka.ResultsTopic == "" {
		return nil
	}
	return internalrepo.NewKafkaResultPublisher(producer, cfg.Kafka.ResultsTopic)
}

// ProvideMarketStream creates the WebSocket quote stream, or nil when
// disabled.
func ProvideMarketStream(cfg *config.Config, lgr *logger.Logger) drepo.MarketStream {
	if !cfg.Stream.Enabled {
		return nil
	}
	return stream.New(
		cfg.Stream.APIKey,
		cfg.Stream.URL,
		cfg.Stream.Symbols,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
		lgr,
	)
}

// ProvideDispatcher creates the task dispatcher.
func ProvideDispatcher(lgr *logger.Logger, m drepo.Metrics) *usecase.Dispatcher {
	return usecase.NewDispatcher(lgr, m)
}

// ProvideEngineWorker creates the single-consumer engine worker.
func ProvideEngineWorker(lgr *logger.Logger, d *usecase.Dispatcher, m drepo.Metrics, pub drepo.ResultPublisher, cfg *config.Config) *usecase.EngineWorker {
	w := usecase.NewEngineWorker(lgr, d, m, usecase.WorkerConfig{
		QueueSize:    cfg.Engine.QueueSize,
		ResultBuffer: cfg.Engine.ResultBuffer,
	})
	if pub != nil {
		w.WithPublisher(pub)
	}
	return w
}

// ProvideEngineService creates the request-facing engine front.
func ProvideEngineService(lgr *logger.Logger, w *usecase.EngineWorker, c cache.Service, cfg *config.Config) *usecase.EngineService {
	return usecase.NewEngineService(lgr, w, c, cfg.Cache.ResultTTL)
}

// ProvideQuoteIngestor creates the stream ingest loop, or nil without a
// stream. The stream feeds the table through a validating, throttling
// pipeline.
func ProvideQuoteIngestor(s drepo.MarketStream, table *internalrepo.StockTable, m drepo.Metrics, lgr *logger.Logger) *usecase.QuoteIngestor {
	if s == nil {
		return nil
	}
	pipe := mid.NewQuotePipeline(table, m, mid.WithMaxRPS(50))
	return usecase.NewQuoteIngestor(s, pipe, m, lgr)
}

// ProvideQuoteTopicHandler creates the Kafka quote handler, or nil when the
// quotes topic is not configured.
func ProvideQuoteTopicHandler(cfg *config.Config, table *internalrepo.StockTable, m drepo.Metrics) pkgkafka.MessageHandler {
	if cfg.Kafka.QuotesTopic == "" {
		return nil
	}
	return usecase.NewQuoteTopicHandler(cfg.Kafka.QuotesTopic, table, m)
}

// ProvideHTTPHandler assembles the API route registrar.
func ProvideHTTPHandler(
	lgr *logger.Logger,
	engine *usecase.EngineService,
	history drepo.HistoryStore,
	table *internalrepo.StockTable,
	watchlist drepo.Watchlist,
	cfg *config.Config,
) xhttp.Handler {
	engineH := api.NewEngineHandler(lgr, engine, history, table, cfg.Engine.ResultTimeout)
	marketH := api.NewMarketHandler(lgr, table, watchlist)
	var historyH *api.HistoryHandler
	if history != nil {
		historyH = api.NewHistoryHandler(lgr, usecase.NewCandlesUseCase(history))
	}
	return api.NewRouter(engineH, marketH, historyH)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *logger.Logger,
	engine *usecase.EngineService,
	ingestor *usecase.QuoteIngestor,
	consumer *pkgkafka.Consumer,
	quotes pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, lgr, engine, ingestor, consumer, quotes, chClient, handler)
}

func splitAddr(addr string) (string, int) {
	host, portStr, found := strings.Cut(addr, ":")
	if !found {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 6379
	}
	return host, port
}
