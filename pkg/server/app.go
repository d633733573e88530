package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"StockPulse/internal/usecase"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
)

// App owns the application lifecycle: engine, quote ingest, Kafka consumer,
// and HTTP server, started together and shut down in reverse order.
type App struct {
	cfg      *config.Config
	log      *applogger.Logger
	engine   *usecase.EngineService
	ingestor *usecase.QuoteIngestor
	consumer *pkgkafka.Consumer
	quotes   pkgkafka.MessageHandler
	chClient *pkgch.Client
	handler  xhttp.Handler

	httpServer *xhttp.Server
}

// New creates an App. ingestor, consumer, quotes, and chClient may be nil
// when the corresponding subsystem is disabled in config.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	engine *usecase.EngineService,
	ingestor *usecase.QuoteIngestor,
	consumer *pkgkafka.Consumer,
	quotes pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		engine:   engine,
		ingestor: ingestor,
		consumer: consumer,
		quotes:   quotes,
		chClient: chClient,
		handler:  handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.engine.Start(); err != nil {
		return err
	}
	a.log.Info("engine started",
		applogger.Int("queue_size", a.cfg.Engine.QueueSize))

	if a.ingestor != nil {
		if err := a.ingestor.Start(ctx); err != nil {
			a.log.Error("quote ingest start failed", applogger.Error(err))
		} else {
			a.log.Info("quote ingest started",
				applogger.Strings("symbols", a.cfg.Stream.Symbols))
		}
	}

	if a.consumer != nil && a.quotes != nil {
		a.consumer.RegisterHandler(a.quotes)
		if err := a.consumer.Start(); err != nil {
			a.log.Error("kafka consumer start failed", applogger.Error(err))
		} else {
			a.log.Info("kafka consumer started",
				applogger.String("topic", a.quotes.Topic()))
		}
	}

	a.httpServer = xhttp.NewServer(a.log, a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.ingestor != nil {
		if err := a.ingestor.Stop(); err != nil {
			a.log.Warn("quote ingest stop error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// engine last so queued tasks drain after new submissions stopped
	if err := a.engine.Stop(shutdownCtx); err != nil {
		a.log.Warn("engine stop error", applogger.Error(err))
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
