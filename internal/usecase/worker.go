package usecase

import (
	"context"
	"fmt"
	"sync"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/queue"
)

// EngineWorker is the background execution context for engine tasks: a single
// consumer goroutine draining a FIFO queue, so handlers never interleave and
// results come out in submission order. Per-ID correlation is the only
// guarantee that survives pooling several workers.
//
// There is no cooperative cancellation of a running task; a caller that must
// abandon one discards the whole worker.
type EngineWorker struct {
	dispatcher *Dispatcher
	queue      *queue.MemoryQueue
	logger     *logger.Logger
	publisher  drepo.ResultPublisher
	results    chan models.Result

	stopping  chan struct{} // closed once Stop is past the drain; releases a blocked result send
	stopOnce  sync.Once
	closeOnce sync.Once
}

// WorkerConfig sizes the worker's buffers.
type WorkerConfig struct {
	QueueSize    int
	ResultBuffer int
}

// NewEngineWorker creates a worker around the given dispatcher.
func NewEngineWorker(lgr *logger.Logger, dispatcher *Dispatcher, metrics drepo.Metrics, cfg WorkerConfig) *EngineWorker {
	if cfg.ResultBuffer <= 0 {
		cfg.ResultBuffer = 256
	}

	var opts []queue.MemoryQueueOption
	if metrics != nil {
		opts = append(opts, queue.WithDepthHook(metrics.RecordQueueDepth))
	}

	w := &EngineWorker{
		dispatcher: dispatcher,
		logger:     lgr,
		results:    make(chan models.Result, cfg.ResultBuffer),
		stopping:   make(chan struct{}),
		queue: queue.NewMemoryQueue(lgr, &queue.QueueConfig{
			Workers:   1, // single context: FIFO, no interleaving
			QueueSize: cfg.QueueSize,
		}, opts...),
	}
	w.queue.RegisterJob(taskJob{worker: w})
	return w
}

// WithPublisher forwards every result to a publisher (e.g. Kafka) after it is
// delivered on the results channel. Publish failures are logged, not fatal.
func (w *EngineWorker) WithPublisher(pub drepo.ResultPublisher) *EngineWorker {
	w.publisher = pub
	return w
}

// Start launches the consumer goroutine.
func (w *EngineWorker) Start() error {
	return w.queue.Start()
}

// Stop drains buffered tasks and closes the results channel. When the drain
// deadline expires the consumer goroutine may still be blocked sending a
// result nobody read; the stopping signal releases it (discarding that
// result) and the channel stays open, since closing it under a pending send
// would panic. A later Stop call that observes a completed drain closes it.
func (w *EngineWorker) Stop(ctx context.Context) error {
	err := w.queue.Stop(ctx)
	w.stopOnce.Do(func() { close(w.stopping) })
	if err != nil {
		return err
	}
	w.closeOnce.Do(func() { close(w.results) })
	return nil
}

// Submit enqueues a task. The payload is deep-copied so the engine never
// aliases caller-owned mutable state across the dispatch boundary.
func (w *EngineWorker) Submit(ctx context.Context, task models.Task) error {
	task.Payload = clonePayload(task.Payload)
	kind := "unknown"
	if task.Payload != nil {
		kind = string(task.Payload.Kind())
	}
	if err := w.queue.PublishMessage(ctx, kind, task); err != nil {
		return fmt.Errorf("submit task %s: %w", task.ID, err)
	}
	return nil
}

// Results exposes the ordered result stream.
func (w *EngineWorker) Results() <-chan models.Result {
	return w.results
}

// taskJob adapts the dispatcher to the queue's Job interface. It consumes
// every message type, so unrecognized kinds still flow through Dispatch and
// come back as failure results.
type taskJob struct {
	worker *EngineWorker
}

func (taskJob) Name() string { return "engine-task" }
func (taskJob) Type() string { return queue.TypeAny }

func (j taskJob) Handle(ctx context.Context, payload interface{}) error {
	task, err := queue.ParsePayload[models.Task](payload)
	if err != nil {
		return fmt.Errorf("parse task: %w", err)
	}

	res := j.worker.dispatcher.Dispatch(*task)
	select {
	case j.worker.results <- res:
	case <-j.worker.stopping:
		// drain abandoned; nobody is reading this stream anymore
		return nil
	}

	if j.worker.publisher != nil {
		if err := j.worker.publisher.Publish(ctx, &res); err != nil {
			j.worker.logger.Warn("result publish failed",
				logger.String("task_id", res.ID),
				logger.Error(err))
		}
	}
	return nil
}

// clonePayload deep-copies the slices and maps inside a payload.
func clonePayload(p models.TaskPayload) models.TaskPayload {
	switch v := p.(type) {
	case models.IndicatorsPayload:
		return models.IndicatorsPayload{
			Points:     append([]models.PricePoint(nil), v.Points...),
			Indicators: append([]string(nil), v.Indicators...),
		}
	case models.BulkPayload:
		opts := v.Options
		if opts.MinPrice != nil {
			min := *opts.MinPrice
			opts.MinPrice = &min
		}
		if opts.MaxPrice != nil {
			max := *opts.MaxPrice
			opts.MaxPrice = &max
		}
		return models.BulkPayload{
			Records: append([]models.StockRecord(nil), v.Records...),
			Options: opts,
			AsKind:  v.AsKind,
		}
	case models.PortfolioPayload:
		holdings := make(map[string]float64, len(v.Holdings))
		for k, s := range v.Holdings {
			holdings[k] = s
		}
		return models.PortfolioPayload{
			Records:  append([]models.StockRecord(nil), v.Records...),
			Holdings: holdings,
		}
	default:
		return p
	}
}
