package usecase

import (
	"errors"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/indicator"
	"StockPulse/internal/processor"
	"StockPulse/pkg/logger"
)

// Closed set of engine error kinds. Degenerate numeric inputs (empty series,
// zero-division in RSI) are not errors; they resolve to defined values inside
// the indicator package.
var (
	ErrUnsupportedKind = errors.New("unsupported task kind")
	ErrComputation     = errors.New("computation failed")
)

func errorKindOf(err error) string {
	if errors.Is(err, ErrUnsupportedKind) {
		return "UnsupportedKind"
	}
	return "ComputationError"
}

type handlerFunc func(payload models.TaskPayload) (interface{}, error)

// Dispatcher routes a task to the handler for its kind, times the call, and
// converts every failure mode — including panics from any depth — into a
// correlated Result. Nothing escapes the task boundary.
type Dispatcher struct {
	logger   *logger.Logger
	metrics  drepo.Metrics
	handlers map[models.TaskKind]handlerFunc
}

// NewDispatcher creates a dispatcher with the four engine handlers registered.
func NewDispatcher(lgr *logger.Logger, metrics drepo.Metrics) *Dispatcher {
	d := &Dispatcher{
		logger:   lgr,
		metrics:  metrics,
		handlers: make(map[models.TaskKind]handlerFunc),
	}
	d.handlers[models.KindComputeIndicators] = computeIndicators
	d.handlers[models.KindProcessBulk] = filterRecords
	d.handlers[models.KindFilterSort] = filterRecords
	d.handlers[models.KindAggregatePortfolio] = aggregatePortfolio
	return d
}

// Dispatch executes one task synchronously and returns its result. The result
// always echoes the task ID and carries the elapsed time, success or not.
func (d *Dispatcher) Dispatch(task models.Task) models.Result {
	start := time.Now()

	kind, value, err := d.execute(task)

	elapsed := time.Since(start)
	if d.metrics != nil {
		d.metrics.RecordTask(kind, err == nil)
		d.metrics.RecordTaskDuration(kind, elapsed.Seconds())
	}

	res := models.Result{
		ID:               task.ID,
		ProcessingTimeMs: float64(elapsed) / float64(time.Millisecond),
	}
	if err != nil {
		res.Error = err.Error()
		res.ErrorKind = errorKindOf(err)
		d.logger.Warn("task failed",
			logger.String("task_id", task.ID),
			logger.String("kind", kind),
			logger.Error(err))
		return res
	}

	res.Success = true
	res.Value = value
	d.logger.Debug("task completed",
		logger.String("task_id", task.ID),
		logger.String("kind", kind),
		logger.Duration("elapsed", elapsed))
	return res
}

// execute resolves and runs the handler. The deferred recover is the
// error-isolation boundary the rest of the process relies on; the worker
// goroutine survives any task failure.
func (d *Dispatcher) execute(task models.Task) (kind string, value interface{}, err error) {
	kind = "unknown"
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("%w: %v", ErrComputation, r)
		}
	}()

	if task.Payload == nil {
		return kind, nil, fmt.Errorf("%w: task has no payload", ErrUnsupportedKind)
	}
	if mp, ok := task.Payload.(malformedPayload); ok {
		return mp.kind, nil, fmt.Errorf("%w: %v", ErrComputation, mp.err)
	}

	kind = string(task.Payload.Kind())
	handler, ok := d.handlers[task.Payload.Kind()]
	if !ok {
		return kind, nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}

	value, err = handler(task.Payload)
	return kind, value, err
}

func computeIndicators(payload models.TaskPayload) (interface{}, error) {
	p, ok := payload.(models.IndicatorsPayload)
	if !ok {
		return nil, fmt.Errorf("%w: payload %T for ComputeIndicators", ErrComputation, payload)
	}
	return models.IndicatorsResult{
		ProcessedData:       p.Points,
		TechnicalIndicators: indicator.Compute(p.Points, p.Indicators),
	}, nil
}

func filterRecords(payload models.TaskPayload) (interface{}, error) {
	p, ok := payload.(models.BulkPayload)
	if !ok {
		return nil, fmt.Errorf("%w: payload %T for %s", ErrComputation, payload, payload.Kind())
	}
	return processor.FilterSortSearch(p.Records, p.Options), nil
}

func aggregatePortfolio(payload models.TaskPayload) (interface{}, error) {
	p, ok := payload.(models.PortfolioPayload)
	if !ok {
		return nil, fmt.Errorf("%w: payload %T for AggregatePortfolio", ErrComputation, payload)
	}
	return processor.AggregatePortfolio(p.Records, p.Holdings), nil
}

// unknownPayload carries an unrecognized wire kind through the queue so it is
// reported on the result channel instead of being rejected at submit time.
type unknownPayload struct {
	RawKind string
}

func (u unknownPayload) Kind() models.TaskKind { return models.TaskKind(u.RawKind) }
