package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/logger"
)

// EngineService is the request-facing front of the engine worker. It submits
// tasks, routes the ordered result stream back to per-ID waiters, and caches
// indicator results so identical candle windows are not recomputed.
type EngineService struct {
	worker *EngineWorker
	cache  cache.Service
	ttl    time.Duration
	log    *logger.Logger

	mu      sync.Mutex
	waiters map[string]chan models.Result

	seq uint64
}

// NewEngineService creates an EngineService. cacheSvc may be nil to disable
// result caching.
func NewEngineService(lgr *logger.Logger, worker *EngineWorker, cacheSvc cache.Service, resultTTL time.Duration) *EngineService {
	return &EngineService{
		worker:  worker,
		cache:   cacheSvc,
		ttl:     resultTTL,
		log:     lgr,
		waiters: make(map[string]chan models.Result),
	}
}

// Start launches the worker and the result routing loop.
func (s *EngineService) Start() error {
	if err := s.worker.Start(); err != nil {
		return err
	}
	go s.route()
	return nil
}

// Stop drains the worker; the routing loop exits when the result stream closes.
func (s *EngineService) Stop(ctx context.Context) error {
	return s.worker.Stop(ctx)
}

func (s *EngineService) route() {
	for res := range s.worker.Results() {
		s.mu.Lock()
		ch, ok := s.waiters[res.ID]
		if ok {
			delete(s.waiters, res.ID)
		}
		s.mu.Unlock()

		if ok {
			ch <- res
		} else {
			// fire-and-forget submission, nothing to correlate
			s.log.Debug("unclaimed result", logger.String("task_id", res.ID))
		}
	}

	// worker stopped: fail remaining waiters
	s.mu.Lock()
	for id, ch := range s.waiters {
		delete(s.waiters, id)
		close(ch)
	}
	s.mu.Unlock()
}

// NextID returns a process-unique task id.
func (s *EngineService) NextID() string {
	return fmt.Sprintf("task-%d-%d", time.Now().UnixMilli(), atomic.AddUint64(&s.seq, 1))
}

// Execute submits a task and waits for its correlated result.
func (s *EngineService) Execute(ctx context.Context, task models.Task) (models.Result, error) {
	if err := ctx.Err(); err != nil {
		return models.Result{}, fmt.Errorf("await result %s: %w", task.ID, err)
	}

	ch := make(chan models.Result, 1)
	s.mu.Lock()
	s.waiters[task.ID] = ch
	s.mu.Unlock()

	if err := s.worker.Submit(ctx, task); err != nil {
		s.mu.Lock()
		delete(s.waiters, task.ID)
		s.mu.Unlock()
		return models.Result{}, err
	}

	select {
	case <-ctx.Done():
		s.mu.Lock()
		delete(s.waiters, task.ID)
		s.mu.Unlock()
		return models.Result{}, fmt.Errorf("await result %s: %w", task.ID, ctx.Err())
	case res, ok := <-ch:
		if !ok {
			return models.Result{}, fmt.Errorf("await result %s: engine stopped", task.ID)
		}
		return res, nil
	}
}

// ComputeIndicators runs an indicator task through the engine, serving
// repeated identical requests from the cache.
func (s *EngineService) ComputeIndicators(ctx context.Context, p models.IndicatorsPayload) (models.Result, error) {
	key := ""
	if s.cache != nil {
		key = indicatorsCacheKey(p)
		var cached models.Result
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	res, err := s.Execute(ctx, models.Task{ID: s.NextID(), Payload: p})
	if err != nil {
		return models.Result{}, err
	}

	if s.cache != nil && res.Success {
		if cerr := s.cache.Set(ctx, key, res, s.ttl); cerr != nil {
			s.log.Warn("result cache write failed", logger.Error(cerr))
		}
	}
	return res, nil
}

// FilterRecords runs a filter/sort/search task through the engine.
func (s *EngineService) FilterRecords(ctx context.Context, p models.BulkPayload) (models.Result, error) {
	return s.Execute(ctx, models.Task{ID: s.NextID(), Payload: p})
}

// AggregatePortfolio runs a portfolio aggregation task through the engine.
func (s *EngineService) AggregatePortfolio(ctx context.Context, p models.PortfolioPayload) (models.Result, error) {
	return s.Execute(ctx, models.Task{ID: s.NextID(), Payload: p})
}

// indicatorsCacheKey hashes the candle window and indicator set. Collisions
// only cost a stale read within the TTL, so a 64-bit hash is enough.
func indicatorsCacheKey(p models.IndicatorsPayload) string {
	h := fnv.New64a()
	enc := json.NewEncoder(h)
	_ = enc.Encode(p.Points)
	_ = enc.Encode(p.Indicators)
	return cache.Key("indicators", fmt.Sprintf("%x", h.Sum64()))
}
