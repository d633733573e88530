package queue

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"StockPulse/pkg/logger"
)

// MemoryQueue is an in-process FIFO queue backed by a buffered channel.
// With one worker, messages are consumed strictly in publish order; with
// several workers, ordering across messages is undefined.
type MemoryQueue struct {
	logger    *logger.Logger
	config    *QueueConfig
	jobs      map[string]Job
	msgCh     chan Message
	wg        sync.WaitGroup
	mu        sync.RWMutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
	seq       uint64
	depthHook func(int)
}

// MemoryQueueOption configures MemoryQueue.
type MemoryQueueOption func(*MemoryQueue)

// WithDepthHook installs a callback invoked with the queue depth after each
// publish, typically a metrics gauge.
func WithDepthHook(fn func(int)) MemoryQueueOption {
	return func(m *MemoryQueue) { m.depthHook = fn }
}

// NewMemoryQueue creates an in-memory queue.
func NewMemoryQueue(lgr *logger.Logger, config *QueueConfig, opts ...MemoryQueueOption) *MemoryQueue {
	if config == nil {
		config = &QueueConfig{}
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 256
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &MemoryQueue{
		logger: lgr,
		config: config,
		jobs:   make(map[string]Job),
		msgCh:  make(chan Message, config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterJob registers a single job.
func (m *MemoryQueue) RegisterJob(job Job) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[job.Type()]; exists {
		m.logger.Warn("job already registered", logger.String("job", job.Name()))
		return
	}
	m.jobs[job.Type()] = job
	m.logger.Info("job registered",
		logger.String("job", job.Name()),
		logger.String("type", job.Type()))
}

// Start launches the consumer workers.
func (m *MemoryQueue) Start() error {
	m.mu.Lock()
	if m.isRunning {
		m.mu.Unlock()
		return fmt.Errorf("queue already running")
	}
	m.isRunning = true
	m.mu.Unlock()

	for i := 0; i < m.config.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}
	m.logger.Info("memory queue started",
		logger.Int("workers", m.config.Workers),
		logger.Int("capacity", m.config.QueueSize))
	return nil
}

// Stop cancels the workers and waits for them to drain, bounded by ctx.
// Calling it again after a timed-out drain waits for the still-running
// workers, so a nil return always means they have exited.
func (m *MemoryQueue) Stop(ctx context.Context) error {
	m.mu.Lock()
	if m.isRunning {
		m.isRunning = false
		m.cancel()
	}
	m.mu.Unlock()

	doneCh := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(doneCh)
	}()

	select {
	case <-ctx.Done():
		m.logger.Warn("timeout waiting for queue workers", logger.Error(ctx.Err()))
		return fmt.Errorf("queue stop: %w", ctx.Err())
	case <-doneCh:
		m.logger.Info("memory queue stopped")
		return nil
	}
}

// PublishMessage enqueues a message (implements QueueService). It blocks when
// the buffer is full rather than dropping work.
func (m *MemoryQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	m.mu.RLock()
	running := m.isRunning
	m.mu.RUnlock()

	if !running {
		return fmt.Errorf("queue not running")
	}

	msg := Message{
		ID:        strconv.FormatUint(atomic.AddUint64(&m.seq, 1), 10),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	select {
	case m.msgCh <- msg:
	case <-ctx.Done():
		return fmt.Errorf("publish: %w", ctx.Err())
	case <-m.ctx.Done():
		return fmt.Errorf("queue stopped")
	}

	if m.depthHook != nil {
		m.depthHook(len(m.msgCh))
	}
	return nil
}

func (m *MemoryQueue) worker(id int) {
	defer m.wg.Done()
	m.logger.Debug("queue worker started", logger.Int("worker_id", id))

	for {
		select {
		case <-m.ctx.Done():
			// Drain what is already buffered so submitted work still
			// yields a result before shutdown completes.
			for {
				select {
				case msg := <-m.msgCh:
					m.processMessage(msg)
				default:
					m.logger.Debug("queue worker stopped", logger.Int("worker_id", id))
					return
				}
			}
		case msg := <-m.msgCh:
			m.processMessage(msg)
		}
	}
}

func (m *MemoryQueue) processMessage(msg Message) {
	m.mu.RLock()
	job, exists := m.jobs[msg.Type]
	if !exists {
		job, exists = m.jobs[TypeAny]
	}
	m.mu.RUnlock()

	if !exists {
		m.logger.Error("no job found",
			logger.String("type", msg.Type),
			logger.String("id", msg.ID))
		return
	}

	start := time.Now()
	if err := job.Handle(context.Background(), msg.Payload); err != nil {
		m.logger.Error("job failed",
			logger.String("job", job.Name()),
			logger.String("id", msg.ID),
			logger.Int64("elapsed_ms", time.Since(start).Milliseconds()),
			logger.Error(err))
	}
}
