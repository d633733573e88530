package kafka

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// MessageHandler handles messages from a specific topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// Consumer reads registered topics, one goroutine per topic, and hands each
// message to its handler with retry and jittered backoff.
type Consumer struct {
	cfg      *ConsumerConfig
	readers  map[string]*kafka.Reader
	handlers map[string]MessageHandler
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewConsumer creates a new Kafka consumer.
func NewConsumer(opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		GroupID:    "default",
		RetryMax:   3,
		BackoffMin: 50 * time.Millisecond,
		BackoffMax: 2 * time.Second,
		MinBytes:   10e3, // 10KB
		MaxBytes:   10e6, // 10MB
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	initConsumerMetrics()

	return &Consumer{
		cfg:      cfg,
		readers:  make(map[string]*kafka.Reader),
		handlers: make(map[string]MessageHandler),
		stopChan: make(chan struct{}),
	}, nil
}

// RegisterHandler registers a message handler for its topic. A second
// handler for the same topic is ignored.
func (c *Consumer) RegisterHandler(handler MessageHandler) {
	topic := handler.Topic()
	if _, ok := c.handlers[topic]; !ok {
		c.handlers[topic] = handler
	}
}

// Start creates a reader per registered topic and launches the consume loops.
func (c *Consumer) Start() error {
	if len(c.handlers) == 0 {
		return fmt.Errorf("no handlers registered")
	}

	for topic := range c.handlers {
		c.readers[topic] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  c.cfg.Brokers,
			Topic:    topic,
			GroupID:  c.cfg.GroupID,
			MinBytes: c.cfg.MinBytes,
			MaxBytes: c.cfg.MaxBytes,
		})
	}

	for topic, reader := range c.readers {
		c.wg.Add(1)
		go c.consumeTopic(topic, reader)
	}
	return nil
}

// Stop stops the consumer and waits for the loops to drain.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error

	c.stopOnce.Do(func() {
		close(c.stopChan)

		done := make(chan struct{})
		go func() {
			c.wg.Wait()
			close(done)
		}()
		select {
		case <-ctx.Done():
			stopErr = fmt.Errorf("waiting for consumer stop: %w", ctx.Err())
		case <-done:
		}

		for _, reader := range c.readers {
			_ = reader.Close()
		}
	})

	return stopErr
}

func (c *Consumer) consumeTopic(topic string, reader *kafka.Reader) {
	defer c.wg.Done()

	handler := c.handlers[topic]
	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		msg, err := reader.ReadMessage(ctx)
		cancel()
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				consumerErrsTotal.WithLabelValues(topic, "read").Inc()
			}
			continue
		}

		c.handleWithRetry(topic, handler, msg.Value)
	}
}

func (c *Consumer) handleWithRetry(topic string, handler MessageHandler, data []byte) {
	start := time.Now()
	var err error
	for attempt := 0; attempt <= c.cfg.RetryMax; attempt++ {
		if attempt > 0 {
			select {
			case <-c.stopChan:
				return
			case <-time.After(c.backoff(attempt)):
			}
		}
		err = c.safeHandle(handler, data)
		if err == nil {
			consumerMsgsTotal.WithLabelValues(topic, "ok").Inc()
			consumerLatencyHist.WithLabelValues(topic).Observe(time.Since(start).Seconds())
			return
		}
	}
	consumerMsgsTotal.WithLabelValues(topic, "error").Inc()
	consumerErrsTotal.WithLabelValues(topic, "handle").Inc()
}

// safeHandle runs the handler with panic recovery so a bad message cannot
// kill the consume loop.
func (c *Consumer) safeHandle(handler MessageHandler, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return handler.Handle(ctx, data)
}

// backoff returns an exponential delay with jitter, capped at BackoffMax.
func (c *Consumer) backoff(attempt int) time.Duration {
	d := c.cfg.BackoffMin << uint(attempt-1)
	if d > c.cfg.BackoffMax || d <= 0 {
		d = c.cfg.BackoffMax
	}
	jitter := time.Duration(rand.Int63n(int64(d)/2 + 1))
	return d/2 + jitter
}

var (
	consumerMsgsTotal   *prometheus.CounterVec
	consumerErrsTotal   *prometheus.CounterVec
	consumerLatencyHist *prometheus.HistogramVec
	consumerMetricsOnce sync.Once
)

func initConsumerMetrics() {
	consumerMetricsOnce.Do(func() {
		consumerMsgsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_kafka_consumer_messages_total",
				Help: "Total messages consumed from Kafka",
			},
			[]string{"topic", "result"},
		)
		consumerErrsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_kafka_consumer_errors_total",
				Help: "Total consumer errors",
			},
			[]string{"topic", "stage"},
		)
		consumerLatencyHist = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_kafka_consumer_handle_seconds",
				Help:    "Handler latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"topic"},
		)
	})
}
