package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	tasksTotal   *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
	queueDepth   prometheus.Gauge
	lastPrice    *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		tasksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_tasks_total",
				Help: "Total number of processed engine tasks",
			},
			[]string{"kind", "status"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		taskDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_task_duration_seconds",
				Help:    "Duration of engine task execution in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		queueDepth: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "stockpulse_task_queue_depth",
				Help: "Number of tasks waiting in the engine queue",
			},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_last_price",
				Help: "Last ingested price for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordTask records a completed task with its outcome.
func (r *Recorder) RecordTask(kind string, success bool) {
	status := "ok"
	if !success {
		status = "error"
	}
	r.tasksTotal.WithLabelValues(kind, status).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordTaskDuration records task execution time in seconds.
func (r *Recorder) RecordTaskDuration(kind string, seconds float64) {
	r.taskDuration.WithLabelValues(kind).Observe(seconds)
}

// RecordQueueDepth records the current engine queue depth.
func (r *Recorder) RecordQueueDepth(depth int) {
	r.queueDepth.Set(float64(depth))
}

// RecordLastPrice records the last ingested price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}
