// Package metrics exposes the mob queue counters to Prometheus.
//
// A nil *Metrics is valid and records nothing, so components can take one
// optionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arcaneplugins/levelledmobs/internal/models"
)

const (
	namespace = "levelledmobs"
	subsystem = "queue"
)

// Metrics holds Prometheus collectors.
type Metrics struct {
	ItemsEnqueued      prometheus.Counter
	ItemsDuplicate     prometheus.Counter
	ItemsCleared       prometheus.Counter
	ItemsProcessed     *prometheus.CounterVec
	ProcessingDuration prometheus.Histogram
	QueueDepth         prometheus.Gauge
	ActiveWorkers      prometheus.Gauge
	WorkerRestarts     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ItemsEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items_enqueued_total",
			Help:      "Total number of items admitted to the queue.",
		}),
		ItemsDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items_duplicate_total",
			Help:      "Total number of items dropped because the entity was already in flight.",
		}),
		ItemsCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items_cleared_total",
			Help:      "Total number of pending items discarded by a clear.",
		}),
		ItemsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items_processed_total",
			Help:      "Total number of processed items by outcome.",
		}, []string{"outcome"}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "processing_duration_seconds",
			Help:      "Time spent processing a single item.",
			Buckets:   prometheus.DefBuckets,
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "depth",
			Help:      "Number of items waiting in the queue.",
		}),
		ActiveWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_workers",
			Help:      "Number of workers currently counted as active.",
		}),
		WorkerRestarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "worker_restarts_total",
			Help:      "Total number of workers replaced by the watchdog by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		m.ItemsEnqueued,
		m.ItemsDuplicate,
		m.ItemsCleared,
		m.ItemsProcessed,
		m.ProcessingDuration,
		m.QueueDepth,
		m.ActiveWorkers,
		m.WorkerRestarts,
	)

	return m
}

func (m *Metrics) Enqueued(depth int) {
	if m == nil {
		return
	}
	m.ItemsEnqueued.Inc()
	m.QueueDepth.Set(float64(depth))
}

func (m *Metrics) Duplicate() {
	if m == nil {
		return
	}
	m.ItemsDuplicate.Inc()
}

func (m *Metrics) Cleared(n int) {
	if m == nil {
		return
	}
	m.ItemsCleared.Add(float64(n))
	m.QueueDepth.Set(0)
}

func (m *Metrics) Dequeued(depth int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(depth))
}

func (m *Metrics) Processed(kind models.OutcomeKind, took time.Duration) {
	if m == nil {
		return
	}
	m.ItemsProcessed.WithLabelValues(kind.String()).Inc()
	m.ProcessingDuration.Observe(took.Seconds())
}

func (m *Metrics) Workers(n int32) {
	if m == nil {
		return
	}
	m.ActiveWorkers.Set(float64(n))
}

func (m *Metrics) Restarted(reason models.RestartReason) {
	if m == nil {
		return
	}
	m.WorkerRestarts.WithLabelValues(string(reason)).Inc()
}
