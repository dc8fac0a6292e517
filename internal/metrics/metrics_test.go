package metrics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/arcaneplugins/levelledmobs/internal/metrics"
	"github.com/arcaneplugins/levelledmobs/internal/models"
)

func value(c prometheus.Collector) float64 {
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	close(ch)

	var out dto.Metric
	Expect((<-ch).Write(&out)).To(Succeed())
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	return -1
}

var _ = Describe("Metrics", func() {
	var (
		reg *prometheus.Registry
		m   *metrics.Metrics
	)

	BeforeEach(func() {
		reg = prometheus.NewRegistry()
		m = metrics.NewMetrics(reg)
	})

	It("should track admitted items and the queue depth", func() {
		m.Enqueued(1)
		m.Enqueued(2)
		m.Duplicate()

		Expect(value(m.ItemsEnqueued)).To(Equal(2.0))
		Expect(value(m.ItemsDuplicate)).To(Equal(1.0))
		Expect(value(m.QueueDepth)).To(Equal(2.0))

		m.Dequeued(1)
		Expect(value(m.QueueDepth)).To(Equal(1.0))
	})

	It("should reset the depth on clear", func() {
		m.Enqueued(5)
		m.Cleared(5)

		Expect(value(m.ItemsCleared)).To(Equal(5.0))
		Expect(value(m.QueueDepth)).To(Equal(0.0))
	})

	It("should label processed items by outcome and restarts by reason", func() {
		m.Processed(models.OutcomeOK, 10*time.Millisecond)
		m.Processed(models.OutcomeTimedOut, time.Second)
		m.Restarted(models.RestartReasonSaturated)
		m.Workers(3)

		Expect(value(m.ItemsProcessed.WithLabelValues(models.OutcomeOK.String()))).To(Equal(1.0))
		Expect(value(m.ItemsProcessed.WithLabelValues(models.OutcomeTimedOut.String()))).To(Equal(1.0))
		Expect(value(m.WorkerRestarts.WithLabelValues(string(models.RestartReasonSaturated)))).To(Equal(1.0))
		Expect(value(m.ActiveWorkers)).To(Equal(3.0))

		families, err := reg.Gather()
		Expect(err).NotTo(HaveOccurred())
		var names []string
		for _, f := range families {
			names = append(names, f.GetName())
		}
		Expect(names).To(ContainElements(
			"levelledmobs_queue_items_processed_total",
			"levelledmobs_queue_processing_duration_seconds",
			"levelledmobs_queue_worker_restarts_total",
		))
	})

	It("should accept calls on a nil receiver", func() {
		var nilMetrics *metrics.Metrics
		Expect(func() {
			nilMetrics.Enqueued(1)
			nilMetrics.Processed(models.OutcomeFaulted, time.Millisecond)
			nilMetrics.Restarted(models.RestartReasonCancelled)
		}).NotTo(Panic())
	})
})
