package store_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/internal/store"
)

var _ = Describe("RestartStore", func() {
	var (
		ctx  context.Context
		s    *store.Store
		db   *sql.DB
		base time.Time
	)

	save := func(worker int, reason models.RestartReason, size int, at time.Time) *models.WorkerRestart {
		r := &models.WorkerRestart{WorkerID: worker, Reason: reason, QueueSize: size, At: at}
		Expect(s.Restarts().Save(ctx, r)).To(Succeed())
		return r
	}

	BeforeEach(func() {
		ctx = context.Background()
		base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStore(db)
		Expect(s.Migrate(ctx)).To(Succeed())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Save", func() {
		It("should assign increasing ids", func() {
			first := save(1, models.RestartReasonCancelled, 0, base)
			second := save(2, models.RestartReasonNotRunning, 0, base)

			Expect(first.ID).To(BeNumerically(">", 0))
			Expect(second.ID).To(BeNumerically(">", first.ID))
		})

		It("should stamp a restart without a time", func() {
			r := &models.WorkerRestart{WorkerID: 1, Reason: models.RestartReasonCancelled}
			Expect(s.Restarts().Save(ctx, r)).To(Succeed())

			Expect(r.At).To(BeTemporally("~", time.Now(), time.Minute))
		})
	})

	Context("List", func() {
		BeforeEach(func() {
			save(1, models.RestartReasonCancelled, 0, base)
			save(2, models.RestartReasonSaturated, 1200, base.Add(time.Minute))
			save(3, models.RestartReasonSaturated, 1500, base.Add(2*time.Minute))
			save(1, models.RestartReasonNotRunning, 0, base.Add(3*time.Minute))
		})

		It("should return every restart newest first", func() {
			restarts, err := s.Restarts().List(ctx, store.WithDefaultSort())

			Expect(err).NotTo(HaveOccurred())
			Expect(restarts).To(HaveLen(4))
			Expect(restarts[0].Reason).To(Equal(models.RestartReasonNotRunning))
			Expect(restarts[3].Reason).To(Equal(models.RestartReasonCancelled))
		})

		It("should keep the queue size of saturation restarts", func() {
			restarts, err := s.Restarts().List(ctx, store.ByReasons(models.RestartReasonSaturated), store.WithDefaultSort())

			Expect(err).NotTo(HaveOccurred())
			Expect(restarts).To(HaveLen(2))
			Expect(restarts[0].Status()).To(Equal("queue size was 1500"))
			Expect(restarts[1].Status()).To(Equal("queue size was 1200"))
		})

		It("should filter by worker", func() {
			restarts, err := s.Restarts().List(ctx, store.ByWorker(1))

			Expect(err).NotTo(HaveOccurred())
			Expect(restarts).To(HaveLen(2))
		})

		It("should filter by time", func() {
			restarts, err := s.Restarts().List(ctx, store.Since(base.Add(2*time.Minute)))

			Expect(err).NotTo(HaveOccurred())
			Expect(restarts).To(HaveLen(2))
		})

		It("should page results", func() {
			page, err := s.Restarts().List(ctx, store.WithDefaultSort(), store.WithLimit(2), store.WithOffset(2))

			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(2))
			Expect(page[0].WorkerID).To(Equal(2))
			Expect(page[1].WorkerID).To(Equal(1))
		})
	})

	Context("Count", func() {
		It("should count with filters", func() {
			save(1, models.RestartReasonCancelled, 0, base)
			save(2, models.RestartReasonCancelled, 0, base)
			save(3, models.RestartReasonSaturated, 1000, base)

			total, err := s.Restarts().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(3))

			cancelled, err := s.Restarts().Count(ctx, store.ByReasons(models.RestartReasonCancelled))
			Expect(err).NotTo(HaveOccurred())
			Expect(cancelled).To(Equal(2))
		})
	})

	Context("Prune", func() {
		It("should delete restarts older than the cutoff", func() {
			save(1, models.RestartReasonCancelled, 0, base)
			save(2, models.RestartReasonCancelled, 0, base.Add(time.Hour))

			n, err := s.Restarts().Prune(ctx, base.Add(time.Minute))

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))
			total, err := s.Restarts().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(1))
		})
	})
})
