package services_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/internal/services"
	"github.com/arcaneplugins/levelledmobs/internal/store"
)

var _ = Describe("RestartJournal", func() {
	var (
		ctx     context.Context
		db      *sql.DB
		journal *services.RestartJournal
		base    time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		st := store.NewStore(db)
		Expect(st.Migrate(ctx)).To(Succeed())

		journal = services.NewRestartJournal(st)
		for i := range 5 {
			journal.Record(models.WorkerRestart{
				WorkerID:  i%2 + 1,
				Reason:    models.RestartReasonSaturated,
				QueueSize: 1000 + i,
				At:        base.Add(time.Duration(i) * time.Minute),
			})
		}
		journal.Record(models.WorkerRestart{WorkerID: 3, Reason: models.RestartReasonNotRunning, At: base.Add(time.Hour)})
	})

	AfterEach(func() {
		db.Close()
	})

	It("should list newest first", func() {
		res, err := journal.List(ctx, services.RestartListParams{})

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Total).To(Equal(6))
		Expect(res.Restarts).To(HaveLen(6))
		Expect(res.Restarts[0].Reason).To(Equal(models.RestartReasonNotRunning))
		Expect(res.Restarts[1].Status()).To(Equal("queue size was 1004"))
	})

	// Given six journaled restarts
	// When a page of two is requested
	// Then the total still counts every matching restart
	It("should page without affecting the total", func() {
		res, err := journal.List(ctx, services.RestartListParams{Limit: 2, Offset: 1})

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Total).To(Equal(6))
		Expect(res.Restarts).To(HaveLen(2))
		Expect(res.Restarts[0].QueueSize).To(Equal(1004))
		Expect(res.Restarts[1].QueueSize).To(Equal(1003))
	})

	It("should filter by reason, worker and time", func() {
		res, err := journal.List(ctx, services.RestartListParams{
			Reasons:  []models.RestartReason{models.RestartReasonSaturated},
			WorkerID: 1,
			Since:    base.Add(time.Minute),
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Total).To(Equal(2))
		for _, r := range res.Restarts {
			Expect(r.WorkerID).To(Equal(1))
			Expect(r.QueueSize).To(BeElementOf(1002, 1004))
		}
	})

	It("should prune restarts older than the retention", func() {
		journal.Record(models.WorkerRestart{WorkerID: 1, Reason: models.RestartReasonCancelled})

		n, err := journal.Prune(ctx, time.Hour)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(6)))

		res, err := journal.List(ctx, services.RestartListParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Total).To(Equal(1))
		Expect(res.Restarts[0].Reason).To(Equal(models.RestartReasonCancelled))
	})
})
