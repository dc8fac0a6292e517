package services_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/internal/queue"
	"github.com/arcaneplugins/levelledmobs/internal/services"
	"github.com/arcaneplugins/levelledmobs/internal/store"
	srvErrors "github.com/arcaneplugins/levelledmobs/pkg/errors"
	"github.com/arcaneplugins/levelledmobs/pkg/scheduler"
	"github.com/arcaneplugins/levelledmobs/test"
)

var _ = Describe("QueueService", func() {
	var (
		ctx     context.Context
		db      *sql.DB
		st      *store.Store
		sched   *scheduler.Scheduler
		applier *test.MockApplier
		journal *services.RestartJournal
		manager *queue.Manager
		svc     *services.QueueService
	)

	newService := func(ignore bool) {
		manager = queue.New(sched, services.NewLeveler(applier, time.Second, nil),
			queue.WithRestartHook(journal.Record),
			queue.WithIgnoreMobsWithNoPlayerContext(ignore),
		)
		svc = services.NewQueueService(manager, sched, st, 20*time.Millisecond)
	}

	newItem := func() models.QueueItem {
		e := models.NewLivingEntity(uuid.New(), "ZOMBIE", models.Location{World: "world"})
		e.Acquire()
		return models.NewQueueItem(e, models.SpawnEvent{Reason: models.SpawnReasonNatural})
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		st = store.NewStore(db)
		Expect(st.Migrate(ctx)).To(Succeed())

		sched = scheduler.NewScheduler()
		applier = test.NewMockApplier(3)
		journal = services.NewRestartJournal(st)
		newService(false)
	})

	AfterEach(func() {
		svc.Stop()
		sched.Close()
		db.Close()
	})

	Context("settings", func() {
		It("should keep the configured value without stored settings", func() {
			newService(true)

			Expect(svc.RestoreSettings(ctx)).To(Succeed())

			Expect(svc.Settings().IgnoreMobsWithNoPlayerContext).To(BeTrue())
		})

		// Given settings stored by a previous run
		// When the service restores its settings
		// Then the stored value wins over the configuration
		It("should prefer the stored value", func() {
			Expect(st.Settings().Save(ctx, &models.Settings{IgnoreMobsWithNoPlayerContext: false})).To(Succeed())
			newService(true)

			Expect(svc.RestoreSettings(ctx)).To(Succeed())

			Expect(manager.IgnoreMobsWithNoPlayerContext()).To(BeFalse())
		})

		It("should persist and apply updates", func() {
			updated, err := svc.UpdateSettings(ctx, models.Settings{IgnoreMobsWithNoPlayerContext: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IgnoreMobsWithNoPlayerContext).To(BeTrue())
			Expect(manager.IgnoreMobsWithNoPlayerContext()).To(BeTrue())

			stored, err := st.Settings().Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.IgnoreMobsWithNoPlayerContext).To(BeTrue())
		})
	})

	Context("lifecycle", func() {
		It("should refuse items while stopped", func() {
			item := newItem()

			admitted, err := svc.Add(item)

			Expect(admitted).To(BeFalse())
			Expect(srvErrors.IsQueueStoppedError(err)).To(BeTrue())
			Expect(item.Entity.InUse()).To(Equal(int32(1)))
		})

		It("should process items once started", func() {
			svc.Start()
			item := newItem()

			admitted, err := svc.Add(item)

			Expect(err).NotTo(HaveOccurred())
			Expect(admitted).To(BeTrue())
			Eventually(applier.Calls).Should(Equal([]uuid.UUID{item.EntityID()}))
			Eventually(item.Entity.InUse).Should(Equal(int32(1)))
			Expect(item.Entity.Level()).To(HaveValue(Equal(3)))
		})

		It("should clear pending items", func() {
			Expect(svc.Clear()).To(BeZero())
			Expect(svc.Status().Size).To(BeZero())
		})

		It("should drain the workers on stop", func() {
			svc.Start()
			Eventually(svc.Status).Should(HaveField("ActiveWorkers", 3))

			svc.Stop()

			Eventually(func() bool { return svc.Status().Running }).Should(BeFalse())
			Expect(svc.CheckHealth()).To(BeZero())
		})
	})

	Context("health check", func() {
		// Given a running queue whose worker task gets cancelled
		// When the periodic health check fires
		// Then the worker is replaced and the restart is journaled
		It("should replace a cancelled worker and record it", func() {
			svc.Start()
			Eventually(manager.ActiveWorkers).Should(Equal(3))

			manager.Tasks()[0].Cancel()

			Eventually(func() int {
				res, err := journal.List(ctx, services.RestartListParams{})
				Expect(err).NotTo(HaveOccurred())
				return res.Total
			}, 2*time.Second).Should(Equal(1))
			Eventually(manager.ActiveWorkers).Should(Equal(3))

			res, err := journal.List(ctx, services.RestartListParams{Reasons: []models.RestartReason{models.RestartReasonCancelled}})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Restarts).To(HaveLen(1))
			Expect(res.Restarts[0].Status()).To(Equal("cancelled"))
		})
	})
})
