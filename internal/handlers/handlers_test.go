package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/arcaneplugins/levelledmobs/api/v1"
	"github.com/arcaneplugins/levelledmobs/internal/debug"
	"github.com/arcaneplugins/levelledmobs/internal/handlers"
	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/internal/queue"
	"github.com/arcaneplugins/levelledmobs/internal/services"
	"github.com/arcaneplugins/levelledmobs/internal/store"
	"github.com/arcaneplugins/levelledmobs/pkg/scheduler"
	"github.com/arcaneplugins/levelledmobs/test"
)

var _ = Describe("Handler", func() {
	var (
		ctx      context.Context
		db       *sql.DB
		st       *store.Store
		sched    *scheduler.Scheduler
		applier  *test.MockApplier
		queueSrv *services.QueueService
		debugMgr *debug.Manager
		journal  *services.RestartJournal
		router   *gin.Engine
	)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder, out any) {
		Expect(json.Unmarshal(w.Body.Bytes(), out)).To(Succeed())
	}

	item := func(id uuid.UUID) v1.QueueItem {
		return v1.QueueItem{Id: id.String(), Type: "ZOMBIE", Location: v1.Location{World: "world", Y: 64}}
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		st = store.NewStore(db)
		Expect(st.Migrate(ctx)).To(Succeed())

		sched = scheduler.NewScheduler()
		applier = test.NewMockApplier(4)
		debugMgr = debug.NewManager(sched)
		journal = services.NewRestartJournal(st)

		manager := queue.New(sched, services.NewLeveler(applier, time.Second, debugMgr),
			queue.WithDebugSink(debugMgr),
			queue.WithRestartHook(journal.Record),
		)
		queueSrv = services.NewQueueService(manager, sched, st, time.Hour)
		startup := services.NewStartup(sched)

		router = gin.New()
		v1.RegisterHandlers(router.Group("/api/v1"), handlers.New(queueSrv, journal, debugMgr, startup))
	})

	AfterEach(func() {
		queueSrv.Stop()
		sched.Close()
		db.Close()
	})

	Describe("queue", func() {
		It("should report a stopped queue", func() {
			w := do(http.MethodGet, "/api/v1/queue", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var status v1.QueueStatus
			decode(w, &status)
			Expect(status.Running).To(BeFalse())
			Expect(status.Workers).To(BeEmpty())
		})

		It("should start the workers", func() {
			w := do(http.MethodPost, "/api/v1/queue/start", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var status v1.QueueStatus
			decode(w, &status)
			Expect(status.Running).To(BeTrue())
			Expect(status.Workers).To(HaveLen(3))
		})

		It("should refuse items while stopped", func() {
			w := do(http.MethodPost, "/api/v1/queue/items", v1.EnqueueRequest{Items: []v1.QueueItem{item(uuid.New())}})

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("should reject an invalid entity id", func() {
			do(http.MethodPost, "/api/v1/queue/start", nil)
			bad := item(uuid.New())
			bad.Id = "not-a-uuid"

			w := do(http.MethodPost, "/api/v1/queue/items", v1.EnqueueRequest{Items: []v1.QueueItem{item(uuid.New()), bad}})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Consistently(applier.Calls, 100*time.Millisecond).Should(BeEmpty())
		})

		It("should reject an empty batch", func() {
			w := do(http.MethodPost, "/api/v1/queue/items", v1.EnqueueRequest{})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		// Given a running queue
		// When mobs are posted
		// Then they are admitted and levelled
		It("should queue and level mobs", func() {
			do(http.MethodPost, "/api/v1/queue/start", nil)
			a, b := uuid.New(), uuid.New()

			w := do(http.MethodPost, "/api/v1/queue/items", v1.EnqueueRequest{Items: []v1.QueueItem{item(a), item(b)}})

			Expect(w.Code).To(Equal(http.StatusAccepted))
			var resp v1.EnqueueResponse
			decode(w, &resp)
			Expect(resp.Admitted).To(Equal(2))
			Eventually(applier.Calls).Should(ConsistOf(Equal(a), Equal(b)))
		})

		It("should clear pending items", func() {
			w := do(http.MethodDelete, "/api/v1/queue", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.ClearResponse
			decode(w, &resp)
			Expect(resp.Cleared).To(BeZero())
		})

		It("should run the health check on demand", func() {
			do(http.MethodPost, "/api/v1/queue/start", nil)

			w := do(http.MethodPost, "/api/v1/queue/health", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.HealthCheckResponse
			decode(w, &resp)
			Expect(resp.Restarted).To(BeZero())
		})

		It("should stop the workers", func() {
			do(http.MethodPost, "/api/v1/queue/start", nil)

			w := do(http.MethodPost, "/api/v1/queue/stop", nil)

			Expect(w.Code).To(Equal(http.StatusAccepted))
			Eventually(func() bool { return queueSrv.Status().Running }).Should(BeFalse())
		})
	})

	Describe("restarts", func() {
		BeforeEach(func() {
			for i := range 30 {
				journal.Record(models.WorkerRestart{WorkerID: i%3 + 1, Reason: models.RestartReasonCancelled})
			}
			journal.Record(models.WorkerRestart{WorkerID: 1, Reason: models.RestartReasonSaturated, QueueSize: 1200})
		})

		It("should page with the default size", func() {
			w := do(http.MethodGet, "/api/v1/queue/restarts", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var list v1.WorkerRestartList
			decode(w, &list)
			Expect(list.Total).To(Equal(31))
			Expect(list.Restarts).To(HaveLen(20))
		})

		It("should filter by reason", func() {
			w := do(http.MethodGet, "/api/v1/queue/restarts?reason=saturated", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var list v1.WorkerRestartList
			decode(w, &list)
			Expect(list.Total).To(Equal(1))
			Expect(list.Restarts[0].Status).To(Equal("queue size was 1200"))
		})

		It("should reject an unknown reason", func() {
			w := do(http.MethodGet, "/api/v1/queue/restarts?reason=bored", nil)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("settings", func() {
		It("should persist updates", func() {
			w := do(http.MethodPut, "/api/v1/settings", map[string]any{"ignoreMobsWithNoPlayerContext": true})

			Expect(w.Code).To(Equal(http.StatusOK))
			var settings v1.Settings
			decode(w, &settings)
			Expect(settings.IgnoreMobsWithNoPlayerContext).To(BeTrue())
			Expect(settings.UpdatedAt).NotTo(BeNil())

			stored, err := st.Settings().Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.IgnoreMobsWithNoPlayerContext).To(BeTrue())

			w = do(http.MethodGet, "/api/v1/settings", nil)
			decode(w, &settings)
			Expect(settings.IgnoreMobsWithNoPlayerContext).To(BeTrue())
		})

		It("should require the flag", func() {
			w := do(http.MethodPut, "/api/v1/settings", map[string]any{})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("debug", func() {
		It("should enable debugging with filters", func() {
			enabled := true
			w := do(http.MethodPut, "/api/v1/debug", v1.UpdateDebugRequest{
				Enabled: &enabled,
				Filters: &v1.DebugFilters{Types: []string{"player-context", "APPLY_LEVEL_RESULT"}, ListenFor: "failure"},
			})

			Expect(w.Code).To(Equal(http.StatusOK))
			var status v1.DebugStatus
			decode(w, &status)
			Expect(status.Enabled).To(BeTrue())
			Expect(status.Filters.Types).To(Equal([]string{"APPLY_LEVEL_RESULT", "PLAYER_CONTEXT"}))
			Expect(status.Filters.ListenFor).To(Equal("failure"))
			Expect(debugMgr.IsTypeEnabled(models.DebugTypePlayerContext)).To(BeTrue())
		})

		It("should apply nothing when a field is invalid", func() {
			enabled := true
			bad := "soon"
			w := do(http.MethodPut, "/api/v1/debug", v1.UpdateDebugRequest{Enabled: &enabled, DisableAfter: &bad})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(debugMgr.IsEnabled()).To(BeFalse())
		})

		It("should reject an unknown debug type", func() {
			w := do(http.MethodPut, "/api/v1/debug", v1.UpdateDebugRequest{Filters: &v1.DebugFilters{Types: []string{"NOPE"}}})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("server load", func() {
		It("should finish loading on startup", func() {
			w := do(http.MethodPost, "/api/v1/server/load", v1.ServerLoadRequest{Type: "startup"})

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.ServerLoadResponse
			decode(w, &resp)
			Expect(resp.FinishedLoading).To(BeTrue())
			Expect(resp.PendingItemsScheduled).To(BeFalse())
		})

		It("should ignore reloads", func() {
			w := do(http.MethodPost, "/api/v1/server/load", v1.ServerLoadRequest{Type: "reload"})

			var resp v1.ServerLoadResponse
			decode(w, &resp)
			Expect(resp.FinishedLoading).To(BeFalse())
		})

		It("should reject an unknown load type", func() {
			w := do(http.MethodPost, "/api/v1/server/load", v1.ServerLoadRequest{Type: "restart"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
