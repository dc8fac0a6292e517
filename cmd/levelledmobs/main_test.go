package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/fatih/color"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	v1 "github.com/arcaneplugins/levelledmobs/api/v1"
	"github.com/arcaneplugins/levelledmobs/internal/config"
	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/pkg/scheduler"
)

var _ = Describe("CLI", func() {
	var (
		srv     *httptest.Server
		cleared bool
	)

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	execute := func(args ...string) (string, error) {
		out := &bytes.Buffer{}
		root := newRootCommand()
		root.SetOut(out)
		root.SetArgs(args)
		err := root.ExecuteContext(context.Background())
		return out.String(), err
	}

	BeforeEach(func() {
		color.NoColor = true
		cleared = false

		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodGet && r.URL.Path == "/api/v1/queue":
				writeJSON(w, v1.QueueStatus{
					Running:       true,
					Size:          7,
					ActiveWorkers: 2,
					Workers: []v1.WorkerStatus{
						{Id: 1, State: "RUNNING"},
						{Id: 2, State: "QUEUED"},
					},
				})
			case r.Method == http.MethodGet && r.URL.Path == "/api/v1/queue/restarts":
				writeJSON(w, v1.WorkerRestartList{
					Total: 3,
					Restarts: []v1.WorkerRestart{
						{Id: 3, WorkerId: 4, Reason: "saturated", Status: "queue size was 1200", RestartedAt: time.Now()},
					},
				})
			case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/queue":
				cleared = true
				writeJSON(w, v1.ClearResponse{Cleared: 7})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
	})

	AfterEach(func() {
		srv.Close()
	})

	Context("status", func() {
		It("should render the queue, its workers and the restarts", func() {
			out, err := execute("status", "--server", srv.URL, "--restarts", "1")

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("running"))
			Expect(out).To(ContainSubstring("Pending items:  7"))
			Expect(out).To(ContainSubstring("RUNNING"))
			Expect(out).To(ContainSubstring("Worker restarts (1 of 3)"))
			Expect(out).To(ContainSubstring("queue size was 1200"))
		})

		It("should hide the restarts when asked to", func() {
			out, err := execute("status", "--server", srv.URL, "--restarts", "0")

			Expect(err).NotTo(HaveOccurred())
			Expect(out).NotTo(ContainSubstring("Worker restarts"))
		})

		It("should fail on an invalid server address", func() {
			_, err := execute("status", "--server", "nowhere")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("clear", func() {
		It("should report how many items were dropped", func() {
			out, err := execute("clear", "--server", srv.URL)

			Expect(err).NotTo(HaveOccurred())
			Expect(cleared).To(BeTrue())
			Expect(out).To(ContainSubstring("cleared 7 pending items"))
		})
	})

	Context("logger", func() {
		It("should build console and json loggers", func() {
			l, err := newLogger("console", "debug")
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Core().Enabled(zap.DebugLevel)).To(BeTrue())

			l, err = newLogger("json", "warn")
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Core().Enabled(zap.InfoLevel)).To(BeFalse())
		})

		It("should reject an unknown level", func() {
			_, err := newLogger("console", "loud")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("debug manager", func() {
		It("should apply the configured types and state", func() {
			sched := scheduler.NewScheduler()
			defer sched.Close()

			cfg := config.NewConfiguration()
			cfg.Debug.Enabled = true
			cfg.Debug.Types = []string{"apply_level_result"}

			debugMgr, err := newDebugManager(sched, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(debugMgr.IsEnabled()).To(BeTrue())
			Expect(debugMgr.IsTypeEnabled(models.DebugTypeApplyLevelResult)).To(BeTrue())
			Expect(debugMgr.IsTypeEnabled(models.DebugTypePlayerContext)).To(BeFalse())
		})
	})
})
