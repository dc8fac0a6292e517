package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/arcaneplugins/levelledmobs/internal/metrics"
	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/pkg/scheduler"
)

// Processor applies levelling to a single entity.
type Processor interface {
	Process(ctx context.Context, entity *models.LivingEntity, event models.SpawnEvent) models.Outcome
}

// DebugSink receives debug lines. msg is only evaluated when the line passes the sink's filters.
type DebugSink interface {
	IsTypeEnabled(t models.DebugType) bool
	Log(t models.DebugType, entity *models.LivingEntity, result *bool, msg func() string)
}

type RulesProvider interface {
	IsPlayerLevellingEnabled() bool
}

// Runner starts work in the background and returns its handle.
type Runner interface {
	RunAsync(fn scheduler.Work) *scheduler.Task
}

type worker struct {
	id      int
	task    *scheduler.Task
	started atomic.Bool
	retired sync.Once
}

// Manager owns the mob processing queue and the workers draining it.
type Manager struct {
	runner    Runner
	processor Processor
	debug     DebugSink
	rules     RulesProvider
	log       *zap.SugaredLogger
	metrics   *metrics.Metrics
	onRestart func(models.WorkerRestart)
	baseCtx   context.Context

	numWorkers   int
	saturation   int
	pollInterval time.Duration

	// mu guards items and inFlight.
	mu       sync.Mutex
	items    fifo[models.QueueItem]
	inFlight registry

	// workersMu guards workers and nextWorkerID.
	workersMu    sync.Mutex
	workers      []*worker
	nextWorkerID int

	activeWorkers         atomic.Int32
	running               atomic.Bool
	shouldContinue        atomic.Bool
	ignoreNoPlayerContext atomic.Bool
}

func New(runner Runner, processor Processor, opts ...Option) *Manager {
	m := &Manager{
		runner:       runner,
		processor:    processor,
		debug:        nopDebugSink{},
		rules:        StaticRules(false),
		log:          zap.S().Named("queue_manager"),
		baseCtx:      context.Background(),
		numWorkers:   DefaultWorkers,
		saturation:   DefaultSaturationThreshold,
		pollInterval: DefaultPollInterval,
		inFlight:     make(registry),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Start spawns the workers. Calling it while the pool is running does nothing,
// except after a Stop that is still draining: the live workers are kept and
// the pool is topped up to the configured size.
func (m *Manager) Start() {
	m.workersMu.Lock()
	defer m.workersMu.Unlock()

	if m.running.Load() {
		if m.shouldContinue.CompareAndSwap(false, true) {
			for int(m.activeWorkers.Load()) < m.numWorkers {
				m.spawnLocked()
			}
			m.log.Infow("mob processing queue manager resumed", "workers", m.activeWorkers.Load())
		}
		return
	}

	m.shouldContinue.Store(true)
	m.running.Store(true)
	m.workers = nil

	for range m.numWorkers {
		m.spawnLocked()
	}

	m.log.Infow("mob processing queue manager started", "workers", m.numWorkers)
}

// Stop asks every worker to exit after its current item. It does not wait.
func (m *Manager) Stop() {
	if m.shouldContinue.CompareAndSwap(true, false) {
		m.log.Info("stopping mob processing queue manager")
	}
}

// Add admits item unless a worker is currently processing the same entity.
// The entity reference taken here is released when the item is dropped or
// once it has been processed.
func (m *Manager) Add(item models.QueueItem) bool {
	item.Entity.Acquire()

	m.mu.Lock()
	admitted := !m.inFlight.contains(item.EntityID())
	if admitted {
		m.items.Push(item)
	}
	depth := m.items.Len()
	m.mu.Unlock()

	if !admitted {
		item.Entity.Free()
		m.metrics.Duplicate()
		return false
	}

	m.metrics.Enqueued(depth)
	return true
}

// Clear discards every pending item, releasing the reference each one held.
// Items already taken by a worker are not affected.
func (m *Manager) Clear() int {
	m.mu.Lock()
	items := m.items.Drain()
	m.mu.Unlock()

	for _, item := range items {
		item.Entity.Free()
	}

	m.metrics.Cleared(len(items))
	if len(items) > 0 {
		m.log.Infow("cleared mob processing queue", "items", len(items))
	}

	return len(items)
}

func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items.Len()
}

func (m *Manager) InFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inFlight)
}

func (m *Manager) IsRunning() bool {
	return m.running.Load()
}

func (m *Manager) ActiveWorkers() int {
	return int(m.activeWorkers.Load())
}

func (m *Manager) SetIgnoreMobsWithNoPlayerContext(ignore bool) {
	m.ignoreNoPlayerContext.Store(ignore)
}

func (m *Manager) IgnoreMobsWithNoPlayerContext() bool {
	return m.ignoreNoPlayerContext.Load()
}

// Tasks returns the handles of the live workers.
func (m *Manager) Tasks() []*scheduler.Task {
	m.workersMu.Lock()
	defer m.workersMu.Unlock()

	tasks := make([]*scheduler.Task, 0, len(m.workers))
	for _, w := range m.workers {
		tasks = append(tasks, w.task)
	}
	return tasks
}

func (m *Manager) Status() models.QueueStatus {
	m.mu.Lock()
	status := models.QueueStatus{
		Size:     m.items.Len(),
		InFlight: len(m.inFlight),
	}
	m.mu.Unlock()

	status.Running = m.running.Load()
	status.ActiveWorkers = int(m.activeWorkers.Load())

	m.workersMu.Lock()
	for _, w := range m.workers {
		status.Workers = append(status.Workers, models.WorkerStatus{
			ID:        w.id,
			State:     w.task.State().String(),
			Cancelled: w.task.IsCancelled(),
		})
	}
	m.workersMu.Unlock()

	return status
}

// spawnLocked must be called with workersMu held.
func (m *Manager) spawnLocked() {
	m.nextWorkerID++
	w := &worker{id: m.nextWorkerID}

	m.metrics.Workers(m.activeWorkers.Add(1))
	w.task = m.runner.RunAsync(func(ctx context.Context) error {
		return m.work(ctx, w)
	})

	// a closed runner hands back a finished task that never ran
	select {
	case <-w.task.Done():
		if !w.started.Load() {
			m.retireLocked(w, true)
		}
	default:
	}

	m.workers = append(m.workers, w)
}

// retireLocked drops w from the active count. It runs at most once per
// worker, whichever of the watchdog or the worker itself gets there first.
// Must be called with workersMu held.
func (m *Manager) retireLocked(w *worker, exiting bool) {
	w.retired.Do(func() {
		n := m.activeWorkers.Add(-1)
		m.metrics.Workers(n)

		if exiting && n <= 0 {
			m.running.Store(false)
			m.log.Info("Mob processing queue manager has exited")
		}
	})
}

func (m *Manager) work(ctx context.Context, w *worker) error {
	w.started.Store(true)
	defer func() {
		m.workersMu.Lock()
		m.retireLocked(w, true)
		m.workersMu.Unlock()
	}()

	idle := time.NewTimer(m.pollInterval)
	defer idle.Stop()

	for {
		if !m.shouldContinue.Load() {
			if m.exitIfStopped(w) {
				return nil
			}
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		item, ok := m.next()
		if !ok {
			idle.Reset(m.pollInterval)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-idle.C:
			}
			continue
		}

		m.process(item)
	}
}

// exitIfStopped retires w unless a Start arrived since the stop was observed.
// The check runs under workersMu so it cannot interleave with Start.
func (m *Manager) exitIfStopped(w *worker) bool {
	m.workersMu.Lock()
	defer m.workersMu.Unlock()

	if m.shouldContinue.Load() {
		return false
	}
	m.retireLocked(w, true)
	return true
}

// next pops the oldest item and marks its entity in flight. A popped item
// whose entity another worker already owns is dropped.
func (m *Manager) next() (models.QueueItem, bool) {
	var dropped []models.QueueItem

	m.mu.Lock()
	item, ok := m.items.Pop()
	for ok && !m.inFlight.tryMark(item.EntityID()) {
		dropped = append(dropped, item)
		item, ok = m.items.Pop()
	}
	depth := m.items.Len()
	m.mu.Unlock()

	for _, d := range dropped {
		d.Entity.Free()
		m.metrics.Duplicate()
	}
	m.metrics.Dequeued(depth)

	return item, ok
}

func (m *Manager) process(item models.QueueItem) {
	start := time.Now()
	defer func() {
		m.mu.Lock()
		m.inFlight.unmark(item.EntityID())
		m.mu.Unlock()

		item.Entity.Free()
	}()

	outcome := m.evaluate(item)
	m.metrics.Processed(outcome.Kind, time.Since(start))

	switch outcome.Kind {
	case models.OutcomeTimedOut:
		result := false
		m.debug.Log(models.DebugTypeApplyLevelResult, item.Entity, &result, func() string {
			return "Timed out applying level to mob"
		})
	case models.OutcomeFaulted:
		m.log.Errorw("failed to process mob", "entity", item.EntityID(), "type", item.Entity.Type, "error", outcome.Err)
	}
}

func (m *Manager) evaluate(item models.QueueItem) (outcome models.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = models.Faulted(fmt.Errorf("processing panicked: %v", rec))
		}
	}()

	entity := item.Entity
	if !entity.IsPopulated() {
		return models.Skipped()
	}

	if m.ignoreNoPlayerContext.Load() && !entity.HasPlayerContext() && m.rules.IsPlayerLevellingEnabled() {
		m.debug.Log(models.DebugTypePlayerContext, entity, nil, func() string {
			return fmt.Sprintf("ignoring mob %s due to no player context at %s", entity.DisplayName(), entity.Location)
		})
		return models.Skipped()
	}

	return m.processor.Process(m.baseCtx, entity, item.Event)
}

type nopDebugSink struct{}

func (nopDebugSink) IsTypeEnabled(models.DebugType) bool { return false }

func (nopDebugSink) Log(models.DebugType, *models.LivingEntity, *bool, func() string) {}

// StaticRules is a RulesProvider with a fixed answer.
type StaticRules bool

func (r StaticRules) IsPlayerLevellingEnabled() bool { return bool(r) }
