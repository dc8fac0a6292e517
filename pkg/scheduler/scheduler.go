package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type Scheduler struct {
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
	closed     bool
	nextID     atomic.Uint64
	once       sync.Once
	log        *zap.SugaredLogger
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		mainCtx:    ctx,
		mainCancel: cancel,
		log:        zap.S().Named("scheduler"),
	}
}

// RunAsync runs fn once on its own goroutine.
func (s *Scheduler) RunAsync(fn Work) *Task {
	return s.schedule(0, 0, fn)
}

// RunLater runs fn once after delay.
func (s *Scheduler) RunLater(delay time.Duration, fn Work) *Task {
	return s.schedule(delay, 0, fn)
}

// RunAtFixedRate runs fn after delay and then every period until the task
// is cancelled or the scheduler is closed. A failing run is logged and
// does not stop the task.
func (s *Scheduler) RunAtFixedRate(delay, period time.Duration, fn Work) *Task {
	if period <= 0 {
		period = time.Millisecond
	}
	return s.schedule(delay, period, fn)
}

// Close cancels every task and waits for running work functions to return.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.mainCancel()
		s.wg.Wait()
	})
}

func (s *Scheduler) schedule(delay, period time.Duration, fn Work) *Task {
	ctx, cancel := context.WithCancel(s.mainCtx)
	t := newTask(s.nextID.Add(1), cancel)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		t.finish(context.Canceled)
		return t
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(ctx, t, delay, period, fn)

	return t
}

func (s *Scheduler) run(ctx context.Context, t *Task, delay, period time.Duration, fn Work) {
	var err error
	defer func() {
		t.finish(err)
		s.wg.Done()
	}()

	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			err = ctx.Err()
			return
		case <-timer.C:
		}
	}

	if period == 0 {
		err = execute(ctx, t, fn)
		return
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		if runErr := execute(ctx, t, fn); runErr != nil {
			s.log.Warnw("periodic task failed", "task", t.id, "error", runErr)
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		case <-ticker.C:
		}
	}
}

func execute(ctx context.Context, t *Task, fn Work) (err error) {
	t.state.Store(int32(TaskRunning))
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task panicked: %v", rec)
		}
		t.state.Store(int32(TaskQueued))
	}()

	return fn(ctx)
}
