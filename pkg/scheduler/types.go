package scheduler

import (
	"context"
	"sync/atomic"
)

type Work func(ctx context.Context) error

type TaskState int32

const (
	TaskQueued TaskState = iota
	TaskRunning
	TaskFinished
)

func (s TaskState) String() string {
	switch s {
	case TaskQueued:
		return "queued"
	case TaskRunning:
		return "running"
	case TaskFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Task is the handle returned for every scheduled unit of work.
type Task struct {
	id        uint64
	state     atomic.Int32
	cancelled atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
	err       error
}

func newTask(id uint64, cancel context.CancelFunc) *Task {
	return &Task{
		id:     id,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

func (t *Task) ID() uint64 {
	return t.id
}

// Cancel marks the task cancelled and cancels its context.
// A running work function is not interrupted; it observes ctx.Done().
func (t *Task) Cancel() {
	t.cancelled.Store(true)
	t.cancel()
}

func (t *Task) IsCancelled() bool {
	return t.cancelled.Load()
}

func (t *Task) State() TaskState {
	return TaskState(t.state.Load())
}

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the error of the last run. Only meaningful after Done is closed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

func (t *Task) finish(err error) {
	t.err = err
	t.state.Store(int32(TaskFinished))
	t.cancel()
	close(t.done)
}
