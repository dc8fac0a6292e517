package queue

import (
	"fmt"
	"time"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/pkg/scheduler"
)

// CheckHealth replaces workers whose task was cancelled or has died, and
// replaces all of them once the queue reaches the saturation threshold.
// It returns how many workers were restarted. Nothing happens after Stop.
func (m *Manager) CheckHealth() int {
	if !m.shouldContinue.Load() {
		return 0
	}

	depth := m.Size()
	forceAll := depth >= m.saturation

	m.workersMu.Lock()

	var (
		kept      = make([]*worker, 0, len(m.workers))
		restarted []models.WorkerRestart
	)

	for _, w := range m.workers {
		reason, unhealthy := diagnose(w.task, forceAll)
		if !unhealthy {
			kept = append(kept, w)
			continue
		}

		r := models.WorkerRestart{
			WorkerID:  w.id,
			Reason:    reason,
			QueueSize: depth,
			At:        time.Now(),
		}
		m.log.Warnw(fmt.Sprintf("Restarting mob queue worker, status was %s", r.Status()), "worker", w.id)

		w.task.Cancel()
		m.retireLocked(w, false)
		restarted = append(restarted, r)
	}

	m.workers = kept
	for range restarted {
		m.spawnLocked()
	}
	if len(restarted) > 0 && m.activeWorkers.Load() > 0 {
		m.running.Store(true)
	}

	m.workersMu.Unlock()

	for _, r := range restarted {
		m.metrics.Restarted(r.Reason)
		if m.onRestart != nil {
			m.onRestart(r)
		}
	}

	return len(restarted)
}

func diagnose(task *scheduler.Task, forceAll bool) (models.RestartReason, bool) {
	cancelled := task.IsCancelled()
	dead := task.State() == scheduler.TaskFinished

	switch {
	case cancelled:
		return models.RestartReasonCancelled, true
	case dead && !forceAll:
		return models.RestartReasonNotRunning, true
	case forceAll:
		return models.RestartReasonSaturated, true
	default:
		return "", false
	}
}
