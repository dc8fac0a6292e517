package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/internal/store"
)

// RestartJournal persists the workers replaced by the watchdog.
type RestartJournal struct {
	store *store.Store
	log   *zap.SugaredLogger
}

func NewRestartJournal(st *store.Store) *RestartJournal {
	return &RestartJournal{store: st, log: zap.S().Named("restart_journal")}
}

// Record is meant to be passed to queue.WithRestartHook. Failures are only logged.
func (j *RestartJournal) Record(r models.WorkerRestart) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := j.store.Restarts().Save(ctx, &r); err != nil {
		j.log.Errorw("failed to record worker restart", "worker", r.WorkerID, "reason", r.Reason, "error", err)
	}
}

// Prune drops the restarts recorded more than retention ago.
func (j *RestartJournal) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := j.store.Restarts().Prune(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.log.Debugw("pruned worker restarts", "count", n, "retention", retention)
	}
	return n, nil
}

type RestartListParams struct {
	Reasons  []models.RestartReason
	WorkerID int
	Since    time.Time
	Limit    uint64
	Offset   uint64
}

type RestartListResult struct {
	Restarts []models.WorkerRestart
	Total    int
}

func (j *RestartJournal) List(ctx context.Context, params RestartListParams) (*RestartListResult, error) {
	filters := j.buildFilters(params)

	opts := append([]store.ListOption{}, filters...)
	opts = append(opts, store.WithDefaultSort())
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	restarts, err := j.store.Restarts().List(ctx, opts...)
	if err != nil {
		return nil, err
	}

	total, err := j.store.Restarts().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	return &RestartListResult{Restarts: restarts, Total: total}, nil
}

func (j *RestartJournal) buildFilters(params RestartListParams) []store.ListOption {
	var opts []store.ListOption

	if len(params.Reasons) > 0 {
		opts = append(opts, store.ByReasons(params.Reasons...))
	}
	if params.WorkerID > 0 {
		opts = append(opts, store.ByWorker(params.WorkerID))
	}
	if !params.Since.IsZero() {
		opts = append(opts, store.Since(params.Since))
	}

	return opts
}
