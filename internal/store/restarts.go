package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/arcaneplugins/levelledmobs/internal/models"
)

// ListOption narrows a worker restart query.
type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByReasons(reasons ...models.RestartReason) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(reasons) == 0 {
			return b
		}
		vals := make([]string, 0, len(reasons))
		for _, r := range reasons {
			vals = append(vals, string(r))
		}
		return b.Where(sq.Eq{"reason": vals})
	}
}

func ByWorker(id int) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{"worker_id": id})
	}
}

// Since keeps restarts at or after t.
func Since(t time.Time) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.GtOrEq{"restarted_at": t})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

// WithDefaultSort orders newest first with the id as tie-breaker.
func WithDefaultSort() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy("restarted_at DESC", "id DESC")
	}
}

// RestartStore is the journal of watchdog worker replacements.
type RestartStore struct {
	db QueryInterceptor
}

func NewRestartStore(db QueryInterceptor) *RestartStore {
	return &RestartStore{db: db}
}

// Save appends r and fills in its id. A zero At is set to now.
func (s *RestartStore) Save(ctx context.Context, r *models.WorkerRestart) error {
	if r.At.IsZero() {
		r.At = time.Now()
	}
	row := s.db.QueryRowContext(ctx, queryInsertRestart, r.WorkerID, string(r.Reason), r.QueueSize, r.At)
	if err := row.Scan(&r.ID); err != nil {
		return fmt.Errorf("failed to save worker restart: %w", err)
	}
	return nil
}

func (s *RestartStore) List(ctx context.Context, opts ...ListOption) ([]models.WorkerRestart, error) {
	builder := sq.Select("id", "worker_id", "reason", "queue_size", "restarted_at").From("worker_restarts")
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list worker restarts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var restarts []models.WorkerRestart
	for rows.Next() {
		var (
			r      models.WorkerRestart
			reason string
		)
		if err := rows.Scan(&r.ID, &r.WorkerID, &reason, &r.QueueSize, &r.At); err != nil {
			return nil, fmt.Errorf("failed to scan worker restart: %w", err)
		}
		r.Reason = models.RestartReason(reason)
		restarts = append(restarts, r)
	}

	return restarts, rows.Err()
}

// Count takes the filter options only.
func (s *RestartStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("worker_restarts")
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count worker restarts: %w", err)
	}
	return count, nil
}

// Prune deletes restarts older than before and returns how many were removed.
func (s *RestartStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, queryDeleteRestartsBefore, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune worker restarts: %w", err)
	}
	return res.RowsAffected()
}
