package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/internal/queue"
	srvErrors "github.com/arcaneplugins/levelledmobs/pkg/errors"
)

// LevelApplier computes and applies the level of a freshly spawned mob.
// Returning an EvaluationError means the mob was already handled elsewhere.
// Implementations should return once ctx is done: after a timeout the queue
// releases the entity and a later spawn of it may be processed while a stale
// call is still running. Results of stale calls are discarded.
type LevelApplier interface {
	ApplyLevel(ctx context.Context, entity *models.LivingEntity, event models.SpawnEvent) (int, error)
}

// Leveler is the queue processor used by the binary.
type Leveler struct {
	applier LevelApplier
	timeout time.Duration
	debug   queue.DebugSink
}

func NewLeveler(applier LevelApplier, timeout time.Duration, debug queue.DebugSink) *Leveler {
	return &Leveler{applier: applier, timeout: timeout, debug: debug}
}

type applyResult struct {
	level int
	err   error
}

// Process runs the applier under the configured timeout. The entity's Level
// is only written when the applier finished in time.
func (l *Leveler) Process(ctx context.Context, entity *models.LivingEntity, event models.SpawnEvent) models.Outcome {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	done := make(chan applyResult, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- applyResult{err: fmt.Errorf("applying level panicked: %v", rec)}
			}
		}()
		level, err := l.applier.ApplyLevel(ctx, entity, event)
		done <- applyResult{level: level, err: err}
	}()

	var res applyResult
	select {
	case <-ctx.Done():
		res.err = ctx.Err()
	case res = <-done:
	}

	switch {
	case res.err == nil:
		level := res.level
		entity.SetLevel(level)
		if l.debug != nil {
			ok := true
			l.debug.Log(models.DebugTypeApplyLevelResult, entity, &ok, func() string {
				return fmt.Sprintf("applied level %d", level)
			})
		}
		return models.Ok()
	case srvErrors.IsEvaluationError(res.err):
		return models.AlreadyHandled()
	case errors.Is(res.err, context.DeadlineExceeded):
		return models.TimedOut()
	default:
		return models.Faulted(res.err)
	}
}
