package services

import (
	"context"
	"math/rand/v2"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	srvErrors "github.com/arcaneplugins/levelledmobs/pkg/errors"
)

// RangeApplier picks a level uniformly in [Min, Max].
type RangeApplier struct {
	Min int
	Max int
}

func (a RangeApplier) ApplyLevel(ctx context.Context, entity *models.LivingEntity, event models.SpawnEvent) (int, error) {
	if event.IsLevelled || entity.Level() != nil {
		return 0, srvErrors.NewEvaluationError("mob is already levelled")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if a.Max <= a.Min {
		return a.Min, nil
	}
	return a.Min + rand.IntN(a.Max-a.Min+1), nil
}
