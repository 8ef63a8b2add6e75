package jobs

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"assetpulse/pkg/logger"
	"assetpulse/pkg/metrics"
)

// HistoricalPruner trims historical samples older than a cutoff. Implemented
// by the MySQL telemetry repository.
type HistoricalPruner interface {
	PruneHistoricalBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// RetentionPruner is the asynq handler for the periodic retention prune task.
type RetentionPruner struct {
	store         HistoricalPruner
	retentionDays int
}

// NewRetentionPruner creates the retention prune handler
func NewRetentionPruner(store HistoricalPruner, retentionDays int) *RetentionPruner {
	return &RetentionPruner{
		store:         store,
		retentionDays: retentionDays,
	}
}

// ProcessTask removes historical samples older than the retention window
func (p *RetentionPruner) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	cutoff := time.Now().AddDate(0, 0, -p.retentionDays)

	pruned, err := p.store.PruneHistoricalBefore(ctx, cutoff)
	if err != nil {
		logger.ErrorCtx(ctx, "retention prune failed: %v", err)
		return err
	}

	if pruned > 0 {
		metrics.HistoricalPrunedTotal.Add(float64(pruned))
		logger.InfoCtx(ctx, "retention prune removed %d historical samples older than %s", pruned, cutoff.Format(time.RFC3339))
	}

	return nil
}
