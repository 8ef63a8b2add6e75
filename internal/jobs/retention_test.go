package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	cutoff time.Time
	pruned int
	err    error
	calls  int
}

func (f *fakePruner) PruneHistoricalBefore(_ context.Context, cutoff time.Time) (int, error) {
	f.calls++
	f.cutoff = cutoff
	return f.pruned, f.err
}

func TestRetentionPruner_CutoffFromRetentionDays(t *testing.T) {
	pruner := &fakePruner{pruned: 42}
	handler := NewRetentionPruner(pruner, 30)

	task := asynq.NewTask("telemetry:prune", nil)
	require.NoError(t, handler.ProcessTask(context.Background(), task))

	assert.Equal(t, 1, pruner.calls)
	expected := time.Now().AddDate(0, 0, -30)
	assert.WithinDuration(t, expected, pruner.cutoff, 5*time.Second)
}

func TestRetentionPruner_NothingToPrune(t *testing.T) {
	pruner := &fakePruner{pruned: 0}
	handler := NewRetentionPruner(pruner, 30)

	require.NoError(t, handler.ProcessTask(context.Background(), asynq.NewTask("telemetry:prune", nil)))
	assert.Equal(t, 1, pruner.calls)
}

func TestRetentionPruner_StoreErrorPropagates(t *testing.T) {
	pruner := &fakePruner{err: errors.New("database gone")}
	handler := NewRetentionPruner(pruner, 30)

	err := handler.ProcessTask(context.Background(), asynq.NewTask("telemetry:prune", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database gone")
}
