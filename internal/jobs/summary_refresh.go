package jobs

import (
	"context"
	"time"

	"assetpulse/internal/model"
	"assetpulse/pkg/logger"
	redisstore "assetpulse/pkg/store/redis"
)

// SummaryProvider recomputes the fleet health summary. Implemented by the
// telemetry service, which also refreshes the cached snapshot as a side effect.
type SummaryProvider interface {
	Summary(ctx context.Context) (*model.HealthSummary, error)
}

// SummaryRefreshJob keeps the fleet summary cache warm so dashboard reads
// rarely hit MySQL. A distributed lock keeps one replica doing the work.
type SummaryRefreshJob struct {
	provider SummaryProvider
	interval time.Duration
	lock     redisstore.DistributedLock
}

// NewSummaryRefreshJob creates the summary refresh job. lock may be nil in
// single-instance deployments.
func NewSummaryRefreshJob(provider SummaryProvider, interval time.Duration, lock redisstore.DistributedLock) *SummaryRefreshJob {
	return &SummaryRefreshJob{provider: provider, interval: interval, lock: lock}
}

func (j *SummaryRefreshJob) Name() string { return "summary-refresh" }

func (j *SummaryRefreshJob) Interval() time.Duration { return j.interval }

func (j *SummaryRefreshJob) Run(ctx context.Context) error {
	if j.lock != nil {
		acquired, err := j.lock.TryLock(ctx)
		if err != nil {
			return err
		}
		if !acquired {
			logger.DebugCtx(ctx, "another instance is refreshing the summary, skipping this cycle")
			return nil
		}
		defer j.lock.Unlock(ctx)
	}

	_, err := j.provider.Summary(ctx)
	return err
}
