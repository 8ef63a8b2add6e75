package main

import (
	"time"

	"github.com/hibiken/asynq"

	"assetpulse/internal/jobs"
	queue "assetpulse/pkg/queue/asynq"
	redisstore "assetpulse/pkg/store/redis"
)

const summaryRefreshInterval = time.Minute

// initJobs initializes background jobs: the asynq retention prune task and
// the in-process summary cache refresher.
func (app *Application) initJobs() error {
	pruner := jobs.NewRetentionPruner(app.mysqlRepo.Telemetry, app.config.Retention.HistoricalDays)
	app.queueManager.RegisterHandler(queue.TypeRetentionPrune, asynq.HandlerFunc(pruner.ProcessTask))
	if err := app.queueManager.SchedulePrune(app.config.Retention.PruneInterval); err != nil {
		return err
	}

	// One replica refreshes the summary; the others skip their cycles
	summaryLock := redisstore.NewDistributedLock(app.redisClient.GetClient(), "jobs:summary-refresh-lock")

	app.jobsManager = jobs.NewManager(app.ctx)
	app.jobsManager.Register(jobs.NewSummaryRefreshJob(app.telemetryService, summaryRefreshInterval, summaryLock))

	return nil
}
