package asynq

import (
	"context"
	"fmt"
	"time"

	"assetpulse/pkg/config"
	"assetpulse/pkg/logger"

	"github.com/hibiken/asynq"
)

const (
	// TypeRetentionPrune trims historical samples past the retention window
	TypeRetentionPrune = "telemetry:prune"
)

// Manager queue manager
type Manager struct {
	client    *asynq.Client
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

// NewManager creates queue manager
func NewManager(cfg *config.Config) (*Manager, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 10,
			},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Second
			},
		},
	)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})

	mux := asynq.NewServeMux()

	return &Manager{
		client:    client,
		server:    server,
		scheduler: scheduler,
		mux:       mux,
	}, nil
}

// RegisterHandler registers task handler
func (m *Manager) RegisterHandler(pattern string, handler asynq.Handler) {
	m.mux.Handle(pattern, handler)
}

// SchedulePrune registers the periodic retention prune task
func (m *Manager) SchedulePrune(intervalMinutes int) error {
	spec := fmt.Sprintf("@every %dm", intervalMinutes)
	task := asynq.NewTask(TypeRetentionPrune, nil)
	if _, err := m.scheduler.Register(spec, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to schedule prune task: %w", err)
	}
	return nil
}

// Start starts queue processor and scheduler
func (m *Manager) Start() error {
	logger.InfoCtx(context.Background(), "starting queue server")
	if err := m.server.Start(m.mux); err != nil {
		return err
	}
	return m.scheduler.Start()
}

// Stop stops queue processor and scheduler
func (m *Manager) Stop() {
	logger.InfoCtx(context.Background(), "stopping queue server")
	m.scheduler.Shutdown()
	m.server.Stop()
	m.server.Shutdown()
}

// Close closes client
func (m *Manager) Close() error {
	return m.client.Close()
}
