package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"assetpulse/app/handler"
	"assetpulse/app/router"
	"assetpulse/internal/analyzer"
	"assetpulse/internal/service"
	"assetpulse/internal/stream"
	"assetpulse/pkg/config"
	"assetpulse/pkg/logger"
	"assetpulse/pkg/notification"
	"assetpulse/pkg/prediction"
	queue "assetpulse/pkg/queue/asynq"
	mysqlstore "assetpulse/pkg/store/mysql"
	redisstore "assetpulse/pkg/store/redis"
)

// initConfig initializes configuration
func (app *Application) initConfig() error {
	if err := config.Init(); err != nil {
		return err
	}
	app.config = config.GlobalConfig
	return nil
}

// initLogger initializes logging
func (app *Application) initLogger() error {
	if err := logger.Init(); err != nil {
		return err
	}
	app.registerCleanup(func() {
		logger.Sync()
		logger.InfoCtx(app.ctx, "Logging system has been closed")
	})
	return nil
}

// initMySQL initializes MySQL
func (app *Application) initMySQL() error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		app.config.MySQL.User,
		app.config.MySQL.Password,
		app.config.MySQL.Host,
		app.config.MySQL.Port,
		app.config.MySQL.Database,
	)

	repo, err := mysqlstore.NewRepository(dsn)
	if err != nil {
		return err
	}

	app.mysqlRepo = repo
	app.registerCleanup(func() {
		repo.Close()
		logger.InfoCtx(app.ctx, "MySQL connection has been closed")
	})

	return nil
}

// initRedis initializes Redis and the telemetry cache
func (app *Application) initRedis() error {
	client, err := redisstore.NewRedisClient(app.config)
	if err != nil {
		return err
	}

	app.redisClient = client
	app.telemetryCache = redisstore.NewTelemetryCache(client)
	app.registerCleanup(func() {
		client.Close()
		logger.InfoCtx(app.ctx, "Redis connection has been closed")
	})

	return nil
}

// initQueue initializes the asynq queue manager
func (app *Application) initQueue() error {
	mgr, err := queue.NewManager(app.config)
	if err != nil {
		return err
	}

	app.queueManager = mgr
	app.registerCleanup(func() {
		mgr.Close()
		logger.InfoCtx(app.ctx, "Queue client has been closed")
	})

	return nil
}

// initStreamHub initializes the websocket stream hub
func (app *Application) initStreamHub() error {
	app.streamHub = stream.NewHub()

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.streamHub.Run()
	}()
	app.registerCleanup(func() {
		app.streamHub.Stop()
		logger.InfoCtx(app.ctx, "Stream hub has been stopped")
	})

	return nil
}

// initServices initializes the analysis core and service layer
func (app *Application) initServices() error {
	var provider analyzer.PredictionProvider
	if app.config.Prediction.Enabled && app.config.Prediction.BaseURL != "" {
		provider = prediction.NewClient(app.config)
		logger.InfoCtx(app.ctx, "External prediction service enabled: %s", app.config.Prediction.BaseURL)
	} else {
		logger.InfoCtx(app.ctx, "External prediction service disabled, using local estimator")
	}
	app.healthAnalyzer = analyzer.New(provider)

	app.ingestService = service.NewIngestService(
		app.mysqlRepo.Telemetry,
		app.telemetryCache,
		app.healthAnalyzer,
		app.streamHub,
		notification.NewFeishuNotifier(),
	)
	app.telemetryService = service.NewTelemetryService(
		app.mysqlRepo.Telemetry,
		app.telemetryCache,
	)

	return nil
}

// initHandlers initializes the handler layer
func (app *Application) initHandlers() error {
	app.telemetryHandler = handler.NewTelemetryHandler(app.ingestService, app.telemetryService)
	app.streamHandler = handler.NewStreamHandler(app.streamHub)
	app.healthHandler = handler.NewHealthHandler(app.mysqlRepo, app.redisClient)
	return nil
}

// initHTTPServer initializes the HTTP server
func (app *Application) initHTTPServer() error {
	// Initialize router
	r := router.NewRouter(app.telemetryHandler, app.streamHandler, app.healthHandler, &app.config.RateLimit)

	// Set Gin mode
	gin.SetMode(app.config.Server.Mode)

	// Create Gin engine
	app.ginEngine = gin.New()
	app.ginEngine.Use(gin.Recovery())

	// Setup routes
	r.Setup(app.ginEngine)

	// Create HTTP server
	app.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.ginEngine,
	}

	return nil
}
