package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-service/internal/assistant"
	"inventory-service/internal/cache"
	"inventory-service/internal/config"
	"inventory-service/internal/database"
	"inventory-service/internal/handlers"
	"inventory-service/internal/metrics"
	"inventory-service/internal/middleware"
	"inventory-service/internal/report"
	"inventory-service/internal/repository"
	"inventory-service/internal/routes"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// 2. Initialize Logger
	logger := newLogger(cfg)
	defer logger.Sync()

	// 3. Open Storage
	sqlDB, err := database.NewSQLDB(
		cfg.Database.Driver,
		cfg.Database.URL,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
		logger,
	)
	if err != nil {
		logger.Fatal("Could not open database", zap.Error(err))
	}
	defer sqlDB.Close()

	store := repository.NewStore(sqlDB.DB, logger)
	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.Init(initCtx); err != nil {
		cancelInit()
		logger.Fatal("Could not initialize storage", zap.Error(err))
	}
	cancelInit()
	defer store.Close()

	// 4. Initialize Redis (optional) and analytics cache
	redisDB, err := database.NewRedisDB(cfg.Redis, logger)
	if err != nil {
		logger.Warn("Could not connect to Redis, analytics cache will be memory-only", zap.Error(err))
		redisDB = nil
	}
	if redisDB != nil {
		defer redisDB.Close()
	}

	var redisClient *redis.Client
	if redisDB != nil {
		redisClient = redisDB.Client
	}
	analyticsCache := cache.NewAnalyticsCache(redisClient, cfg.Cache.L1Size, cfg.Cache.TTL, logger)
	defer analyticsCache.Close()

	collector := metrics.NewCollector()

	// 5. Initialize Services
	location := time.Local
	itemService := services.NewItemService(store, logger)
	stockService := services.NewStockService(store, location, logger)
	backupService := services.NewBackupService(store, logger)
	analyticsService := services.NewAnalyticsService(store, analyticsCache, cfg.Analytics.TopN, location, logger)
	monitoringService := services.NewMonitoringService(services.MonitoringDeps{
		Config:    cfg,
		Store:     store,
		SQLDB:     sqlDB,
		RedisDB:   redisDB,
		Cache:     analyticsCache,
		Collector: collector,
	}, logger)

	exporter := report.NewExporter(location)

	// 5.5 Initialize Assistant (optional)
	aiAssistant, err := assistant.NewOpenAI(cfg.AI, logger)
	if err != nil {
		if !errors.Is(err, assistant.ErrNotConfigured) {
			logger.Warn("Could not configure AI assistant", zap.Error(err))
		}
		aiAssistant = nil
	}

	// 6. Initialize Handlers
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService, logger)
	h := routes.Handlers{
		Item:       handlers.NewItemHandler(itemService, stockService, logger),
		Stock:      handlers.NewStockHandler(stockService, collector, location, logger),
		Report:     handlers.NewReportHandler(stockService, exporter, location, logger),
		Analytics:  handlers.NewAnalyticsHandler(analyticsService, collector, logger),
		Backup:     handlers.NewBackupHandler(backupService, collector, logger),
		Assistant:  handlers.NewAssistantHandler(aiAssistant, analyticsService, logger),
		Monitoring: monitoringHandler,
	}
	healthChecker := middleware.NewHealthChecker(sqlDB, redisDB, logger)

	// 7. Configure Router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger, "/health", "/metrics"))
	router.Use(monitoringHandler.RecordRequestMiddleware())

	routes.SetupRoutes(router, h, healthChecker, collector)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 8. Start HTTP Server
	middleware.ServerInfo(cfg, aiAssistant != nil, logger)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// newLogger logger JSON de producción; consola de desarrollo con GIN_MODE=debug o LOG_LEVEL=debug
func newLogger(cfg *config.Config) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Server.GinMode == gin.DebugMode || level == zapcore.DebugLevel {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
