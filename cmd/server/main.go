package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vitals-triage-server/internal/analyzer"
	"github.com/vitals-triage-server/internal/api"
	"github.com/vitals-triage-server/internal/cache"
	"github.com/vitals-triage-server/internal/config"
	"github.com/vitals-triage-server/internal/database"
	"github.com/vitals-triage-server/internal/feedback"
	"github.com/vitals-triage-server/internal/repository"
	"github.com/vitals-triage-server/internal/triage"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging.Level, cfg.Logging.Format)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run schema migrations before opening the pool
	runner, err := database.NewMigrationRunner(configManager.GetDatabaseURL(), cfg.Database.MigrationsPath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create migration runner")
	}
	if err := runner.Up(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}
	if err := runner.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close migration runner")
	}

	// Database connection pool
	db, err := database.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// Analyzer response cache (optional)
	var analysisCache analyzer.AnalysisCache
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Cache)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, falling back to in-memory cache only")
			redisClient = nil
		}
		analyzerCache, err := cache.NewAnalyzerCache(logger, redisClient, cfg.Cache)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create analyzer cache")
		}
		defer analyzerCache.Close()
		analysisCache = analyzerCache
	}

	// Symptom analyzer with circuit breaker and caching
	httpAnalyzer := analyzer.NewHTTPClient(cfg.Analyzer)
	resilientAnalyzer := analyzer.NewResilientClient(logger, httpAnalyzer, analysisCache)

	// Scoring engine
	engine := triage.NewService(logger, resilientAnalyzer, cfg.Triage)

	// Persistence
	repo := repository.NewAssessmentRepository(db.Pool, logger)

	feedbackStore, err := feedback.NewPostgresStoreFromURL(configManager.GetDatabaseURL())
	if err != nil {
		logger.WithError(err).Fatal("Failed to open feedback store")
	}
	defer feedbackStore.Close()

	// Critical alert fan-out
	alerts := api.NewAlertHub(logger)
	defer alerts.Close()

	// HTTP server
	server := api.NewServer(configManager, logger, engine, repo, feedbackStore, alerts)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting vitals triage server")

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

func newLogger(level, format string) *logrus.Logger {
	logger := logrus.New()

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}
