// Standalone triage server: rule-based symptom analysis, SQLite feedback
// storage, no PostgreSQL or Redis. Assessment persistence endpoints report
// unavailable in this mode.
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
	"github.com/vitals-triage-server/internal/config"
	"github.com/vitals-triage-server/internal/feedback"
	"github.com/vitals-triage-server/internal/triage"
)

func main() {
	cfg := config.LoadLiteConfig()
	if err := cfg.EnsureDataDir(); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	configManager := config.NewLiteManager(cfg)
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)

	feedbackStore, err := feedback.NewSQLiteStore(cfg.FeedbackDBPath())
	if err != nil {
		logger.WithError(err).Fatal("Failed to open feedback store")
	}
	defer feedbackStore.Close()

	engine := triage.NewService(logger, analyzer.NewRuleBasedAnalyzer(), *configManager.GetTriageConfig())

	alerts := api.NewAlertHub(logger)
	defer alerts.Close()

	server := api.NewServer(configManager, logger, engine, nil, feedbackStore, alerts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"host":     cfg.HTTPHost,
		"port":     cfg.HTTPPort,
		"data_dir": cfg.DataDir,
	}).Info("Starting standalone vitals triage server")

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
