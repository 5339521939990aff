// Package api exposes the triage engine over HTTP: assessment and
// retrieval endpoints, clinician feedback, a websocket stream for
// critical alerts, and health reporting.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vitals-triage-server/internal/domain"
	"github.com/vitals-triage-server/internal/feedback"
	"github.com/vitals-triage-server/internal/middleware"
)

// Server represents the HTTP server.
type Server struct {
	configManager domain.ConfigManager
	logger        *logrus.Logger
	engine        domain.TriageEngine
	repo          domain.AssessmentRepository
	feedbackStore feedback.Store
	alerts        *AlertHub
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance. The repository and
// feedback store are optional; their endpoints return 503 when absent
// (lite deployments run without PostgreSQL).
func NewServer(
	configManager domain.ConfigManager,
	logger *logrus.Logger,
	engine domain.TriageEngine,
	repo domain.AssessmentRepository,
	feedbackStore feedback.Store,
	alerts *AlertHub,
) *Server {
	cfg := configManager.GetConfig()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.AuditLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	if timeout := cfg.Server.RequestTimeout; timeout > 0 {
		router.Use(middleware.RequestTimeout(timeout))
	}

	server := &Server{
		configManager: configManager,
		logger:        logger,
		engine:        engine,
		repo:          repo,
		feedbackStore: feedbackStore,
		alerts:        alerts,
		router:        router,
	}

	server.setupRoutes()

	return server
}

// Start runs the HTTP server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// Router exposes the handler tree for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures the API routes.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/triage/assess", s.handleAssess)
		v1.GET("/assessments", s.handleListAssessments)
		v1.GET("/assessments/:id", s.handleGetAssessment)
		v1.POST("/assessments/:id/feedback", s.handleSubmitFeedback)
		v1.GET("/assessments/:id/feedback", s.handleGetFeedback)
		v1.GET("/alerts/stream", s.handleAlertStream)
	}
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"timestamp":         time.Now().UTC(),
		"version":           "1.0.0",
		"persistence":       s.repo != nil,
		"alert_subscribers": s.alerts.SubscriberCount(),
	})
}
