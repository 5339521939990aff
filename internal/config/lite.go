// Package config provides configuration management for the triage server.
// This file contains the lightweight configuration for standalone operation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vitals-triage-server/internal/domain"
)

// LiteConfig is a simplified configuration for standalone operation.
// It requires no PostgreSQL or Redis and uses sensible defaults: the
// rule-based analyzer, an in-memory cache, and SQLite feedback storage.
type LiteConfig struct {
	// Data storage
	DataDir string // Base directory for data files

	// Cache settings
	CacheMaxItems int           // Maximum items in memory cache
	CacheTTL      time.Duration // Default cache TTL

	// Triage settings
	StalenessWindow  time.Duration // Vitals older than this are treated as absent
	VitalsCap        float64       // Maximum total vitals contribution
	ConfidenceMargin float64       // Interval half-width at zero data quality

	// Server settings
	HTTPHost string
	HTTPPort int

	// Logging
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: json, text
}

// DefaultLiteConfig returns a configuration with sensible defaults.
func DefaultLiteConfig() *LiteConfig {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".vitals-triage")

	return &LiteConfig{
		DataDir:          dataDir,
		CacheMaxItems:    1000,
		CacheTTL:         24 * time.Hour,
		StalenessWindow:  60 * time.Minute,
		VitalsCap:        3.0,
		ConfidenceMargin: 1.5,
		HTTPHost:         "0.0.0.0",
		HTTPPort:         8080,
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

// LoadLiteConfig loads configuration from environment variables.
// Falls back to defaults if not set.
func LoadLiteConfig() *LiteConfig {
	cfg := DefaultLiteConfig()

	// Data directory
	if v := os.Getenv("TRIAGE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	// Cache settings
	if v := os.Getenv("TRIAGE_CACHE_MAX_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheMaxItems = n
		}
	}
	if v := os.Getenv("TRIAGE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheTTL = d
		}
	}

	// Triage tunables
	if v := os.Getenv("TRIAGE_STALENESS_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.StalenessWindow = d
		}
	}
	if v := os.Getenv("TRIAGE_VITALS_CAP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.VitalsCap = f
		}
	}
	if v := os.Getenv("TRIAGE_CONFIDENCE_MARGIN"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.ConfidenceMargin = f
		}
	}

	// Server
	if v := os.Getenv("TRIAGE_HTTP_HOST"); v != "" {
		cfg.HTTPHost = v
	}
	if v := os.Getenv("TRIAGE_HTTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	// Logging
	if v := os.Getenv("TRIAGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TRIAGE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	return cfg
}

// FeedbackDBPath returns the path to the feedback SQLite database.
func (c *LiteConfig) FeedbackDBPath() string {
	return filepath.Join(c.DataDir, "feedback.db")
}

// ExportDir returns the directory for JSON exports.
func (c *LiteConfig) ExportDir() string {
	return filepath.Join(c.DataDir, "exports")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *LiteConfig) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(c.ExportDir(), 0755)
}

// LiteManager adapts a LiteConfig to the ConfigManager interface so the
// HTTP server can run without Viper, PostgreSQL, or Redis.
type LiteManager struct {
	config *domain.Config
}

// NewLiteManager creates a ConfigManager backed by a LiteConfig.
func NewLiteManager(lc *LiteConfig) *LiteManager {
	return &LiteManager{
		config: &domain.Config{
			Server: domain.ServerConfig{
				Host:         lc.HTTPHost,
				Port:         lc.HTTPPort,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  120 * time.Second,
			},
			Cache: domain.CacheConfig{
				DefaultTTL:    lc.CacheTTL,
				MemoryEntries: lc.CacheMaxItems,
				Enabled:       true,
			},
			Triage: domain.TriageConfig{
				StalenessWindow:  lc.StalenessWindow,
				VitalsCap:        lc.VitalsCap,
				ConfidenceMargin: lc.ConfidenceMargin,
			},
			Logging: domain.LoggingConfig{
				Level:  lc.LogLevel,
				Format: lc.LogFormat,
				Output: "stdout",
			},
		},
	}
}

func (m *LiteManager) GetConfig() *domain.Config                 { return m.config }
func (m *LiteManager) GetServerConfig() *domain.ServerConfig     { return &m.config.Server }
func (m *LiteManager) GetDatabaseConfig() *domain.DatabaseConfig { return &m.config.Database }
func (m *LiteManager) GetAnalyzerConfig() *domain.AnalyzerConfig { return &m.config.Analyzer }
func (m *LiteManager) GetTriageConfig() *domain.TriageConfig     { return &m.config.Triage }
func (m *LiteManager) GetDatabaseConnectionString() string       { return "" }
func (m *LiteManager) GetDatabaseURL() string                    { return "" }
func (m *LiteManager) GetRedisConnectionString() string          { return "" }

// Validate checks the subset of settings the lite deployment uses.
func (m *LiteManager) Validate() error {
	if m.config.Server.Port <= 0 || m.config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", m.config.Server.Port)
	}
	if m.config.Triage.StalenessWindow <= 0 {
		return fmt.Errorf("staleness window must be positive")
	}
	return nil
}
