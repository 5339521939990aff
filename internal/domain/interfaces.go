package domain

import (
	"context"
)

// SymptomAnalyzer is the external narrative-analysis capability. The real
// implementation calls an LLM analysis service over HTTP; tests and the
// standalone deployment inject deterministic implementations. The
// orchestrator depends only on this interface, never on a concrete client.
type SymptomAnalyzer interface {
	Analyze(ctx context.Context, symptomText string) (*SymptomAnalysis, error)
}

// TriageEngine is the public entry point of the scoring engine.
type TriageEngine interface {
	Assess(ctx context.Context, symptomText string, vitals *VitalsReading) (*SeverityAssessment, error)
}

// AssessmentRepository persists completed assessments for retrieval by
// dashboards and audit. Persistence failures never fail an assessment.
type AssessmentRepository interface {
	Save(ctx context.Context, assessment *SeverityAssessment, symptomText string) error
	GetByID(ctx context.Context, id string) (*SeverityAssessment, error)
	ListRecent(ctx context.Context, limit int) ([]*SeverityAssessment, error)
}

// AlertPublisher receives assessments that require immediate attention.
type AlertPublisher interface {
	PublishAlert(assessment *SeverityAssessment)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetDatabaseConfig() *DatabaseConfig
	GetAnalyzerConfig() *AnalyzerConfig
	GetTriageConfig() *TriageConfig
	Validate() error
	GetDatabaseConnectionString() string
	GetDatabaseURL() string
	GetRedisConnectionString() string
}
