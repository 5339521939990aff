package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vitals-triage-server/internal/domain"
)

// Service is the triage assessment orchestrator: the public entry point
// that sequences validation, threshold evaluation, aggregation,
// combination, classification, and explanation building, and the only
// component that talks to the external symptom analyzer.
type Service struct {
	logger     *logrus.Logger
	analyzer   domain.SymptomAnalyzer
	validator  *VitalsValidator
	thresholds *ThresholdTable
	aggregator *VitalsBoostAggregator
	combiner   *SeverityCombiner
	builder    *ExplanationBuilder
}

// NewService creates the orchestrator with the scoring components built
// from the given tunables. The threshold table is constructed once here
// and treated as immutable for the process lifetime.
func NewService(logger *logrus.Logger, analyzer domain.SymptomAnalyzer, cfg domain.TriageConfig) *Service {
	return &Service{
		logger:     logger,
		analyzer:   analyzer,
		validator:  NewVitalsValidator(cfg.StalenessWindow),
		thresholds: DefaultThresholdTable(),
		aggregator: NewVitalsBoostAggregator(cfg.VitalsCap),
		combiner:   NewSeverityCombiner(cfg.ConfidenceMargin),
		builder:    NewExplanationBuilder(),
	}
}

// Assess performs one complete triage assessment.
//
// Failure policy: analyzer unavailability fails the whole assessment
// (there is no vitals-only fallback; the base score is foundational).
// Invalid vitals degrade gracefully to symptom-only scoring with the
// validation error attached as a warning, since withholding an assessment
// in an emergency context is worse than a lower-confidence one. Stale
// vitals are silently treated as absent.
func (s *Service) Assess(ctx context.Context, symptomText string, vitals *domain.VitalsReading) (*domain.SeverityAssessment, error) {
	startTime := time.Now()

	if symptomText == "" {
		return nil, domain.NewTriageError(domain.ErrInvalidInput, "symptom text is required", "", "")
	}

	s.logger.WithFields(logrus.Fields{
		"symptom_length":  len(symptomText),
		"vitals_supplied": vitals != nil,
	}).Info("Starting triage assessment")

	// Step 1: obtain the base score from the external analyzer.
	analysis, err := s.analyzer.Analyze(ctx, symptomText)
	if err != nil {
		s.logger.WithError(err).Error("Symptom analyzer unavailable")
		return nil, domain.NewTriageError(domain.ErrAnalyzerUnavailable,
			"symptom analyzer unavailable", err.Error(), "")
	}
	if err := analysis.Validate(); err != nil {
		s.logger.WithError(err).WithField("base_score", analysis.BaseScore).Error("Analyzer returned out-of-contract base score")
		return nil, domain.NewTriageError(domain.ErrInvalidBaseScore,
			fmt.Sprintf("analyzer returned base score %.2f outside [0,10]", analysis.BaseScore), err.Error(), "")
	}

	// Steps 2-4: validate vitals, evaluate thresholds, aggregate boosts.
	now := time.Now()
	contribution := 0.0
	findings := make([]string, 0)
	dataQuality := SymptomOnlyDataQuality
	vitalsUsable := false
	var vitalsWarning *domain.ValidationError

	validated, validationErr := s.validator.Validate(vitals, now)
	switch {
	case validationErr != nil:
		// Degrade to symptom-only scoring; the error travels with the
		// result as a warning rather than failing the request.
		vitalsWarning = validationErr
		s.logger.WithFields(logrus.Fields{
			"field":       validationErr.Field,
			"value":       validationErr.Value,
			"valid_range": validationErr.ValidRange,
		}).Warn("Vitals rejected, proceeding with symptom-only scoring")
	case validated.Usable:
		vitalsUsable = true
		dataQuality = validated.Reading.DataQuality
		boosts := s.thresholds.EvaluateReading(validated.Reading)
		contribution, findings = s.aggregator.Aggregate(boosts)
	case validated.Stale:
		s.logger.WithField("staleness_window", s.validator.stalenessWindow).
			Debug("Vitals reading stale, treated as absent")
	}

	// Step 5: combine base score and vitals contribution.
	finalScore, interval, err := s.combiner.Combine(analysis.BaseScore, contribution, dataQuality)
	if err != nil {
		return nil, domain.NewTriageError(domain.ErrInvalidBaseScore, err.Error(), "", "")
	}

	// Steps 6-7: classify urgency and build explanations.
	urgency := domain.ClassifyUrgency(finalScore)
	assessment := &domain.SeverityAssessment{
		ID:                 uuid.New().String(),
		BaseScore:          analysis.BaseScore,
		VitalsContribution: contribution,
		FinalScore:         finalScore,
		ConfidenceInterval: interval,
		UrgencyLevel:       urgency,
		ConcerningFindings: findings,
		KeySymptoms:        analysis.KeySymptoms,
		Explanation:        s.builder.BuildExplanation(urgency, analysis.KeySymptoms, findings),
		VitalsExplanation:  s.builder.BuildVitalsExplanation(contribution, findings),
		VitalsSupplied:     vitals != nil && vitalsUsable,
		VitalsWarning:      vitalsWarning,
		ComputedAt:         now.UTC(),
	}

	if err := assessment.Validate(); err != nil {
		s.logger.WithError(err).Error("Assembled assessment failed invariant validation")
		return nil, domain.NewTriageError(domain.ErrInternalServer, "assessment failed internal validation", err.Error(), "")
	}

	s.logger.WithFields(logrus.Fields{
		"assessment_id":       assessment.ID,
		"base_score":          assessment.BaseScore,
		"vitals_contribution": assessment.VitalsContribution,
		"severity_score":      assessment.FinalScore,
		"urgency_level":       assessment.UrgencyLevel.String(),
		"findings":            len(assessment.ConcerningFindings),
		"processing_time":     time.Since(startTime),
	}).Info("Triage assessment completed")

	return assessment, nil
}
