// Package repository persists completed assessments for audit and
// clinician review.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/vitals-triage-server/internal/domain"
)

// AssessmentRepository handles assessment persistence on PostgreSQL.
type AssessmentRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewAssessmentRepository creates a new assessment repository.
func NewAssessmentRepository(db *pgxpool.Pool, logger *logrus.Logger) *AssessmentRepository {
	return &AssessmentRepository{
		db:  db,
		log: logger,
	}
}

// Save inserts a completed assessment together with the narrative that
// produced it. Assessments are immutable records; there is no update path.
func (r *AssessmentRepository) Save(ctx context.Context, assessment *domain.SeverityAssessment, symptomText string) error {
	var warning []byte
	if assessment.VitalsWarning != nil {
		var err error
		warning, err = json.Marshal(assessment.VitalsWarning)
		if err != nil {
			return fmt.Errorf("marshaling vitals warning: %w", err)
		}
	}

	query := `
		INSERT INTO assessments (
			id, symptom_text, base_score, vitals_contribution, severity_score,
			confidence_lower, confidence_upper, urgency_level,
			concerning_findings, key_symptoms, explanation,
			vitals_explanation, vitals_supplied, vitals_warning, computed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)`

	_, err := r.db.Exec(ctx, query,
		assessment.ID,
		symptomText,
		assessment.BaseScore,
		assessment.VitalsContribution,
		assessment.FinalScore,
		assessment.ConfidenceInterval.Lower,
		assessment.ConfidenceInterval.Upper,
		assessment.UrgencyLevel.String(),
		assessment.ConcerningFindings,
		assessment.KeySymptoms,
		assessment.Explanation,
		assessment.VitalsExplanation,
		assessment.VitalsSupplied,
		warning,
		assessment.ComputedAt,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"assessment_id": assessment.ID,
			"error":         err,
		}).Error("Failed to save assessment")
		return fmt.Errorf("saving assessment: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"assessment_id": assessment.ID,
		"urgency_level": assessment.UrgencyLevel.String(),
	}).Info("Assessment saved")

	return nil
}

// GetByID retrieves one assessment by its ID.
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*domain.SeverityAssessment, error) {
	query := `
		SELECT id, base_score, vitals_contribution, severity_score,
			   confidence_lower, confidence_upper, urgency_level,
			   concerning_findings, key_symptoms, explanation,
			   vitals_explanation, vitals_supplied, vitals_warning, computed_at
		FROM assessments
		WHERE id = $1`

	assessment, err := r.scanAssessment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("assessment not found: %w", domain.ErrNotFound)
		}
		r.log.WithFields(logrus.Fields{
			"assessment_id": id,
			"error":         err,
		}).Error("Failed to get assessment by ID")
		return nil, fmt.Errorf("getting assessment by ID: %w", err)
	}

	return assessment, nil
}

// ListRecent returns the most recently computed assessments, newest first.
func (r *AssessmentRepository) ListRecent(ctx context.Context, limit int) ([]*domain.SeverityAssessment, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, base_score, vitals_contribution, severity_score,
			   confidence_lower, confidence_upper, urgency_level,
			   concerning_findings, key_symptoms, explanation,
			   vitals_explanation, vitals_supplied, vitals_warning, computed_at
		FROM assessments
		ORDER BY computed_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.WithError(err).Error("Failed to list recent assessments")
		return nil, fmt.Errorf("listing recent assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*domain.SeverityAssessment
	for rows.Next() {
		assessment, err := r.scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assessment row: %w", err)
		}
		assessments = append(assessments, assessment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assessment rows: %w", err)
	}

	return assessments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *AssessmentRepository) scanAssessment(row rowScanner) (*domain.SeverityAssessment, error) {
	var assessment domain.SeverityAssessment
	var urgency string
	var warning []byte
	var computedAt time.Time

	err := row.Scan(
		&assessment.ID,
		&assessment.BaseScore,
		&assessment.VitalsContribution,
		&assessment.FinalScore,
		&assessment.ConfidenceInterval.Lower,
		&assessment.ConfidenceInterval.Upper,
		&urgency,
		&assessment.ConcerningFindings,
		&assessment.KeySymptoms,
		&assessment.Explanation,
		&assessment.VitalsExplanation,
		&assessment.VitalsSupplied,
		&warning,
		&computedAt,
	)
	if err != nil {
		return nil, err
	}

	assessment.UrgencyLevel = domain.UrgencyLevel(urgency)
	assessment.ComputedAt = computedAt
	if len(warning) > 0 {
		var ve domain.ValidationError
		if err := json.Unmarshal(warning, &ve); err != nil {
			return nil, fmt.Errorf("unmarshaling vitals warning: %w", err)
		}
		assessment.VitalsWarning = &ve
	}

	return &assessment, nil
}
