package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitals-triage-server/internal/domain"
)

// getTestPool returns a pgx pool for testing.
// Skip test if TEST_DATABASE_URL is not set.
func getTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS assessments (
			id UUID PRIMARY KEY,
			symptom_text TEXT NOT NULL DEFAULT '',
			base_score DOUBLE PRECISION NOT NULL,
			vitals_contribution DOUBLE PRECISION NOT NULL,
			severity_score DOUBLE PRECISION NOT NULL,
			confidence_lower DOUBLE PRECISION NOT NULL,
			confidence_upper DOUBLE PRECISION NOT NULL,
			urgency_level VARCHAR(20) NOT NULL,
			concerning_findings TEXT[] NOT NULL DEFAULT '{}',
			key_symptoms TEXT[] NOT NULL DEFAULT '{}',
			explanation TEXT NOT NULL,
			vitals_explanation TEXT NOT NULL DEFAULT '',
			vitals_supplied BOOLEAN NOT NULL DEFAULT FALSE,
			vitals_warning JSONB,
			computed_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, "DELETE FROM assessments")
	require.NoError(t, err)

	return pool
}

func testAssessment() *domain.SeverityAssessment {
	return &domain.SeverityAssessment{
		ID:                 uuid.New().String(),
		BaseScore:          7.0,
		VitalsContribution: 3.0,
		FinalScore:         10.0,
		ConfidenceInterval: domain.ConfidenceInterval{Lower: 9.85, Upper: 10.0},
		UrgencyLevel:       domain.CRITICAL,
		ConcerningFindings: []string{"elevated heart rate (125 bpm)", "low oxygen saturation (93 %)"},
		KeySymptoms:        []string{"chest pain"},
		Explanation:        "Critical severity: seek emergency care immediately.",
		VitalsExplanation:  "Concerning vitals detected: elevated heart rate (125 bpm), low oxygen saturation (93 %). This increased the severity score by +3.0 points.",
		VitalsSupplied:     true,
		ComputedAt:         time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestAssessmentRepository_SaveAndGet(t *testing.T) {
	pool := getTestPool(t)
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	repo := NewAssessmentRepository(pool, logger)

	ctx := context.Background()
	saved := testAssessment()

	require.NoError(t, repo.Save(ctx, saved, "severe chest pain and shortness of breath"))

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, saved.FinalScore, got.FinalScore)
	assert.Equal(t, saved.UrgencyLevel, got.UrgencyLevel)
	assert.Equal(t, saved.ConcerningFindings, got.ConcerningFindings)
	assert.True(t, got.VitalsSupplied)
	assert.Nil(t, got.VitalsWarning)
}

func TestAssessmentRepository_SavePreservesVitalsWarning(t *testing.T) {
	pool := getTestPool(t)
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	repo := NewAssessmentRepository(pool, logger)

	ctx := context.Background()
	saved := testAssessment()
	saved.VitalsSupplied = false
	saved.VitalsWarning = domain.NewValidationError(domain.VitalHeartRate, 999, "20-300")

	require.NoError(t, repo.Save(ctx, saved, "dizziness"))

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got.VitalsWarning)
	assert.Equal(t, domain.VitalHeartRate, got.VitalsWarning.Field)
	assert.Equal(t, "20-300", got.VitalsWarning.ValidRange)
}

func TestAssessmentRepository_GetByID_NotFound(t *testing.T) {
	pool := getTestPool(t)
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	repo := NewAssessmentRepository(pool, logger)

	_, err := repo.GetByID(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAssessmentRepository_ListRecent(t *testing.T) {
	pool := getTestPool(t)
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	repo := NewAssessmentRepository(pool, logger)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		a := testAssessment()
		a.ComputedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Save(ctx, a, "chest pain"))
	}

	list, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, !list[0].ComputedAt.Before(list[1].ComputedAt), "newest first")
}
