package feedback

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitals-triage-server/internal/domain"
)

// getTestDB returns a database connection for testing.
// Skip test if TEST_DATABASE_URL is not set.
func getTestDB(t *testing.T) *sql.DB {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL tests")
	}

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS triage_feedback (
			id BIGSERIAL PRIMARY KEY,
			assessment_id TEXT NOT NULL,
			suggested_urgency TEXT NOT NULL,
			clinician_urgency TEXT NOT NULL,
			agreed BOOLEAN NOT NULL DEFAULT FALSE,
			clinician_id TEXT DEFAULT '',
			notes TEXT DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			CONSTRAINT triage_feedback_assessment_clinician_unique UNIQUE (assessment_id, clinician_id)
		)
	`)
	require.NoError(t, err)

	// Clean up before test
	_, err = db.Exec("DELETE FROM triage_feedback")
	require.NoError(t, err)

	return db
}

func TestPostgresStore_Save(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	fb := &TriageFeedback{
		AssessmentID:     "0c5ce1ec-7a6c-4f47-9f01-2d9fbb6f6d84",
		SuggestedUrgency: domain.URGENT,
		ClinicianUrgency: domain.URGENT,
		Agreed:           true,
		ClinicianID:      "dr-alvarez",
		Notes:            "Concur with suggested disposition",
	}

	err = store.Save(ctx, fb)
	require.NoError(t, err)
	assert.NotZero(t, fb.ID)
	assert.NotZero(t, fb.CreatedAt)
	assert.NotZero(t, fb.UpdatedAt)
}

func TestPostgresStore_SaveUpdate(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	fb := &TriageFeedback{
		AssessmentID:     "0c5ce1ec-7a6c-4f47-9f01-2d9fbb6f6d84",
		SuggestedUrgency: domain.URGENT,
		ClinicianUrgency: domain.STANDARD,
		Agreed:           false,
		ClinicianID:      "dr-alvarez",
	}

	err = store.Save(ctx, fb)
	require.NoError(t, err)
	originalID := fb.ID

	fb.ClinicianUrgency = domain.URGENT
	fb.Agreed = true
	fb.Notes = "Revised after imaging"

	err = store.Save(ctx, fb)
	require.NoError(t, err)

	// Same ID (upsert)
	assert.Equal(t, originalID, fb.ID)

	retrieved, err := store.Get(ctx, fb.AssessmentID, fb.ClinicianID)
	require.NoError(t, err)
	assert.Equal(t, domain.URGENT, retrieved.ClinicianUrgency)
	assert.True(t, retrieved.Agreed)
	assert.Equal(t, "Revised after imaging", retrieved.Notes)
}

func TestPostgresStore_Get(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	ctx := context.Background()

	fb, err := store.Get(ctx, "nonexistent", "")
	require.NoError(t, err)
	assert.Nil(t, fb)

	saved := &TriageFeedback{
		AssessmentID:     "7be0f5c3-07b1-4f0e-9d0f-8c4452e08c11",
		SuggestedUrgency: domain.CRITICAL,
		ClinicianUrgency: domain.CRITICAL,
		Agreed:           true,
		ClinicianID:      "dr-okafor",
	}
	err = store.Save(ctx, saved)
	require.NoError(t, err)

	retrieved, err := store.Get(ctx, saved.AssessmentID, saved.ClinicianID)
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, saved.AssessmentID, retrieved.AssessmentID)
	assert.Equal(t, saved.SuggestedUrgency, retrieved.SuggestedUrgency)
	assert.Equal(t, saved.ClinicianUrgency, retrieved.ClinicianUrgency)
}

func TestPostgresStore_List(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		fb := &TriageFeedback{
			AssessmentID:     "assessment-" + string(rune('a'+i)),
			SuggestedUrgency: domain.STANDARD,
			ClinicianUrgency: domain.STANDARD,
			Agreed:           true,
		}
		err = store.Save(ctx, fb)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond) // Ensure different timestamps
	}

	list, err := store.List(ctx, 3, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = store.List(ctx, 3, 3)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestPostgresStore_Count(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	ctx := context.Background()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	for i := 0; i < 3; i++ {
		fb := &TriageFeedback{
			AssessmentID:     "assessment-" + string(rune('a'+i)),
			SuggestedUrgency: domain.NON_URGENT,
			ClinicianUrgency: domain.NON_URGENT,
			Agreed:           true,
		}
		err = store.Save(ctx, fb)
		require.NoError(t, err)
	}

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestPostgresStore_Delete(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	ctx := context.Background()

	fb := &TriageFeedback{
		AssessmentID:     "0c5ce1ec-7a6c-4f47-9f01-2d9fbb6f6d84",
		SuggestedUrgency: domain.URGENT,
		ClinicianUrgency: domain.URGENT,
		Agreed:           true,
	}
	err = store.Save(ctx, fb)
	require.NoError(t, err)

	err = store.Delete(ctx, fb.ID)
	require.NoError(t, err)

	retrieved, err := store.Get(ctx, fb.AssessmentID, fb.ClinicianID)
	require.NoError(t, err)
	assert.Nil(t, retrieved)
}
