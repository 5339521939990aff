package feedback

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vitals-triage-server/internal/domain"
)

// SQLiteStore implements the Store interface using SQLite. It is the
// store for lite deployments with no PostgreSQL available.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite feedback store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanFeedback scans a row into a TriageFeedback struct.
func scanFeedback(s scanner) (*TriageFeedback, error) {
	fb := &TriageFeedback{}
	var suggested, clinician string

	err := s.Scan(
		&fb.ID, &fb.AssessmentID, &suggested, &clinician,
		&fb.Agreed, &fb.ClinicianID, &fb.Notes,
		&fb.CreatedAt, &fb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	fb.SuggestedUrgency = domain.UrgencyLevel(suggested)
	fb.ClinicianUrgency = domain.UrgencyLevel(clinician)
	return fb, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS triage_feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		assessment_id TEXT NOT NULL,
		suggested_urgency TEXT NOT NULL,
		clinician_urgency TEXT NOT NULL,
		agreed INTEGER NOT NULL DEFAULT 0,
		clinician_id TEXT DEFAULT '',
		notes TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(assessment_id, clinician_id)
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_assessment ON triage_feedback(assessment_id);
	CREATE INDEX IF NOT EXISTS idx_feedback_agreed ON triage_feedback(agreed);
	CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON triage_feedback(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Save stores or updates feedback for an assessment.
func (s *SQLiteStore) Save(ctx context.Context, feedback *TriageFeedback) error {
	now := time.Now()

	var existingID int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM triage_feedback WHERE assessment_id = ? AND clinician_id = ?",
		feedback.AssessmentID, feedback.ClinicianID,
	).Scan(&existingID)

	if err == nil {
		feedback.ID = existingID
		feedback.UpdatedAt = now

		_, err = s.db.ExecContext(ctx, `
			UPDATE triage_feedback SET
				suggested_urgency = ?,
				clinician_urgency = ?,
				agreed = ?,
				notes = ?,
				updated_at = ?
			WHERE id = ?
		`,
			feedback.SuggestedUrgency.String(),
			feedback.ClinicianUrgency.String(),
			feedback.Agreed,
			feedback.Notes,
			now,
			existingID,
		)
		return err
	}

	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check existing: %w", err)
	}

	feedback.CreatedAt = now
	feedback.UpdatedAt = now

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO triage_feedback (
			assessment_id, suggested_urgency, clinician_urgency,
			agreed, clinician_id, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		feedback.AssessmentID,
		feedback.SuggestedUrgency.String(),
		feedback.ClinicianUrgency.String(),
		feedback.Agreed,
		feedback.ClinicianID,
		feedback.Notes,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert ID: %w", err)
	}
	feedback.ID = id

	return nil
}

// Get retrieves feedback for an assessment.
func (s *SQLiteStore) Get(ctx context.Context, assessmentID, clinicianID string) (*TriageFeedback, error) {
	query := `
		SELECT id, assessment_id, suggested_urgency, clinician_urgency,
			agreed, clinician_id, notes, created_at, updated_at
		FROM triage_feedback
		WHERE assessment_id = ?`
	args := []interface{}{assessmentID}

	if clinicianID != "" {
		query += " AND clinician_id = ?"
		args = append(args, clinicianID)
	}
	query += " LIMIT 1"

	fb, err := scanFeedback(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return fb, nil
}

// List returns feedback entries newest first with pagination.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*TriageFeedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, assessment_id, suggested_urgency, clinician_urgency,
			agreed, clinician_id, notes, created_at, updated_at
		FROM triage_feedback
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*TriageFeedback
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, fb)
	}
	return result, rows.Err()
}

// Count returns the total number of feedback entries.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM triage_feedback").Scan(&count)
	return count, err
}

// Delete removes a feedback entry by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM triage_feedback WHERE id = ?", id)
	return err
}

// maxExportLimit is the maximum number of entries to export at once.
const maxExportLimit = 1000000

// ExportJSON exports all feedback to a JSON writer.
func (s *SQLiteStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	all, err := s.List(ctx, maxExportLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list feedback: %w", err)
	}

	export := &Export{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Count:      len(all),
		Feedback:   all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// ImportJSON imports feedback from a JSON reader.
func (s *SQLiteStore) ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error) {
	var export Export
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	for _, fb := range export.Feedback {
		existing, err := s.Get(ctx, fb.AssessmentID, fb.ClinicianID)
		if err != nil {
			return imported, skipped, fmt.Errorf("failed to check existing: %w", err)
		}

		if existing != nil {
			skipped++
			continue
		}

		if err := s.Save(ctx, fb); err != nil {
			return imported, skipped, fmt.Errorf("failed to save: %w", err)
		}
		imported++
	}

	return imported, skipped, nil
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
