// Package feedback stores clinician feedback on triage assessments. It
// records whether the clinician agreed with the suggested urgency and
// what they assigned instead, building the dataset for threshold review.
package feedback

import (
	"context"
	"io"
	"time"

	"github.com/vitals-triage-server/internal/domain"
)

// TriageFeedback represents one clinician's verdict on an assessment.
type TriageFeedback struct {
	ID               int64               `json:"id,omitempty"`
	AssessmentID     string              `json:"assessment_id"`
	SuggestedUrgency domain.UrgencyLevel `json:"suggested_urgency"`
	ClinicianUrgency domain.UrgencyLevel `json:"clinician_urgency"`
	Agreed           bool                `json:"agreed"`
	ClinicianID      string              `json:"clinician_id,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// Store defines the interface for feedback storage operations.
type Store interface {
	// Save stores or updates feedback. A second submission by the same
	// clinician for the same assessment replaces the first.
	Save(ctx context.Context, feedback *TriageFeedback) error

	// Get retrieves feedback for an assessment. If clinicianID is empty,
	// the first matching entry is returned. A miss returns (nil, nil).
	Get(ctx context.Context, assessmentID, clinicianID string) (*TriageFeedback, error)

	// List returns feedback entries newest first with pagination.
	List(ctx context.Context, limit, offset int) ([]*TriageFeedback, error)

	// Count returns the total number of feedback entries.
	Count(ctx context.Context) (int64, error)

	// Delete removes a feedback entry by ID.
	Delete(ctx context.Context, id int64) error

	// ExportJSON exports all feedback to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON imports feedback from a JSON reader. Entries already
	// present are skipped, not overwritten.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close closes the store and releases resources.
	Close() error
}

// Export represents the JSON export format.
type Export struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Count      int               `json:"count"`
	Feedback   []*TriageFeedback `json:"feedback"`
}
