package domain

import (
	"fmt"
	"time"
)

// SymptomAnalysis is the output of the external narrative symptom analyzer.
// The base score is opaque to the scoring engine beyond its declared [0,10]
// range; everything else is carried through for explanation building.
type SymptomAnalysis struct {
	BaseScore   float64  `json:"base_score"`
	KeySymptoms []string `json:"key_symptoms,omitempty"`
	Narrative   string   `json:"narrative,omitempty"`
	Model       string   `json:"model,omitempty"`
}

// Validate enforces the analyzer contract. An out-of-range base score is a
// contract violation, fatal to the assessment.
func (a *SymptomAnalysis) Validate() error {
	if a.BaseScore < 0 || a.BaseScore > 10 {
		return fmt.Errorf("symptom analysis validation: base score %.2f outside [0,10]", a.BaseScore)
	}
	return nil
}

// SeverityAssessment is the immutable result record of one triage
// assessment. Constructed once by the orchestrator and handed to callers
// (API layer, persistence, alerting); the engine owns no long-lived state.
// JSON tags follow the documented external wire contract.
type SeverityAssessment struct {
	ID                 string             `json:"id"`
	BaseScore          float64            `json:"baseScore"`
	VitalsContribution float64            `json:"vitalsContribution"`
	FinalScore         float64            `json:"severityScore"`
	ConfidenceInterval ConfidenceInterval `json:"confidenceInterval"`
	UrgencyLevel       UrgencyLevel       `json:"urgencyLevel"`
	ConcerningFindings []string           `json:"concerningFindings"`
	KeySymptoms        []string           `json:"keySymptoms,omitempty"`
	Explanation        string             `json:"explanation"`
	VitalsExplanation  string             `json:"vitalsExplanation,omitempty"`

	// VitalsSupplied distinguishes "no vitals effect" from "no vitals at
	// all"; findings alone cannot (both are empty when vitals are normal).
	VitalsSupplied bool `json:"vitalsSupplied"`

	// VitalsWarning carries the INVALID_VITALS_DATA details when the
	// supplied vitals failed hard-bound validation and scoring proceeded
	// on symptoms alone.
	VitalsWarning *ValidationError `json:"vitalsWarning,omitempty"`

	ComputedAt time.Time `json:"computedAt"`
}

// Validate ensures the assembled assessment honors the engine invariants
// before it is handed to any consumer.
func (a *SeverityAssessment) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("assessment validation: ID is required")
	}
	if a.BaseScore < 0 || a.BaseScore > 10 {
		return fmt.Errorf("assessment validation: base score %.2f outside [0,10]", a.BaseScore)
	}
	if a.FinalScore < 0 || a.FinalScore > 10 {
		return fmt.Errorf("assessment validation: final score %.2f outside [0,10]", a.FinalScore)
	}
	if a.VitalsContribution < 0 {
		return fmt.Errorf("assessment validation: negative vitals contribution %.2f", a.VitalsContribution)
	}
	if !a.UrgencyLevel.IsValid() {
		return fmt.Errorf("assessment validation: %w", ErrInvalidUrgencyLevel)
	}
	if err := a.ConfidenceInterval.Validate(); err != nil {
		return fmt.Errorf("assessment validation: %w", err)
	}
	return nil
}

// LogFields returns structured logging fields for the audit trail.
func (a *SeverityAssessment) LogFields() map[string]any {
	return map[string]any{
		"assessment_id":       a.ID,
		"base_score":          a.BaseScore,
		"vitals_contribution": a.VitalsContribution,
		"severity_score":      a.FinalScore,
		"urgency_level":       a.UrgencyLevel.String(),
		"vitals_supplied":     a.VitalsSupplied,
		"findings_count":      len(a.ConcerningFindings),
	}
}
