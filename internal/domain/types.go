// Package domain contains core business entities and types for vitals-enhanced
// triage severity scoring: the deterministic fusion of a symptom-derived base
// severity score with objective wearable-vitals signals into a bounded severity
// score, an urgency classification, and a human-readable explanation.
package domain

import (
	"errors"
	"fmt"
)

// UrgencyLevel represents the triage urgency classification of an assessment.
// The four levels are ordered by increasing need for immediate care and are
// the values dashboards, alerting, and hospital routing all switch on.
type UrgencyLevel string

const (
	NON_URGENT UrgencyLevel = "NON_URGENT"
	STANDARD   UrgencyLevel = "STANDARD"
	URGENT     UrgencyLevel = "URGENT"
	CRITICAL   UrgencyLevel = "CRITICAL"
)

// VitalBand represents the clinical threshold band of a single vital reading.
type VitalBand string

const (
	NORMAL_BAND     VitalBand = "NORMAL"
	CONCERNING_BAND VitalBand = "CONCERNING"
	CRITICAL_BAND   VitalBand = "CRITICAL"
)

// VitalSource represents the origin of a vitals reading.
type VitalSource string

const (
	SOURCE_WEARABLE VitalSource = "WEARABLE"
	SOURCE_MANUAL   VitalSource = "MANUAL"
	SOURCE_UNKNOWN  VitalSource = "UNKNOWN"
)

// Validation errors for triage data integrity
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidUrgencyLevel = errors.New("invalid urgency level")
	ErrInvalidVitalBand    = errors.New("invalid vital band")
	ErrInvalidVitalSource  = errors.New("invalid vital source")
)

// IsValid validates that the UrgencyLevel is one of the four closed levels.
// Critical for medical software: an invalid level must never reach alerting
// or routing consumers.
func (u UrgencyLevel) IsValid() bool {
	switch u {
	case NON_URGENT, STANDARD, URGENT, CRITICAL:
		return true
	default:
		return false
	}
}

// String returns the string representation of the urgency level.
func (u UrgencyLevel) String() string {
	return string(u)
}

// Rank returns the ordinal position of the urgency level, NON_URGENT lowest.
// Used to assert monotonicity: worsening vitals must never lower the rank.
func (u UrgencyLevel) Rank() int {
	switch u {
	case NON_URGENT:
		return 0
	case STANDARD:
		return 1
	case URGENT:
		return 2
	case CRITICAL:
		return 3
	default:
		return -1
	}
}

// RequiresImmediateCare reports whether the level demands emergency handling.
func (u UrgencyLevel) RequiresImmediateCare() bool {
	switch u {
	case CRITICAL, URGENT:
		return true
	case STANDARD, NON_URGENT:
		return false
	default:
		return true // Conservative approach for unknown levels
	}
}

// LogFields returns structured logging fields for audit trails.
func (u UrgencyLevel) LogFields() map[string]any {
	return map[string]any{
		"urgency_level":           string(u),
		"urgency_rank":            u.Rank(),
		"is_valid":                u.IsValid(),
		"requires_immediate_care": u.RequiresImmediateCare(),
	}
}

// ClassifyUrgency maps a final severity score to an urgency level.
// Cutoffs are inclusive on the lower bound: 8.0 is CRITICAL, 6.0 is URGENT,
// 4.0 is STANDARD. Total and exhaustive over [0,10].
func ClassifyUrgency(finalScore float64) UrgencyLevel {
	switch {
	case finalScore >= 8.0:
		return CRITICAL
	case finalScore >= 6.0:
		return URGENT
	case finalScore >= 4.0:
		return STANDARD
	default:
		return NON_URGENT
	}
}

// IsValid validates the vital band.
func (b VitalBand) IsValid() bool {
	switch b {
	case NORMAL_BAND, CONCERNING_BAND, CRITICAL_BAND:
		return true
	default:
		return false
	}
}

// String returns the string representation of the band.
func (b VitalBand) String() string {
	return string(b)
}

// IsValid validates the vital source.
func (s VitalSource) IsValid() bool {
	switch s {
	case SOURCE_WEARABLE, SOURCE_MANUAL, SOURCE_UNKNOWN:
		return true
	default:
		return false
	}
}

// String returns the string representation of the source.
func (s VitalSource) String() string {
	return string(s)
}

// ConfidenceInterval brackets a final severity score. Both bounds are
// clamped to the [0,10] score domain.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains reports whether the score lies inside the interval.
func (ci ConfidenceInterval) Contains(score float64) bool {
	return score >= ci.Lower && score <= ci.Upper
}

// Validate ensures the interval is well formed within the score domain.
func (ci ConfidenceInterval) Validate() error {
	if ci.Lower > ci.Upper {
		return fmt.Errorf("confidence interval validation: lower %.3f exceeds upper %.3f", ci.Lower, ci.Upper)
	}
	if ci.Lower < 0 || ci.Upper > 10 {
		return fmt.Errorf("confidence interval validation: bounds [%.3f, %.3f] outside score domain [0,10]", ci.Lower, ci.Upper)
	}
	return nil
}
