package domain

import (
	"fmt"
	"time"
)

// Error codes for the documented failure scenarios.
const (
	ErrInvalidVitalsData   = "INVALID_VITALS_DATA"
	ErrAnalyzerUnavailable = "ANALYZER_UNAVAILABLE"
	ErrInvalidBaseScore    = "INVALID_BASE_SCORE"
	ErrInvalidInput        = "INVALID_INPUT"
	ErrDatabaseError       = "DATABASE_ERROR"
	ErrInternalServer      = "INTERNAL_SERVER_ERROR"
	ErrRecordNotFound      = "NOT_FOUND"
)

// TriageError is the standardized service-level error response. The Code is
// stable and machine-readable; ANALYZER_UNAVAILABLE and INVALID_BASE_SCORE
// are fatal to an assessment, INVALID_VITALS_DATA is surfaced as a warning
// alongside a symptom-only result.
type TriageError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId,omitempty"`
}

// Error implements the error interface
func (e *TriageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewTriageError creates a new TriageError with timestamp
func NewTriageError(code, message, details, requestID string) *TriageError {
	return &TriageError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// IsFatal reports whether the error must fail the whole assessment rather
// than degrade it. Symptom-only CRITICAL detection must still function when
// only the vitals input is bad.
func (e *TriageError) IsFatal() bool {
	switch e.Code {
	case ErrAnalyzerUnavailable, ErrInvalidBaseScore, ErrInvalidInput, ErrInternalServer:
		return true
	default:
		return false
	}
}

// ValidationError describes one vital field outside its physiological hard
// bound. Its fields are the exact details payload of the documented
// INVALID_VITALS_DATA response.
type ValidationError struct {
	Field      string      `json:"field"`
	Value      interface{} `json:"value"`
	ValidRange string      `json:"validRange"`
	Message    string      `json:"message,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("vital %q value %v outside valid range %s", e.Field, e.Value, e.ValidRange)
}

// NewValidationError creates a new out-of-range validation error.
func NewValidationError(field string, value interface{}, validRange string) *ValidationError {
	return &ValidationError{
		Field:      field,
		Value:      value,
		ValidRange: validRange,
		Message:    fmt.Sprintf("%s must be within %s", field, validRange),
	}
}
