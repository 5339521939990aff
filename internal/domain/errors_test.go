package domain

import (
	"testing"
	"time"
)

func TestTriageError(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		message   string
		details   string
		requestID string
		fatal     bool
	}{
		{
			name:      "Analyzer unavailable",
			code:      ErrAnalyzerUnavailable,
			message:   "symptom analyzer did not respond",
			details:   "request timed out after 10s",
			requestID: "req-123",
			fatal:     true,
		},
		{
			name:      "Invalid base score",
			code:      ErrInvalidBaseScore,
			message:   "analyzer returned base score 12.5",
			details:   "base score must be within [0,10]",
			requestID: "req-456",
			fatal:     true,
		},
		{
			name:      "Invalid vitals data",
			code:      ErrInvalidVitalsData,
			message:   "heart rate outside physiological bounds",
			details:   "value 999 outside 20-300",
			requestID: "req-789",
			fatal:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTriageError(tt.code, tt.message, tt.details, tt.requestID)

			if err.Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, err.Code)
			}
			if err.Message != tt.message {
				t.Errorf("Expected message %s, got %s", tt.message, err.Message)
			}
			if err.RequestID != tt.requestID {
				t.Errorf("Expected requestID %s, got %s", tt.requestID, err.RequestID)
			}
			if err.IsFatal() != tt.fatal {
				t.Errorf("Expected IsFatal %v for %s", tt.fatal, tt.code)
			}

			if time.Since(err.Timestamp) > time.Minute {
				t.Errorf("Timestamp should be recent, got %v", err.Timestamp)
			}

			expectedError := tt.code + ": " + tt.message
			if err.Error() != expectedError {
				t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError(VitalHeartRate, 999, "20-300")

	if err.Field != VitalHeartRate {
		t.Errorf("Expected field %s, got %s", VitalHeartRate, err.Field)
	}
	if err.Value != 999 {
		t.Errorf("Expected value 999, got %v", err.Value)
	}
	if err.ValidRange != "20-300" {
		t.Errorf("Expected valid range 20-300, got %s", err.ValidRange)
	}

	expected := `vital "heartRate" value 999 outside valid range 20-300`
	if err.Error() != expected {
		t.Errorf("Expected error string %q, got %q", expected, err.Error())
	}
}

func TestErrorConstants(t *testing.T) {
	expectedValues := map[string]string{
		ErrInvalidVitalsData:   "INVALID_VITALS_DATA",
		ErrAnalyzerUnavailable: "ANALYZER_UNAVAILABLE",
		ErrInvalidBaseScore:    "INVALID_BASE_SCORE",
		ErrInvalidInput:        "INVALID_INPUT",
		ErrDatabaseError:       "DATABASE_ERROR",
		ErrInternalServer:      "INTERNAL_SERVER_ERROR",
		ErrRecordNotFound:      "NOT_FOUND",
	}

	for actual, expected := range expectedValues {
		if actual != expected {
			t.Errorf("Expected constant value %s, got %s", expected, actual)
		}
	}
}
