package domain

import (
	"testing"
)

func TestUrgencyLevelConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    UrgencyLevel
		expected string
	}{
		{"Non-urgent", NON_URGENT, "NON_URGENT"},
		{"Standard", STANDARD, "STANDARD"},
		{"Urgent", URGENT, "URGENT"},
		{"Critical", CRITICAL, "CRITICAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
		})
	}
}

func TestUrgencyLevelIsValid(t *testing.T) {
	for _, level := range []UrgencyLevel{NON_URGENT, STANDARD, URGENT, CRITICAL} {
		if !level.IsValid() {
			t.Errorf("Expected %s to be valid", level)
		}
	}

	if UrgencyLevel("EMERGENCY").IsValid() {
		t.Error("Expected unknown level to be invalid")
	}
	if UrgencyLevel("").IsValid() {
		t.Error("Expected empty level to be invalid")
	}
}

func TestUrgencyLevelRankOrdering(t *testing.T) {
	ordered := []UrgencyLevel{NON_URGENT, STANDARD, URGENT, CRITICAL}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Errorf("Expected %s rank > %s rank", ordered[i], ordered[i-1])
		}
	}

	if UrgencyLevel("bogus").Rank() != -1 {
		t.Error("Expected unknown level rank to be -1")
	}
}

func TestClassifyUrgencyCutoffs(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected UrgencyLevel
	}{
		{"zero", 0.0, NON_URGENT},
		{"just below standard", 3.999, NON_URGENT},
		{"standard lower bound", 4.0, STANDARD},
		{"mid standard", 5.0, STANDARD},
		{"urgent lower bound", 6.0, URGENT},
		{"just below critical", 7.999, URGENT},
		{"critical lower bound", 8.0, CRITICAL},
		{"maximum", 10.0, CRITICAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyUrgency(tt.score)
			if got != tt.expected {
				t.Errorf("ClassifyUrgency(%.3f) = %s, expected %s", tt.score, got, tt.expected)
			}
		})
	}
}

func TestClassifyUrgencyExhaustive(t *testing.T) {
	// Every score in [0,10] must map to a valid level.
	for score := 0.0; score <= 10.0; score += 0.125 {
		if !ClassifyUrgency(score).IsValid() {
			t.Errorf("ClassifyUrgency(%.3f) produced an invalid level", score)
		}
	}
}

func TestRequiresImmediateCare(t *testing.T) {
	if !CRITICAL.RequiresImmediateCare() || !URGENT.RequiresImmediateCare() {
		t.Error("Expected CRITICAL and URGENT to require immediate care")
	}
	if STANDARD.RequiresImmediateCare() || NON_URGENT.RequiresImmediateCare() {
		t.Error("Expected STANDARD and NON_URGENT not to require immediate care")
	}
	// Unknown levels are handled conservatively.
	if !UrgencyLevel("bogus").RequiresImmediateCare() {
		t.Error("Expected unknown level to require immediate care")
	}
}

func TestVitalBandConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    VitalBand
		expected string
	}{
		{"Normal", NORMAL_BAND, "NORMAL"},
		{"Concerning", CONCERNING_BAND, "CONCERNING"},
		{"Critical", CRITICAL_BAND, "CRITICAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
			if !tt.value.IsValid() {
				t.Errorf("Expected %s to be valid", tt.value)
			}
		})
	}

	if VitalBand("SEVERE").IsValid() {
		t.Error("Expected unknown band to be invalid")
	}
}

func TestVitalSourceIsValid(t *testing.T) {
	for _, src := range []VitalSource{SOURCE_WEARABLE, SOURCE_MANUAL, SOURCE_UNKNOWN} {
		if !src.IsValid() {
			t.Errorf("Expected %s to be valid", src)
		}
	}
	if VitalSource("TRICORDER").IsValid() {
		t.Error("Expected unknown source to be invalid")
	}
}

func TestConfidenceInterval(t *testing.T) {
	ci := ConfidenceInterval{Lower: 6.5, Upper: 8.5}

	if err := ci.Validate(); err != nil {
		t.Errorf("Expected valid interval, got %v", err)
	}
	if !ci.Contains(7.5) {
		t.Error("Expected interval to contain 7.5")
	}
	if ci.Contains(9.0) {
		t.Error("Expected interval not to contain 9.0")
	}

	inverted := ConfidenceInterval{Lower: 8.0, Upper: 6.0}
	if err := inverted.Validate(); err == nil {
		t.Error("Expected inverted interval to fail validation")
	}

	outOfDomain := ConfidenceInterval{Lower: -1.0, Upper: 5.0}
	if err := outOfDomain.Validate(); err == nil {
		t.Error("Expected out-of-domain interval to fail validation")
	}
}
