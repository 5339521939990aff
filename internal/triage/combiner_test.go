package triage

import (
	"math"
	"testing"
)

func TestCombineSimpleAddition(t *testing.T) {
	c := NewSeverityCombiner(DefaultConfidenceMargin)

	final, _, err := c.Combine(5.0, 2.0, 1.0)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if final != 7.0 {
		t.Errorf("Combine(5.0, 2.0) = %v, want 7.0", final)
	}
}

func TestCombineClampsToTen(t *testing.T) {
	c := NewSeverityCombiner(DefaultConfidenceMargin)

	final, interval, err := c.Combine(9.5, 3.0, 1.0)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if final != 10.0 {
		t.Errorf("Combine(9.5, 3.0) = %v, want 10.0", final)
	}
	if interval.Upper > 10.0 {
		t.Errorf("interval upper = %v, want <= 10", interval.Upper)
	}
}

func TestCombineRejectsOutOfRangeBaseScore(t *testing.T) {
	c := NewSeverityCombiner(DefaultConfidenceMargin)

	for _, base := range []float64{-0.1, 10.1, 15.0} {
		if _, _, err := c.Combine(base, 0, 1.0); err == nil {
			t.Errorf("Combine(base=%v) error = nil, want contract violation", base)
		}
	}
}

func TestCombineConfidenceIntervalWidth(t *testing.T) {
	c := NewSeverityCombiner(1.5)

	tests := []struct {
		name        string
		dataQuality float64
		wantMargin  float64
	}{
		{"perfect quality collapses interval", 1.0, 0},
		{"half quality", 0.5, 0.75},
		{"zero quality gives full margin", 0.0, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final, interval, err := c.Combine(5.0, 0, tt.dataQuality)
			if err != nil {
				t.Fatalf("Combine() error = %v", err)
			}
			if got := final - interval.Lower; math.Abs(got-tt.wantMargin) > 1e-9 {
				t.Errorf("lower margin = %v, want %v", got, tt.wantMargin)
			}
			if got := interval.Upper - final; math.Abs(got-tt.wantMargin) > 1e-9 {
				t.Errorf("upper margin = %v, want %v", got, tt.wantMargin)
			}
		})
	}
}

func TestCombineIntervalClampedAtBounds(t *testing.T) {
	c := NewSeverityCombiner(1.5)

	// Final score 0.5 with full margin would reach -1.0 uncapped.
	final, interval, err := c.Combine(0.5, 0, 0.0)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if interval.Lower != 0 {
		t.Errorf("interval lower = %v, want clamped to 0", interval.Lower)
	}
	if interval.Upper != 2.0 {
		t.Errorf("interval upper = %v, want 2.0", interval.Upper)
	}
	if !interval.Contains(final) {
		t.Error("interval does not contain the final score")
	}
}

func TestCombineIntervalWidthMonotonicInQuality(t *testing.T) {
	c := NewSeverityCombiner(DefaultConfidenceMargin)

	prevWidth := math.Inf(1)
	for _, quality := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		_, interval, err := c.Combine(5.0, 1.0, quality)
		if err != nil {
			t.Fatalf("Combine(quality=%v) error = %v", quality, err)
		}
		width := interval.Upper - interval.Lower
		if width > prevWidth {
			t.Errorf("interval width %v at quality %v wider than at lower quality", width, quality)
		}
		prevWidth = width
	}
}

func TestCombineOutOfRangeQualityClamped(t *testing.T) {
	c := NewSeverityCombiner(1.5)

	// Quality is clamped to [0,1] rather than rejected: the validator has
	// already bounds-checked supplied readings, so anything else here is an
	// internal default.
	_, interval, err := c.Combine(5.0, 0, 2.0)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if interval.Lower != 5.0 || interval.Upper != 5.0 {
		t.Errorf("interval = [%v, %v], want collapsed at 5.0", interval.Lower, interval.Upper)
	}
}
