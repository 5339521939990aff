package triage

import (
	"fmt"

	"github.com/vitals-triage-server/internal/domain"
)

// DefaultConfidenceMargin is the confidence-interval half-width at zero
// data quality. The margin shrinks linearly to zero as quality approaches
// one: margin = DefaultConfidenceMargin * (1 - dataQuality).
const DefaultConfidenceMargin = 1.5

// SymptomOnlyDataQuality is the data quality assumed when no usable vitals
// were supplied: symptom-only assessments are mid-confidence.
const SymptomOnlyDataQuality = 0.5

// SeverityCombiner merges the externally supplied base score with the
// vitals contribution into a final bounded score plus a confidence
// interval.
type SeverityCombiner struct {
	maxMargin float64
}

// NewSeverityCombiner creates a combiner; a non-positive margin falls back
// to the default.
func NewSeverityCombiner(maxMargin float64) *SeverityCombiner {
	if maxMargin <= 0 {
		maxMargin = DefaultConfidenceMargin
	}
	return &SeverityCombiner{maxMargin: maxMargin}
}

// Combine computes clamp(baseScore + vitalsContribution, 0, 10) and the
// confidence interval around it. The base score is opaque beyond its
// declared [0,10] range; out-of-range values are a contract violation and
// are rejected before combination, never clamped.
func (c *SeverityCombiner) Combine(baseScore, vitalsContribution, dataQuality float64) (float64, domain.ConfidenceInterval, error) {
	if baseScore < 0 || baseScore > 10 {
		return 0, domain.ConfidenceInterval{}, fmt.Errorf("base score %.2f outside [0,10]", baseScore)
	}

	finalScore := clampScore(baseScore + vitalsContribution)

	margin := c.maxMargin * (1 - clampUnit(dataQuality))
	interval := domain.ConfidenceInterval{
		Lower: clampScore(finalScore - margin),
		Upper: clampScore(finalScore + margin),
	}

	return finalScore, interval, nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
