package triage

import (
	"sort"

	"github.com/vitals-triage-server/internal/domain"
)

// DefaultVitalsCap is the documented maximum total vitals contribution.
// The cap keeps a patient with many mildly abnormal vitals from outscoring
// a patient with one critical vital.
const DefaultVitalsCap = 3.0

// VitalsBoostAggregator combines per-vital boosts into one bounded
// contribution plus ordered findings.
type VitalsBoostAggregator struct {
	cap float64
}

// NewVitalsBoostAggregator creates an aggregator; a non-positive cap falls
// back to the default.
func NewVitalsBoostAggregator(cap float64) *VitalsBoostAggregator {
	if cap <= 0 {
		cap = DefaultVitalsCap
	}
	return &VitalsBoostAggregator{cap: cap}
}

// Aggregate sums the abnormal boosts, clamps the sum to the cap, and emits
// one finding per abnormal vital ordered by descending boost magnitude
// (stable on ties, preserving evaluation order). An empty input yields a
// zero contribution and no findings.
func (a *VitalsBoostAggregator) Aggregate(boosts []domain.VitalBoost) (float64, []string) {
	abnormal := make([]domain.VitalBoost, 0, len(boosts))
	sum := 0.0
	for _, boost := range boosts {
		if boost.IsAbnormal() {
			abnormal = append(abnormal, boost)
			sum += boost.BoostValue
		}
	}

	sort.SliceStable(abnormal, func(i, j int) bool {
		return abnormal[i].BoostValue > abnormal[j].BoostValue
	})

	findings := make([]string, 0, len(abnormal))
	for _, boost := range abnormal {
		findings = append(findings, boost.Reason)
	}

	if sum > a.cap {
		sum = a.cap
	}

	return sum, findings
}
