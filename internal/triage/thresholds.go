// Package triage implements the vitals-enhanced severity-scoring engine:
// validation of wearable vitals against physiological hard bounds, banded
// threshold evaluation, capped boost aggregation, base-score combination
// with a confidence interval, urgency classification, and explanation
// building. Every component is a pure function over immutable inputs; the
// package holds no cross-request state and is safe for unbounded concurrent
// use.
package triage

import (
	"fmt"
	"math"

	"github.com/vitals-triage-server/internal/domain"
)

// BandRule is one row of the clinical threshold table: a half-open or
// closed numeric range mapped to a band and a severity boost. Rules for a
// vital are evaluated in order; the first match wins, so more severe bands
// are listed first and boundary tie-breaks are encoded in the inclusivity
// flags.
type BandRule struct {
	Band           domain.VitalBand
	Boost          float64
	Lower          float64
	LowerInclusive bool
	Upper          float64
	UpperInclusive bool
	// Descriptor is the clinical wording used in findings, e.g.
	// "elevated heart rate".
	Descriptor string
}

// Matches reports whether the value falls inside the rule's range.
func (r BandRule) Matches(value float64) bool {
	if r.LowerInclusive {
		if value < r.Lower {
			return false
		}
	} else if value <= r.Lower {
		return false
	}
	if r.UpperInclusive {
		if value > r.Upper {
			return false
		}
	} else if value >= r.Upper {
		return false
	}
	return true
}

// ThresholdTable is the static per-vital rule set. It is built once at
// startup and never mutated afterwards; concurrent readers need no
// synchronization because no writer exists after initialization.
type ThresholdTable struct {
	scalarRules map[string][]BandRule
	units       map[string]string
	formats     map[string]string
}

var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)

// DefaultThresholdTable builds the authoritative granular threshold table.
//
// Boundary semantics: high-side boundaries are inclusive toward the more
// severe band (exactly 120 bpm is Critical, exactly 100 bpm is
// Concerning); low-side critical bands are strict (exactly 50 bpm and
// exactly 90% SpO2 land in Concerning, not Critical). Temperatures above
// 103F stay at the +2.5 ceiling; there is no higher band.
func DefaultThresholdTable() *ThresholdTable {
	t := &ThresholdTable{
		scalarRules: make(map[string][]BandRule),
		units: map[string]string{
			domain.VitalHeartRate:        "bpm",
			domain.VitalOxygenSaturation: "%",
			domain.VitalTemperature:      "°F",
		},
		formats: map[string]string{
			domain.VitalHeartRate:        "%.0f",
			domain.VitalOxygenSaturation: "%.0f",
			domain.VitalTemperature:      "%.1f",
		},
	}

	t.scalarRules[domain.VitalHeartRate] = []BandRule{
		{Band: domain.CRITICAL_BAND, Boost: 2.0, Lower: 120, LowerInclusive: true, Upper: posInf, Descriptor: "elevated heart rate"},
		{Band: domain.CRITICAL_BAND, Boost: 2.5, Lower: negInf, Upper: 50, Descriptor: "critically low heart rate"},
		{Band: domain.CONCERNING_BAND, Boost: 1.0, Lower: 100, LowerInclusive: true, Upper: 120, Descriptor: "elevated heart rate"},
		{Band: domain.CONCERNING_BAND, Boost: 1.0, Lower: 50, LowerInclusive: true, Upper: 60, UpperInclusive: true, Descriptor: "low heart rate"},
	}

	t.scalarRules[domain.VitalOxygenSaturation] = []BandRule{
		{Band: domain.CRITICAL_BAND, Boost: 3.0, Lower: negInf, Upper: 90, Descriptor: "critically low oxygen saturation"},
		{Band: domain.CONCERNING_BAND, Boost: 1.5, Lower: 90, LowerInclusive: true, Upper: 95, UpperInclusive: true, Descriptor: "low oxygen saturation"},
	}

	t.scalarRules[domain.VitalTemperature] = []BandRule{
		{Band: domain.CRITICAL_BAND, Boost: 2.5, Lower: 101.5, LowerInclusive: true, Upper: posInf, Descriptor: "high fever"},
		{Band: domain.CONCERNING_BAND, Boost: 1.5, Lower: 99, LowerInclusive: true, Upper: 101.5, Descriptor: "elevated temperature"},
	}

	// Respiratory rate is validated but carries no boost bands; the
	// authoritative table defines none for it.

	return t
}

// Evaluate maps one scalar vital reading to its boost. A vital with no
// matching abnormal rule produces a zero-boost NORMAL result, which keeps
// "confirmed normal" distinguishable from "not measured" (absent vitals
// never reach this method).
func (t *ThresholdTable) Evaluate(vitalName string, value float64) domain.VitalBoost {
	for _, rule := range t.scalarRules[vitalName] {
		if rule.Matches(value) {
			return domain.VitalBoost{
				VitalName:  vitalName,
				BoostValue: rule.Boost,
				Band:       rule.Band,
				Reason:     fmt.Sprintf("%s (%s %s)", rule.Descriptor, t.formatValue(vitalName, value), t.units[vitalName]),
			}
		}
	}

	return domain.VitalBoost{
		VitalName:  vitalName,
		BoostValue: 0,
		Band:       domain.NORMAL_BAND,
		Reason:     fmt.Sprintf("%s within normal range", vitalName),
	}
}

// EvaluateBloodPressure evaluates the systolic/diastolic pair jointly.
// Precedence: hypertensive crisis, then hypotension, then elevated. A
// reading crossing either component's threshold takes the band; exact
// boundary values (180 systolic, 120 diastolic, 140/90) escalate, while
// hypotension is strict below 90/60 so exactly 90/60 is normal.
func (t *ThresholdTable) EvaluateBloodPressure(systolic, diastolic int) domain.VitalBoost {
	switch {
	case systolic >= 180 || diastolic >= 120:
		return domain.VitalBoost{
			VitalName:  domain.VitalBloodPressure,
			BoostValue: 3.0,
			Band:       domain.CRITICAL_BAND,
			Reason:     fmt.Sprintf("hypertensive crisis (%d/%d mmHg)", systolic, diastolic),
		}
	case systolic < 90 || diastolic < 60:
		return domain.VitalBoost{
			VitalName:  domain.VitalBloodPressure,
			BoostValue: 2.0,
			Band:       domain.CRITICAL_BAND,
			Reason:     fmt.Sprintf("hypotension (%d/%d mmHg)", systolic, diastolic),
		}
	case systolic >= 140 || diastolic >= 90:
		return domain.VitalBoost{
			VitalName:  domain.VitalBloodPressure,
			BoostValue: 1.0,
			Band:       domain.CONCERNING_BAND,
			Reason:     fmt.Sprintf("elevated blood pressure (%d/%d mmHg)", systolic, diastolic),
		}
	default:
		return domain.VitalBoost{
			VitalName:  domain.VitalBloodPressure,
			BoostValue: 0,
			Band:       domain.NORMAL_BAND,
			Reason:     "blood pressure within normal range",
		}
	}
}

// EvaluateReading evaluates every vital present in a validated reading.
// Absent vitals produce no entry at all; present-but-normal vitals produce
// zero-boost entries.
func (t *ThresholdTable) EvaluateReading(reading *domain.VitalsReading) []domain.VitalBoost {
	boosts := make([]domain.VitalBoost, 0, 4)

	if reading.HeartRate != nil {
		boosts = append(boosts, t.Evaluate(domain.VitalHeartRate, float64(*reading.HeartRate)))
	}
	if reading.OxygenSaturation != nil {
		boosts = append(boosts, t.Evaluate(domain.VitalOxygenSaturation, *reading.OxygenSaturation))
	}
	if reading.TemperatureF != nil {
		boosts = append(boosts, t.Evaluate(domain.VitalTemperature, *reading.TemperatureF))
	}
	if reading.HasBloodPressure() {
		boosts = append(boosts, t.EvaluateBloodPressure(*reading.BloodPressureSystolic, *reading.BloodPressureDiastolic))
	}

	return boosts
}

func (t *ThresholdTable) formatValue(vitalName string, value float64) string {
	format, ok := t.formats[vitalName]
	if !ok {
		format = "%g"
	}
	return fmt.Sprintf(format, value)
}
