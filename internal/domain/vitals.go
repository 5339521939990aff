package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Canonical vital field names used in validation errors, boosts, and findings.
const (
	VitalHeartRate        = "heartRate"
	VitalSystolic         = "bloodPressureSystolic"
	VitalDiastolic        = "bloodPressureDiastolic"
	VitalBloodPressure    = "bloodPressure"
	VitalOxygenSaturation = "oxygenSaturation"
	VitalTemperature      = "temperature"
	VitalRespiratoryRate  = "respiratoryRate"
	VitalDataQuality      = "dataQuality"
)

// VitalsReading is one wearable or manual vitals snapshot. Every numeric
// field is optional: a nil pointer means the vital was not measured, which
// is distinct from a measured-normal value. JSON tags follow the documented
// external wire contract (camelCase).
type VitalsReading struct {
	HeartRate              *int        `json:"heartRate,omitempty"`              // beats/min
	BloodPressureSystolic  *int        `json:"bloodPressureSystolic,omitempty"`  // mmHg
	BloodPressureDiastolic *int        `json:"bloodPressureDiastolic,omitempty"` // mmHg
	OxygenSaturation       *float64    `json:"oxygenSaturation,omitempty"`       // percent
	TemperatureF           *float64    `json:"temperature,omitempty"`            // degrees Fahrenheit
	RespiratoryRate        *int        `json:"respiratoryRate,omitempty"`        // breaths/min
	Timestamp              time.Time   `json:"timestamp"`
	DataQuality            float64     `json:"dataQuality"` // [0,1] confidence in the measurement
	Source                 VitalSource `json:"source"`
}

// HasAnyVital reports whether at least one measurable field is present.
func (r *VitalsReading) HasAnyVital() bool {
	return r.HeartRate != nil ||
		r.BloodPressureSystolic != nil ||
		r.BloodPressureDiastolic != nil ||
		r.OxygenSaturation != nil ||
		r.TemperatureF != nil ||
		r.RespiratoryRate != nil
}

// HasBloodPressure reports whether both components of the pair are present.
// A reading carrying only one component is treated as blood-pressure-absent.
func (r *VitalsReading) HasBloodPressure() bool {
	return r.BloodPressureSystolic != nil && r.BloodPressureDiastolic != nil
}

// AgeAt returns how old the reading is relative to the given instant.
func (r *VitalsReading) AgeAt(now time.Time) time.Duration {
	return now.Sub(r.Timestamp)
}

// ParseBloodPressure parses the documented "systolic/diastolic" wire format,
// e.g. "120/80".
func ParseBloodPressure(raw string) (systolic, diastolic int, err error) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("blood pressure %q is not in systolic/diastolic format", raw)
	}

	systolic, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid systolic component %q: %w", parts[0], err)
	}

	diastolic, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid diastolic component %q: %w", parts[1], err)
	}

	return systolic, diastolic, nil
}

// VitalBoost is the outcome of evaluating one vital against the clinical
// threshold table. Created fresh per assessment and never mutated.
type VitalBoost struct {
	VitalName  string    `json:"vitalName"`
	BoostValue float64   `json:"boostValue"`
	Band       VitalBand `json:"band"`
	Reason     string    `json:"reason"`
}

// IsAbnormal reports whether the boost contributes to the severity score.
func (b VitalBoost) IsAbnormal() bool {
	return b.Band != NORMAL_BAND && b.BoostValue > 0
}
