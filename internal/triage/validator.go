package triage

import (
	"fmt"
	"time"

	"github.com/vitals-triage-server/internal/domain"
)

// Physiological hard bounds. Values outside these are rejected outright,
// never clamped: a heart rate of 999 is sensor garbage, not a sick patient.
const (
	heartRateMin   = 20
	heartRateMax   = 300
	systolicMin    = 40
	systolicMax    = 260
	diastolicMin   = 20
	diastolicMax   = 200
	spO2Min        = 0.0
	spO2Max        = 100.0
	temperatureMin = 80.0
	temperatureMax = 110.0
	respRateMin    = 4
	respRateMax    = 60
)

// DefaultStalenessWindow is the maximum age of a vitals reading before it
// is excluded from scoring.
const DefaultStalenessWindow = 60 * time.Minute

// ValidatedVitals is the validator's accepted output. Usable is false when
// the reading is stale or empty; the reading itself is retained for audit
// either way.
type ValidatedVitals struct {
	Reading *domain.VitalsReading
	Usable  bool
	Stale   bool
}

// VitalsValidator rejects or reclassifies vitals before they can influence
// scoring. Pure validation, no side effects.
type VitalsValidator struct {
	stalenessWindow time.Duration
}

// NewVitalsValidator creates a validator with the given staleness window;
// a non-positive window falls back to the default.
func NewVitalsValidator(stalenessWindow time.Duration) *VitalsValidator {
	if stalenessWindow <= 0 {
		stalenessWindow = DefaultStalenessWindow
	}
	return &VitalsValidator{stalenessWindow: stalenessWindow}
}

// Validate checks every present field against its hard bound. Any single
// out-of-range field fails the whole reading: partial vitals could bias
// the score, so the caller must degrade to symptom-only scoring and
// surface the error. A reading with no timestamp or one older than the
// staleness window is reclassified as "no vitals" rather than rejected.
func (v *VitalsValidator) Validate(reading *domain.VitalsReading, now time.Time) (*ValidatedVitals, *domain.ValidationError) {
	if reading == nil {
		return &ValidatedVitals{Usable: false}, nil
	}

	if err := v.checkBounds(reading); err != nil {
		return nil, err
	}

	if reading.Timestamp.IsZero() || reading.AgeAt(now) > v.stalenessWindow {
		return &ValidatedVitals{Reading: reading, Usable: false, Stale: true}, nil
	}

	if !reading.HasAnyVital() {
		return &ValidatedVitals{Reading: reading, Usable: false}, nil
	}

	return &ValidatedVitals{Reading: reading, Usable: true}, nil
}

func (v *VitalsValidator) checkBounds(reading *domain.VitalsReading) *domain.ValidationError {
	if reading.HeartRate != nil {
		if hr := *reading.HeartRate; hr < heartRateMin || hr > heartRateMax {
			return domain.NewValidationError(domain.VitalHeartRate, hr, boundsRange(heartRateMin, heartRateMax))
		}
	}
	if reading.BloodPressureSystolic != nil {
		if sys := *reading.BloodPressureSystolic; sys < systolicMin || sys > systolicMax {
			return domain.NewValidationError(domain.VitalSystolic, sys, boundsRange(systolicMin, systolicMax))
		}
	}
	if reading.BloodPressureDiastolic != nil {
		if dia := *reading.BloodPressureDiastolic; dia < diastolicMin || dia > diastolicMax {
			return domain.NewValidationError(domain.VitalDiastolic, dia, boundsRange(diastolicMin, diastolicMax))
		}
	}
	if reading.OxygenSaturation != nil {
		if spo2 := *reading.OxygenSaturation; spo2 < spO2Min || spo2 > spO2Max {
			return domain.NewValidationError(domain.VitalOxygenSaturation, spo2, "0-100")
		}
	}
	if reading.TemperatureF != nil {
		if temp := *reading.TemperatureF; temp < temperatureMin || temp > temperatureMax {
			return domain.NewValidationError(domain.VitalTemperature, temp, "80-110")
		}
	}
	if reading.RespiratoryRate != nil {
		if rr := *reading.RespiratoryRate; rr < respRateMin || rr > respRateMax {
			return domain.NewValidationError(domain.VitalRespiratoryRate, rr, boundsRange(respRateMin, respRateMax))
		}
	}
	if reading.DataQuality < 0 || reading.DataQuality > 1 {
		return domain.NewValidationError(domain.VitalDataQuality, reading.DataQuality, "0-1")
	}
	return nil
}

func boundsRange(min, max int) string {
	return fmt.Sprintf("%d-%d", min, max)
}
