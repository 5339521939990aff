package triage

import (
	"testing"
	"time"

	"github.com/vitals-triage-server/internal/domain"
)

func TestValidateNilReading(t *testing.T) {
	v := NewVitalsValidator(DefaultStalenessWindow)

	validated, err := v.Validate(nil, time.Now())
	if err != nil {
		t.Fatalf("Validate(nil) error = %v, want nil", err)
	}
	if validated.Usable {
		t.Error("Validate(nil) usable = true, want false")
	}
}

func TestValidateHardBounds(t *testing.T) {
	v := NewVitalsValidator(DefaultStalenessWindow)
	now := time.Now()

	tests := []struct {
		name      string
		reading   *domain.VitalsReading
		wantField string
		wantRange string
	}{
		{
			name: "heart rate sensor garbage",
			reading: &domain.VitalsReading{
				HeartRate: intPtr(999), Timestamp: now, DataQuality: 1.0,
			},
			wantField: domain.VitalHeartRate,
			wantRange: "20-300",
		},
		{
			name: "heart rate below floor",
			reading: &domain.VitalsReading{
				HeartRate: intPtr(10), Timestamp: now, DataQuality: 1.0,
			},
			wantField: domain.VitalHeartRate,
			wantRange: "20-300",
		},
		{
			name: "systolic above ceiling",
			reading: &domain.VitalsReading{
				BloodPressureSystolic: intPtr(300), BloodPressureDiastolic: intPtr(80),
				Timestamp: now, DataQuality: 1.0,
			},
			wantField: domain.VitalSystolic,
			wantRange: "40-260",
		},
		{
			name: "diastolic below floor",
			reading: &domain.VitalsReading{
				BloodPressureSystolic: intPtr(120), BloodPressureDiastolic: intPtr(5),
				Timestamp: now, DataQuality: 1.0,
			},
			wantField: domain.VitalDiastolic,
			wantRange: "20-200",
		},
		{
			name: "oxygen saturation above 100",
			reading: &domain.VitalsReading{
				OxygenSaturation: floatPtr(120), Timestamp: now, DataQuality: 1.0,
			},
			wantField: domain.VitalOxygenSaturation,
			wantRange: "0-100",
		},
		{
			name: "temperature out of range",
			reading: &domain.VitalsReading{
				TemperatureF: floatPtr(150), Timestamp: now, DataQuality: 1.0,
			},
			wantField: domain.VitalTemperature,
			wantRange: "80-110",
		},
		{
			name: "respiratory rate out of range",
			reading: &domain.VitalsReading{
				RespiratoryRate: intPtr(90), Timestamp: now, DataQuality: 1.0,
			},
			wantField: domain.VitalRespiratoryRate,
			wantRange: "4-60",
		},
		{
			name: "data quality above one",
			reading: &domain.VitalsReading{
				HeartRate: intPtr(80), Timestamp: now, DataQuality: 1.5,
			},
			wantField: domain.VitalDataQuality,
			wantRange: "0-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validated, err := v.Validate(tt.reading, now)
			if err == nil {
				t.Fatal("Validate() error = nil, want validation error")
			}
			if validated != nil {
				t.Errorf("Validate() returned result %+v alongside error, want nil", validated)
			}
			if err.Field != tt.wantField {
				t.Errorf("error field = %q, want %q", err.Field, tt.wantField)
			}
			if err.ValidRange != tt.wantRange {
				t.Errorf("error range = %q, want %q", err.ValidRange, tt.wantRange)
			}
		})
	}
}

func TestValidateExtremeButPlausibleValuesPass(t *testing.T) {
	v := NewVitalsValidator(DefaultStalenessWindow)
	now := time.Now()

	// SVT at 250 bpm is clinically real; the bounds reject sensor garbage,
	// not sick patients.
	reading := &domain.VitalsReading{
		HeartRate:   intPtr(250),
		Timestamp:   now,
		DataQuality: 0.8,
	}

	validated, err := v.Validate(reading, now)
	if err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
	if !validated.Usable {
		t.Error("Validate() usable = false, want true")
	}
}

func TestValidateOneBadFieldFailsWholeReading(t *testing.T) {
	v := NewVitalsValidator(DefaultStalenessWindow)
	now := time.Now()

	reading := &domain.VitalsReading{
		HeartRate:        intPtr(72),
		OxygenSaturation: floatPtr(150),
		Timestamp:        now,
		DataQuality:      1.0,
	}

	validated, err := v.Validate(reading, now)
	if err == nil {
		t.Fatal("Validate() error = nil, want validation error for oxygen saturation")
	}
	if validated != nil {
		t.Error("Validate() kept partial reading, want whole reading rejected")
	}
}

func TestValidateStaleness(t *testing.T) {
	v := NewVitalsValidator(60 * time.Minute)
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		timestamp  time.Time
		wantUsable bool
		wantStale  bool
	}{
		{"fresh reading", now.Add(-5 * time.Minute), true, false},
		{"exactly at window edge", now.Add(-60 * time.Minute), true, false},
		{"just past window", now.Add(-61 * time.Minute), false, true},
		{"hours old", now.Add(-6 * time.Hour), false, true},
		{"zero timestamp", time.Time{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading := &domain.VitalsReading{
				HeartRate:   intPtr(130),
				Timestamp:   tt.timestamp,
				DataQuality: 1.0,
			}
			validated, err := v.Validate(reading, now)
			if err != nil {
				t.Fatalf("Validate() error = %v, want nil", err)
			}
			if validated.Usable != tt.wantUsable {
				t.Errorf("usable = %v, want %v", validated.Usable, tt.wantUsable)
			}
			if validated.Stale != tt.wantStale {
				t.Errorf("stale = %v, want %v", validated.Stale, tt.wantStale)
			}
		})
	}
}

func TestValidateOutOfBoundsBeatsStaleness(t *testing.T) {
	// A stale reading with garbage values still reports the garbage: bounds
	// are checked before staleness so the caller can surface the data error.
	v := NewVitalsValidator(60 * time.Minute)
	now := time.Now()

	reading := &domain.VitalsReading{
		HeartRate:   intPtr(999),
		Timestamp:   now.Add(-2 * time.Hour),
		DataQuality: 1.0,
	}

	if _, err := v.Validate(reading, now); err == nil {
		t.Error("Validate() error = nil, want bounds error even for stale reading")
	}
}

func TestValidateEmptyReading(t *testing.T) {
	v := NewVitalsValidator(DefaultStalenessWindow)
	now := time.Now()

	reading := &domain.VitalsReading{Timestamp: now, DataQuality: 1.0}

	validated, err := v.Validate(reading, now)
	if err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
	if validated.Usable {
		t.Error("Validate() with no vitals present usable = true, want false")
	}
	if validated.Stale {
		t.Error("Validate() fresh empty reading stale = true, want false")
	}
}

func TestNewVitalsValidatorDefaultWindow(t *testing.T) {
	v := NewVitalsValidator(0)
	if v.stalenessWindow != DefaultStalenessWindow {
		t.Errorf("staleness window = %v, want %v", v.stalenessWindow, DefaultStalenessWindow)
	}
}
