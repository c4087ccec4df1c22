package model

import (
	"database/sql/driver"
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	poundsToKg = 0.453592
	feetToM    = 0.3048
)

type BloodPressure struct {
	Systolic  *int `json:"systolic,omitempty"`
	Diastolic *int `json:"diastolic,omitempty"`
}

func (b BloodPressure) Value() (driver.Value, error) { return jsonValue(b) }
func (b *BloodPressure) Scan(src interface{}) error  { return jsonScan(b, src) }

// BloodSugar holds a reading with its unit and measurement context.
// The Go field is Reading because Value is taken by driver.Valuer.
type BloodSugar struct {
	Reading *float64 `json:"value,omitempty"`
	Unit    string   `json:"unit,omitempty"`
	Type    string   `json:"type,omitempty"`
}

func (b BloodSugar) Value() (driver.Value, error) { return jsonValue(b) }
func (b *BloodSugar) Scan(src interface{}) error  { return jsonScan(b, src) }

// Measurement is a unit-tagged numeric reading (weight, height, temperature).
type Measurement struct {
	Reading *float64 `json:"value,omitempty"`
	Unit    string   `json:"unit,omitempty"`
}

func (m Measurement) Value() (driver.Value, error) { return jsonValue(m) }
func (m *Measurement) Scan(src interface{}) error  { return jsonScan(m, src) }

// Vitals is a dated set of measurements owned by a user, independent of any
// medical file. BMI is derived at read time and never stored.
type Vitals struct {
	Base
	UserID           uuid.UUID     `json:"user" db:"user_id"`
	Date             time.Time     `json:"date" db:"date"`
	BloodPressure    BloodPressure `json:"bloodPressure" db:"blood_pressure"`
	BloodSugar       BloodSugar    `json:"bloodSugar" db:"blood_sugar"`
	Weight           Measurement   `json:"weight" db:"weight"`
	Height           Measurement   `json:"height" db:"height"`
	HeartRate        *int          `json:"heartRate,omitempty" db:"heart_rate"`
	Temperature      Measurement   `json:"temperature" db:"temperature"`
	OxygenSaturation *int          `json:"oxygenSaturation,omitempty" db:"oxygen_saturation"`
	Notes            string        `json:"notes,omitempty" db:"notes"`
	IsManualEntry    bool          `json:"isManualEntry" db:"is_manual_entry"`

	BMI *float64 `json:"bmi,omitempty" db:"-"`
}

// ComputeBMI derives BMI from weight and height, converting lbs/ft to metric.
// Returns nil when either measurement is absent.
func (v *Vitals) ComputeBMI() *float64 {
	if v.Weight.Reading == nil || v.Height.Reading == nil {
		return nil
	}
	kg := *v.Weight.Reading
	if v.Weight.Unit == "lbs" {
		kg *= poundsToKg
	}
	var m float64
	if v.Height.Unit == "ft" {
		m = *v.Height.Reading * feetToM
	} else {
		m = *v.Height.Reading / 100
	}
	if kg <= 0 || m <= 0 {
		return nil
	}
	bmi := math.Round(kg/(m*m)*10) / 10
	return &bmi
}

type CreateVitalsRequest struct {
	Date             *time.Time    `json:"date"`
	BloodPressure    BloodPressure `json:"bloodPressure"`
	BloodSugar       BloodSugar    `json:"bloodSugar"`
	Weight           Measurement   `json:"weight"`
	Height           Measurement   `json:"height"`
	HeartRate        *int          `json:"heartRate" binding:"omitempty,min=30,max=300"`
	Temperature      Measurement   `json:"temperature"`
	OxygenSaturation *int          `json:"oxygenSaturation" binding:"omitempty,min=0,max=100"`
	Notes            string        `json:"notes"`
}

// UpdateVitalsRequest applies only the fields that are present.
type UpdateVitalsRequest struct {
	Date             *time.Time     `json:"date"`
	BloodPressure    *BloodPressure `json:"bloodPressure"`
	BloodSugar       *BloodSugar    `json:"bloodSugar"`
	Weight           *Measurement   `json:"weight"`
	Height           *Measurement   `json:"height"`
	HeartRate        *int           `json:"heartRate" binding:"omitempty,min=30,max=300"`
	Temperature      *Measurement   `json:"temperature"`
	OxygenSaturation *int           `json:"oxygenSaturation" binding:"omitempty,min=0,max=100"`
	Notes            *string        `json:"notes"`
}

type VitalsFilter struct {
	Pagination
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
}

// VitalsAverages holds 30-day rounded averages for trendable measurements.
type VitalsAverages struct {
	BloodPressure *BloodPressure `json:"bloodPressure,omitempty"`
	BloodSugar    *int           `json:"bloodSugar,omitempty"`
	Weight        *int           `json:"weight,omitempty"`
}

type VitalsStats struct {
	Latest   *Vitals        `json:"latest"`
	Trends   []*Vitals      `json:"trends"`
	Averages VitalsAverages `json:"averages"`
}
