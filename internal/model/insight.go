package model

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

// Severity of a single abnormal finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityNormal   Severity = "normal"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// HealthStatus is the overall assessment of a report.
type HealthStatus string

const (
	HealthStatusExcellent HealthStatus = "excellent"
	HealthStatusGood      HealthStatus = "good"
	HealthStatusFair      HealthStatus = "fair"
	HealthStatusPoor      HealthStatus = "poor"
	HealthStatusCritical  HealthStatus = "critical"
)

// Bilingual is a text pair in English and Roman Urdu.
type Bilingual struct {
	English string `json:"english"`
	Urdu    string `json:"urdu"`
}

func (b Bilingual) Value() (driver.Value, error) { return jsonValue(b) }
func (b *Bilingual) Scan(src interface{}) error  { return jsonScan(b, src) }

// DefaultDisclaimer is attached to every persisted insight that arrived
// without one.
var DefaultDisclaimer = Bilingual{
	English: "This AI analysis is for educational purposes only. Always consult your doctor before making any medical decisions.",
	Urdu:    "Yeh AI analysis sirf educational purposes ke liye hai. Koi bhi medical decision lene se pehle apne doctor se zaroor consult karein.",
}

type AbnormalValue struct {
	TestName    string    `json:"testName"`
	Value       string    `json:"value"`
	NormalRange string    `json:"normalRange"`
	Severity    Severity  `json:"severity"`
	Explanation Bilingual `json:"explanation"`
}

type AbnormalValueList []AbnormalValue

func (l AbnormalValueList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *AbnormalValueList) Scan(src interface{}) error  { return jsonScan(l, src) }

type DoctorQuestion struct {
	Question Bilingual `json:"question"`
}

type DoctorQuestionList []DoctorQuestion

func (l DoctorQuestionList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *DoctorQuestionList) Scan(src interface{}) error  { return jsonScan(l, src) }

type FoodAdvice struct {
	Name   Bilingual `json:"name"`
	Reason Bilingual `json:"reason"`
}

type DietaryAdvice struct {
	FoodsToAvoid []FoodAdvice `json:"foodsToAvoid"`
	FoodsToEat   []FoodAdvice `json:"foodsToEat"`
}

func (d DietaryAdvice) Value() (driver.Value, error) { return jsonValue(d) }
func (d *DietaryAdvice) Scan(src interface{}) error  { return jsonScan(d, src) }

type HomeRemedy struct {
	Remedy       Bilingual `json:"remedy"`
	Instructions Bilingual `json:"instructions"`
}

type HomeRemedyList []HomeRemedy

func (l HomeRemedyList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *HomeRemedyList) Scan(src interface{}) error  { return jsonScan(l, src) }

// Insight is the structured analysis of a report as produced by the model
// (or one of the deterministic fallbacks). It is a value object with no
// identity; equality is structural.
type Insight struct {
	Summary             Bilingual          `json:"summary"`
	AbnormalValues      AbnormalValueList  `json:"abnormalValues"`
	DoctorQuestions     DoctorQuestionList `json:"doctorQuestions"`
	DietaryAdvice       DietaryAdvice      `json:"dietaryAdvice"`
	HomeRemedies        HomeRemedyList     `json:"homeRemedies"`
	OverallHealthStatus HealthStatus       `json:"overallHealthStatus"`
	Confidence          int                `json:"confidence"`
	Disclaimer          *Bilingual         `json:"disclaimer,omitempty"`
}

// AiInsight is a persisted Insight tied to a medical file. The user reference
// duplicates the file's owner for query efficiency; the two must agree.
type AiInsight struct {
	Base
	MedicalFileID       uuid.UUID          `json:"medicalFile" db:"medical_file_id"`
	UserID              uuid.UUID          `json:"user" db:"user_id"`
	Summary             Bilingual          `json:"summary" db:"summary"`
	AbnormalValues      AbnormalValueList  `json:"abnormalValues" db:"abnormal_values"`
	DoctorQuestions     DoctorQuestionList `json:"doctorQuestions" db:"doctor_questions"`
	DietaryAdvice       DietaryAdvice      `json:"dietaryAdvice" db:"dietary_advice"`
	HomeRemedies        HomeRemedyList     `json:"homeRemedies" db:"home_remedies"`
	OverallHealthStatus HealthStatus       `json:"overallHealthStatus" db:"overall_health_status"`
	Confidence          int                `json:"confidence" db:"confidence"`
	Disclaimer          Bilingual          `json:"disclaimer" db:"disclaimer"`
}

// NewAiInsight binds an analysis result to a file and owner, defaulting the
// disclaimer when the payload carried none.
func NewAiInsight(fileID, userID uuid.UUID, in *Insight) *AiInsight {
	disclaimer := DefaultDisclaimer
	if in.Disclaimer != nil {
		disclaimer = *in.Disclaimer
	}
	return &AiInsight{
		Base:                Base{ID: uuid.New()},
		MedicalFileID:       fileID,
		UserID:              userID,
		Summary:             in.Summary,
		AbnormalValues:      in.AbnormalValues,
		DoctorQuestions:     in.DoctorQuestions,
		DietaryAdvice:       in.DietaryAdvice,
		HomeRemedies:        in.HomeRemedies,
		OverallHealthStatus: in.OverallHealthStatus,
		Confidence:          in.Confidence,
		Disclaimer:          disclaimer,
	}
}
