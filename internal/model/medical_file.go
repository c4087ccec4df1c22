package model

import (
	"database/sql/driver"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileKind is the derived kind of an uploaded binary.
type FileKind string

const (
	FileKindImage    FileKind = "image"
	FileKindPDF      FileKind = "pdf"
	FileKindDocument FileKind = "document"
)

// ReportType is a closed enumeration of recognized report categories.
type ReportType string

const (
	ReportTypeBloodTest    ReportType = "blood_test"
	ReportTypeUrineTest    ReportType = "urine_test"
	ReportTypeXRay         ReportType = "x_ray"
	ReportTypeUltrasound   ReportType = "ultrasound"
	ReportTypeCTScan       ReportType = "ct_scan"
	ReportTypeMRI          ReportType = "mri"
	ReportTypeECG          ReportType = "ecg"
	ReportTypePrescription ReportType = "prescription"
	ReportTypeOther        ReportType = "other"
)

// Sentinel values written when the remote storage upload failed. The record
// still represents the attempt and its metadata.
const (
	SentinelFileURL   = "N/A"
	SentinelStorageID = "none"
	SentinelFileName  = "no-file"
)

var knownReportTypes = map[ReportType]struct{}{
	ReportTypeBloodTest:    {},
	ReportTypeUrineTest:    {},
	ReportTypeXRay:         {},
	ReportTypeUltrasound:   {},
	ReportTypeCTScan:       {},
	ReportTypeMRI:          {},
	ReportTypeECG:          {},
	ReportTypePrescription: {},
	ReportTypeOther:        {},
}

// NormalizeReportType maps free-form input onto the closed enumeration.
// Lower-cases, turns spaces into underscores, and falls back to "other".
// Normalizing an already-normalized value is a no-op.
func NormalizeReportType(s string) ReportType {
	t := ReportType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_"))
	if _, ok := knownReportTypes[t]; ok {
		return t
	}
	return ReportTypeOther
}

// KindForContent derives the file kind from the uploaded content type,
// falling back to the filename extension.
func KindForContent(contentType, filename string) FileKind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "image/"):
		return FileKindImage
	case strings.Contains(ct, "pdf"):
		return FileKindPDF
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return FileKindImage
	case ".pdf":
		return FileKindPDF
	}
	return FileKindDocument
}

// ReportVitals are optional measurements captured alongside a report.
type ReportVitals struct {
	Systolic   *int     `json:"systolic,omitempty"`
	Diastolic  *int     `json:"diastolic,omitempty"`
	BloodSugar *float64 `json:"bloodSugar,omitempty"`
}

func (v ReportVitals) Value() (driver.Value, error) { return jsonValue(v) }
func (v *ReportVitals) Scan(src interface{}) error  { return jsonScan(v, src) }

// MedicalFile is an uploaded report. A row exists for every acknowledged
// upload attempt; storage-dependent fields hold sentinels when the binary
// upload failed.
type MedicalFile struct {
	Base
	UserID       uuid.UUID     `json:"user" db:"user_id"`
	MemberID     uuid.NullUUID `json:"memberId" db:"member_id"`
	FileName     string        `json:"fileName" db:"file_name"`
	OriginalName string        `json:"originalName" db:"original_name"`
	FileURL      string        `json:"fileUrl" db:"file_url"`
	StorageID    string        `json:"storageId" db:"storage_id"`
	FileType     FileKind      `json:"fileType" db:"file_type"`
	ReportType   ReportType    `json:"reportType" db:"report_type"`
	TestName     string        `json:"testName,omitempty" db:"test_name"`
	ReportDate   time.Time     `json:"reportDate" db:"report_date"`
	HospitalName string        `json:"hospitalName,omitempty" db:"hospital_name"`
	DoctorName   string        `json:"doctorName,omitempty" db:"doctor_name"`
	Notes        string        `json:"notes,omitempty" db:"notes"`
	Price        *float64      `json:"price,omitempty" db:"price"`
	FileSize     int64         `json:"fileSize" db:"file_size"`
	Vitals       ReportVitals  `json:"vitals" db:"vitals"`

	Insight *AiInsight `json:"aiInsight,omitempty" db:"-"`
}

// Stored reports true when the binary made it to remote storage.
func (f *MedicalFile) Stored() bool {
	return f.StorageID != "" && f.StorageID != SentinelStorageID
}

// UpdateMedicalFileRequest applies only the fields that are present.
type UpdateMedicalFileRequest struct {
	ReportType   *string    `json:"reportType"`
	TestName     *string    `json:"testName"`
	ReportDate   *time.Time `json:"reportDate"`
	HospitalName *string    `json:"hospitalName"`
	DoctorName   *string    `json:"doctorName"`
	Notes        *string    `json:"notes"`
	Price        *float64   `json:"price"`
	MemberID     *uuid.UUID `json:"memberId"`
}
