package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeReportType(t *testing.T) {
	tests := []struct {
		input string
		want  ReportType
	}{
		{"blood_test", ReportTypeBloodTest},
		{"Blood Test", ReportTypeBloodTest},
		{"  BLOOD TEST  ", ReportTypeBloodTest},
		{"x ray", ReportTypeXRay},
		{"X Ray", ReportTypeXRay},
		{"CT Scan", ReportTypeCTScan},
		{"mri", ReportTypeMRI},
		{"prescription", ReportTypePrescription},
		{"", ReportTypeOther},
		{"genetic panel", ReportTypeOther},
		{"unknown", ReportTypeOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeReportType(tt.input), "input %q", tt.input)
	}
}

func TestNormalizeReportTypeIdempotent(t *testing.T) {
	inputs := []string{"Blood Test", "x ray", "genetic panel", "mri", ""}
	for _, in := range inputs {
		once := NormalizeReportType(in)
		twice := NormalizeReportType(string(once))
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestKindForContent(t *testing.T) {
	assert.Equal(t, FileKindImage, KindForContent("image/jpeg", "scan.jpg"))
	assert.Equal(t, FileKindImage, KindForContent("image/png", "scan.png"))
	assert.Equal(t, FileKindPDF, KindForContent("application/pdf", "report.pdf"))
	assert.Equal(t, FileKindPDF, KindForContent("", "report.pdf"))
	assert.Equal(t, FileKindDocument, KindForContent("application/octet-stream", "report.docx"))
}

func TestStored(t *testing.T) {
	assert.False(t, (&MedicalFile{StorageID: SentinelStorageID}).Stored())
	assert.False(t, (&MedicalFile{StorageID: ""}).Stored())
	assert.True(t, (&MedicalFile{StorageID: "medical-reports/abc.pdf"}).Stored())
}
