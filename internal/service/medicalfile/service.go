package medicalfile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
	"github.com/healthmate/healthmate-api/internal/repository/postgres"
	"github.com/healthmate/healthmate-api/internal/storage"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

var (
	// ErrNoFiles rejects an ingestion call with an empty file list before any
	// work is done.
	ErrNoFiles = apperrors.BadRequest("No files uploaded", nil)
	// ErrStorageNotConfigured is the pre-flight guard for missing storage
	// credentials; it is checked before any upload is attempted so the caller
	// gets a specific message instead of a generic server error.
	ErrStorageNotConfigured = apperrors.Internal("File storage is not configured", nil)
)

// Analyzer is the report-analysis collaborator. It never returns an error:
// degraded results are encoded in the returned payload.
type Analyzer interface {
	Analyze(ctx context.Context, fileURL, reportType string) *model.Insight
}

// UploadedFile is one file buffer received from the client.
type UploadedFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// ReportMeta is the metadata shared by every file in one ingestion call.
type ReportMeta struct {
	ReportType   string
	TestName     string
	ReportDate   time.Time
	HospitalName string
	DoctorName   string
	Notes        string
	Price        *float64
	Vitals       model.ReportVitals
	MemberID     *uuid.UUID
}

type Service struct {
	fileRepo    repository.MedicalFileRepository
	insightRepo repository.InsightRepository
	memberRepo  repository.FamilyMemberRepository
	store       storage.ObjectStore
	analyzer    Analyzer
	log         zerolog.Logger
}

func NewService(
	fileRepo repository.MedicalFileRepository,
	insightRepo repository.InsightRepository,
	memberRepo repository.FamilyMemberRepository,
	store storage.ObjectStore,
	analyzer Analyzer,
	log zerolog.Logger,
) *Service {
	return &Service{
		fileRepo:    fileRepo,
		insightRepo: insightRepo,
		memberRepo:  memberRepo,
		store:       store,
		analyzer:    analyzer,
		log:         log,
	}
}

// Ingest processes uploaded files sequentially and independently: a failed
// storage upload never aborts the batch and always still produces a record
// with sentinel storage fields. Analysis runs only for files whose binary
// made it to storage, and an analysis-persistence failure never fails the
// file. The result preserves input order and has exactly one record per
// input file.
func (s *Service) Ingest(ctx context.Context, userID uuid.UUID, files []UploadedFile, meta ReportMeta) ([]*model.MedicalFile, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if !s.store.Configured() {
		return nil, ErrStorageNotConfigured
	}

	reportType := model.NormalizeReportType(meta.ReportType)

	results := make([]*model.MedicalFile, 0, len(files))
	for _, f := range files {
		record := s.newRecord(userID, f, meta, reportType)

		uploaded, err := s.store.Upload(ctx, f.Name, f.ContentType, f.Data)
		if err != nil {
			s.log.Warn().Err(err).Str("file", f.Name).Msg("storage upload failed, keeping metadata-only record")
		} else {
			record.FileName = uploaded.Key
			record.FileURL = uploaded.URL
			record.StorageID = uploaded.ID
		}

		if err := s.fileRepo.Create(ctx, record); err != nil {
			return nil, err
		}

		if record.Stored() {
			s.attachInsight(ctx, record, string(reportType))
		}

		results = append(results, record)
	}

	if meta.MemberID != nil {
		if err := s.memberRepo.TouchActivity(ctx, userID, *meta.MemberID, time.Now()); err != nil {
			s.log.Warn().Err(err).Msg("failed to update member activity")
		}
	}

	return results, nil
}

func (s *Service) newRecord(userID uuid.UUID, f UploadedFile, meta ReportMeta, reportType model.ReportType) *model.MedicalFile {
	record := &model.MedicalFile{
		Base:         model.Base{ID: uuid.New()},
		UserID:       userID,
		FileName:     model.SentinelFileName,
		OriginalName: f.Name,
		FileURL:      model.SentinelFileURL,
		StorageID:    model.SentinelStorageID,
		FileType:     model.KindForContent(f.ContentType, f.Name),
		ReportType:   reportType,
		TestName:     meta.TestName,
		ReportDate:   meta.ReportDate,
		HospitalName: meta.HospitalName,
		DoctorName:   meta.DoctorName,
		Notes:        meta.Notes,
		Price:        meta.Price,
		FileSize:     f.Size,
		Vitals:       meta.Vitals,
	}
	if meta.MemberID != nil {
		record.MemberID = uuid.NullUUID{UUID: *meta.MemberID, Valid: true}
	}
	return record
}

// attachInsight runs analysis and persists the result. Failures are logged
// and swallowed: a medical file can legitimately exist with no insight.
func (s *Service) attachInsight(ctx context.Context, record *model.MedicalFile, reportType string) {
	insight := s.analyzer.Analyze(ctx, record.FileURL, reportType)
	stored := model.NewAiInsight(record.ID, record.UserID, insight)
	if err := s.insightRepo.Create(ctx, stored); err != nil {
		s.log.Warn().Err(err).Str("file_id", record.ID.String()).Msg("failed to persist insight")
		return
	}
	record.Insight = stored
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*model.MedicalFile, error) {
	file, err := s.fileRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if insight, err := s.insightRepo.GetByFile(ctx, userID, file.ID); err == nil {
		file.Insight = insight
	}
	return file, nil
}

// List returns the owner's files, optionally filtered to one family member,
// sorted newest-report first with insights attached.
func (s *Service) List(ctx context.Context, userID uuid.UUID, memberID *uuid.UUID) ([]*model.MedicalFile, error) {
	files, err := s.fileRepo.List(ctx, userID, memberID)
	if err != nil {
		return nil, err
	}

	insights, err := s.insightRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byFile := make(map[uuid.UUID]*model.AiInsight, len(insights))
	for _, in := range insights {
		byFile[in.MedicalFileID] = in
	}
	for _, f := range files {
		f.Insight = byFile[f.ID]
	}
	return files, nil
}

// Update applies only the fields present in the request.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *model.UpdateMedicalFileRequest) (*model.MedicalFile, error) {
	file, err := s.fileRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	if req.ReportType != nil {
		file.ReportType = model.NormalizeReportType(*req.ReportType)
	}
	if req.TestName != nil {
		file.TestName = *req.TestName
	}
	if req.ReportDate != nil {
		file.ReportDate = *req.ReportDate
	}
	if req.HospitalName != nil {
		file.HospitalName = *req.HospitalName
	}
	if req.DoctorName != nil {
		file.DoctorName = *req.DoctorName
	}
	if req.Notes != nil {
		file.Notes = *req.Notes
	}
	if req.Price != nil {
		file.Price = req.Price
	}
	if req.MemberID != nil {
		file.MemberID = uuid.NullUUID{UUID: *req.MemberID, Valid: true}
	}

	if err := s.fileRepo.Update(ctx, file); err != nil {
		return nil, notFoundOr(err)
	}
	return file, nil
}

// Delete removes the record and everything hanging off it: a best-effort
// remote delete first, then the insights, then the file row. A failing
// remote delete never blocks the cascade.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	file, err := s.fileRepo.Get(ctx, userID, id)
	if err != nil {
		return notFoundOr(err)
	}

	if file.Stored() {
		if err := s.store.Delete(ctx, file.StorageID); err != nil {
			s.log.Warn().Err(err).Str("storage_id", file.StorageID).Msg("remote delete failed")
		}
	}

	if err := s.insightRepo.DeleteByFile(ctx, file.ID); err != nil {
		return err
	}
	if err := s.fileRepo.Delete(ctx, userID, file.ID); err != nil {
		return notFoundOr(err)
	}
	return nil
}

func notFoundOr(err error) error {
	if errors.Is(err, postgres.ErrNotFound) {
		return apperrors.NotFound("Medical file", err)
	}
	return err
}
