package medicalfile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmate/healthmate-api/internal/ai"
	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository/postgres"
	"github.com/healthmate/healthmate-api/internal/storage"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

type fakeFileRepo struct {
	files     map[uuid.UUID]*model.MedicalFile
	createErr error
	deleted   []uuid.UUID
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[uuid.UUID]*model.MedicalFile)}
}

func (r *fakeFileRepo) Create(ctx context.Context, file *model.MedicalFile) error {
	if r.createErr != nil {
		return r.createErr
	}
	copied := *file
	r.files[file.ID] = &copied
	return nil
}

func (r *fakeFileRepo) Get(ctx context.Context, userID, id uuid.UUID) (*model.MedicalFile, error) {
	f, ok := r.files[id]
	if !ok || f.UserID != userID {
		return nil, postgres.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFileRepo) List(ctx context.Context, userID uuid.UUID, memberID *uuid.UUID) ([]*model.MedicalFile, error) {
	var out []*model.MedicalFile
	for _, f := range r.files {
		if f.UserID != userID {
			continue
		}
		if memberID == nil && f.MemberID.Valid {
			continue
		}
		if memberID != nil && (!f.MemberID.Valid || f.MemberID.UUID != *memberID) {
			continue
		}
		copied := *f
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeFileRepo) Update(ctx context.Context, file *model.MedicalFile) error {
	if _, ok := r.files[file.ID]; !ok {
		return postgres.ErrNotFound
	}
	copied := *file
	r.files[file.ID] = &copied
	return nil
}

func (r *fakeFileRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	f, ok := r.files[id]
	if !ok || f.UserID != userID {
		return postgres.ErrNotFound
	}
	delete(r.files, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeInsightRepo struct {
	insights  map[uuid.UUID]*model.AiInsight // keyed by file ID
	createErr error
	deleted   []uuid.UUID
}

func newFakeInsightRepo() *fakeInsightRepo {
	return &fakeInsightRepo{insights: make(map[uuid.UUID]*model.AiInsight)}
}

func (r *fakeInsightRepo) Create(ctx context.Context, insight *model.AiInsight) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.insights[insight.MedicalFileID] = insight
	return nil
}

func (r *fakeInsightRepo) GetByFile(ctx context.Context, userID, fileID uuid.UUID) (*model.AiInsight, error) {
	in, ok := r.insights[fileID]
	if !ok || in.UserID != userID {
		return nil, postgres.ErrNotFound
	}
	return in, nil
}

func (r *fakeInsightRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.AiInsight, error) {
	var out []*model.AiInsight
	for _, in := range r.insights {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (r *fakeInsightRepo) DeleteByFile(ctx context.Context, fileID uuid.UUID) error {
	delete(r.insights, fileID)
	r.deleted = append(r.deleted, fileID)
	return nil
}

type fakeMemberRepo struct {
	touched []uuid.UUID
}

func (r *fakeMemberRepo) Create(ctx context.Context, m *model.FamilyMember) error { return nil }
func (r *fakeMemberRepo) Get(ctx context.Context, userID, id uuid.UUID) (*model.FamilyMember, error) {
	return nil, postgres.ErrNotFound
}
func (r *fakeMemberRepo) List(ctx context.Context, userID uuid.UUID) ([]*model.FamilyMember, error) {
	return nil, nil
}
func (r *fakeMemberRepo) Update(ctx context.Context, m *model.FamilyMember) error { return nil }
func (r *fakeMemberRepo) Delete(ctx context.Context, userID, id uuid.UUID) error  { return nil }
func (r *fakeMemberRepo) TouchActivity(ctx context.Context, userID, id uuid.UUID, at time.Time) error {
	r.touched = append(r.touched, id)
	return nil
}

type fakeStore struct {
	configured bool
	failNames  map[string]bool
	deleteErr  error
	deleted    []string
	uploads    int
}

func (s *fakeStore) Configured() bool { return s.configured }

func (s *fakeStore) Upload(ctx context.Context, filename, contentType string, data []byte) (*storage.UploadResult, error) {
	s.uploads++
	if s.failNames[filename] {
		return nil, errors.New("upload failed")
	}
	return &storage.UploadResult{
		Key: "medical-reports/" + filename,
		URL: "https://storage.googleapis.com/test-bucket/medical-reports/" + filename,
		ID:  "medical-reports/" + filename,
	}, nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return s.deleteErr
}

type fakeAnalyzer struct {
	calls int
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, fileURL, reportType string) *model.Insight {
	a.calls++
	return ai.OutageFallback()
}

type fixture struct {
	svc      *Service
	fileRepo *fakeFileRepo
	insights *fakeInsightRepo
	members  *fakeMemberRepo
	store    *fakeStore
	analyzer *fakeAnalyzer
}

func newFixture() *fixture {
	f := &fixture{
		fileRepo: newFakeFileRepo(),
		insights: newFakeInsightRepo(),
		members:  &fakeMemberRepo{},
		store:    &fakeStore{configured: true, failNames: map[string]bool{}},
		analyzer: &fakeAnalyzer{},
	}
	f.svc = NewService(f.fileRepo, f.insights, f.members, f.store, f.analyzer, zerolog.Nop())
	return f
}

func upload(name string) UploadedFile {
	return UploadedFile{Name: name, ContentType: "application/pdf", Size: 42, Data: []byte("pdf")}
}

func TestIngestRejectsEmptyBatch(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Ingest(context.Background(), uuid.New(), nil, ReportMeta{})

	assert.ErrorIs(t, err, ErrNoFiles)
	assert.Empty(t, f.fileRepo.files)
	assert.Zero(t, f.store.uploads)
}

func TestIngestRejectsUnconfiguredStorage(t *testing.T) {
	f := newFixture()
	f.store.configured = false

	_, err := f.svc.Ingest(context.Background(), uuid.New(), []UploadedFile{upload("a.pdf")}, ReportMeta{})

	assert.ErrorIs(t, err, ErrStorageNotConfigured)
	assert.Empty(t, f.fileRepo.files)
	assert.Zero(t, f.store.uploads)
}

func TestIngestStoresEveryFileAndAnalyzesStoredOnes(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	records, err := f.svc.Ingest(context.Background(), userID,
		[]UploadedFile{upload("a.pdf"), upload("b.pdf"), upload("c.pdf")},
		ReportMeta{ReportType: "Blood Test"})

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Len(t, f.fileRepo.files, 3)
	assert.Equal(t, 3, f.analyzer.calls)

	for _, rec := range records {
		assert.Equal(t, model.ReportTypeBloodTest, rec.ReportType)
		assert.True(t, rec.Stored())
		assert.NotNil(t, rec.Insight)
	}
	// Input order is preserved.
	assert.Equal(t, "a.pdf", records[0].OriginalName)
	assert.Equal(t, "b.pdf", records[1].OriginalName)
	assert.Equal(t, "c.pdf", records[2].OriginalName)
}

func TestIngestKeepsSentinelRecordWhenUploadFails(t *testing.T) {
	f := newFixture()
	f.store.failNames["b.pdf"] = true
	userID := uuid.New()

	records, err := f.svc.Ingest(context.Background(), userID,
		[]UploadedFile{upload("a.pdf"), upload("b.pdf"), upload("c.pdf")},
		ReportMeta{ReportType: "blood_test"})

	require.NoError(t, err)
	require.Len(t, records, 3)

	failed := records[1]
	assert.Equal(t, model.SentinelFileURL, failed.FileURL)
	assert.Equal(t, model.SentinelStorageID, failed.StorageID)
	assert.Equal(t, model.SentinelFileName, failed.FileName)
	assert.False(t, failed.Stored())
	assert.Nil(t, failed.Insight)

	// The failed upload still produced a row, and only stored files were
	// analyzed.
	assert.Len(t, f.fileRepo.files, 3)
	assert.Equal(t, 2, f.analyzer.calls)
	assert.True(t, records[0].Stored())
	assert.True(t, records[2].Stored())
}

func TestIngestSwallowsInsightPersistenceFailure(t *testing.T) {
	f := newFixture()
	f.insights.createErr = errors.New("db down")

	records, err := f.svc.Ingest(context.Background(), uuid.New(),
		[]UploadedFile{upload("a.pdf")}, ReportMeta{ReportType: "x ray"})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Stored())
	assert.Nil(t, records[0].Insight)
}

func TestIngestTouchesMemberActivity(t *testing.T) {
	f := newFixture()
	memberID := uuid.New()

	_, err := f.svc.Ingest(context.Background(), uuid.New(),
		[]UploadedFile{upload("a.pdf")},
		ReportMeta{ReportType: "mri", MemberID: &memberID})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{memberID}, f.members.touched)
}

func TestIngestNormalizesUnknownReportType(t *testing.T) {
	f := newFixture()

	records, err := f.svc.Ingest(context.Background(), uuid.New(),
		[]UploadedFile{upload("a.pdf")}, ReportMeta{ReportType: "Genetic Panel"})

	require.NoError(t, err)
	assert.Equal(t, model.ReportTypeOther, records[0].ReportType)
}

func TestGetScopedToOwner(t *testing.T) {
	f := newFixture()
	owner := uuid.New()

	records, err := f.svc.Ingest(context.Background(), owner,
		[]UploadedFile{upload("a.pdf")}, ReportMeta{ReportType: "ecg"})
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), uuid.New(), records[0].ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)

	got, err := f.svc.Get(context.Background(), owner, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, records[0].ID, got.ID)
	assert.NotNil(t, got.Insight)
}

func TestUpdateReNormalizesReportType(t *testing.T) {
	f := newFixture()
	owner := uuid.New()

	records, err := f.svc.Ingest(context.Background(), owner,
		[]UploadedFile{upload("a.pdf")}, ReportMeta{ReportType: "blood_test"})
	require.NoError(t, err)

	newType := "Urine Test"
	updated, err := f.svc.Update(context.Background(), owner, records[0].ID,
		&model.UpdateMedicalFileRequest{ReportType: &newType})
	require.NoError(t, err)
	assert.Equal(t, model.ReportTypeUrineTest, updated.ReportType)

	// Normalization is idempotent: updating with the stored value is a no-op.
	stored := string(updated.ReportType)
	again, err := f.svc.Update(context.Background(), owner, records[0].ID,
		&model.UpdateMedicalFileRequest{ReportType: &stored})
	require.NoError(t, err)
	assert.Equal(t, updated.ReportType, again.ReportType)
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture()
	owner := uuid.New()

	records, err := f.svc.Ingest(context.Background(), owner,
		[]UploadedFile{upload("a.pdf")}, ReportMeta{ReportType: "blood_test"})
	require.NoError(t, err)
	fileID := records[0].ID

	require.NoError(t, f.svc.Delete(context.Background(), owner, fileID))

	assert.Equal(t, []string{records[0].StorageID}, f.store.deleted)
	assert.Equal(t, []uuid.UUID{fileID}, f.insights.deleted)
	assert.Equal(t, []uuid.UUID{fileID}, f.fileRepo.deleted)
}

func TestDeleteSurvivesRemoteDeleteFailure(t *testing.T) {
	f := newFixture()
	f.store.deleteErr = errors.New("bucket unavailable")
	owner := uuid.New()

	records, err := f.svc.Ingest(context.Background(), owner,
		[]UploadedFile{upload("a.pdf")}, ReportMeta{ReportType: "blood_test"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), owner, records[0].ID))
	assert.Empty(t, f.fileRepo.files)
	assert.Empty(t, f.insights.insights)
}

func TestDeleteSkipsRemoteForSentinelRecords(t *testing.T) {
	f := newFixture()
	f.store.failNames["a.pdf"] = true
	owner := uuid.New()

	records, err := f.svc.Ingest(context.Background(), owner,
		[]UploadedFile{upload("a.pdf")}, ReportMeta{ReportType: "blood_test"})
	require.NoError(t, err)
	require.False(t, records[0].Stored())

	require.NoError(t, f.svc.Delete(context.Background(), owner, records[0].ID))
	assert.Empty(t, f.store.deleted)
	assert.Empty(t, f.fileRepo.files)
}

func TestListFiltersByMember(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	memberID := uuid.New()

	_, err := f.svc.Ingest(context.Background(), owner,
		[]UploadedFile{upload("self.pdf")}, ReportMeta{ReportType: "blood_test"})
	require.NoError(t, err)
	_, err = f.svc.Ingest(context.Background(), owner,
		[]UploadedFile{upload("member.pdf")}, ReportMeta{ReportType: "blood_test", MemberID: &memberID})
	require.NoError(t, err)

	selfFiles, err := f.svc.List(context.Background(), owner, nil)
	require.NoError(t, err)
	require.Len(t, selfFiles, 1)
	assert.Equal(t, "self.pdf", selfFiles[0].OriginalName)

	memberFiles, err := f.svc.List(context.Background(), owner, &memberID)
	require.NoError(t, err)
	require.Len(t, memberFiles, 1)
	assert.Equal(t, "member.pdf", memberFiles[0].OriginalName)
}
