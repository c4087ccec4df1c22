package vitals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository/postgres"
)

type fakeVitalsRepo struct {
	rows       map[uuid.UUID]*model.Vitals
	sinceCalls int
}

func newFakeVitalsRepo() *fakeVitalsRepo {
	return &fakeVitalsRepo{rows: make(map[uuid.UUID]*model.Vitals)}
}

func (r *fakeVitalsRepo) Create(ctx context.Context, v *model.Vitals) error {
	copied := *v
	r.rows[v.ID] = &copied
	return nil
}

func (r *fakeVitalsRepo) Get(ctx context.Context, userID, id uuid.UUID) (*model.Vitals, error) {
	v, ok := r.rows[id]
	if !ok || v.UserID != userID {
		return nil, postgres.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *fakeVitalsRepo) List(ctx context.Context, userID uuid.UUID, filter *model.VitalsFilter) ([]*model.Vitals, int, error) {
	var out []*model.Vitals
	for _, v := range r.rows {
		if v.UserID == userID {
			copied := *v
			out = append(out, &copied)
		}
	}
	return out, len(out), nil
}

func (r *fakeVitalsRepo) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*model.Vitals, error) {
	r.sinceCalls++
	var out []*model.Vitals
	for _, v := range r.rows {
		if v.UserID == userID && !v.Date.Before(since) {
			copied := *v
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeVitalsRepo) Latest(ctx context.Context, userID uuid.UUID) (*model.Vitals, error) {
	var latest *model.Vitals
	for _, v := range r.rows {
		if v.UserID != userID {
			continue
		}
		if latest == nil || v.Date.After(latest.Date) {
			copied := *v
			latest = &copied
		}
	}
	if latest == nil {
		return nil, postgres.ErrNotFound
	}
	return latest, nil
}

func (r *fakeVitalsRepo) Update(ctx context.Context, v *model.Vitals) error {
	if _, ok := r.rows[v.ID]; !ok {
		return postgres.ErrNotFound
	}
	copied := *v
	r.rows[v.ID] = &copied
	return nil
}

func (r *fakeVitalsRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	v, ok := r.rows[id]
	if !ok || v.UserID != userID {
		return postgres.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestComputeBMIMetric(t *testing.T) {
	v := &model.Vitals{
		Weight: model.Measurement{Reading: fptr(70), Unit: "kg"},
		Height: model.Measurement{Reading: fptr(175), Unit: "cm"},
	}
	bmi := v.ComputeBMI()
	require.NotNil(t, bmi)
	assert.InDelta(t, 22.9, *bmi, 0.001)
}

func TestComputeBMIImperial(t *testing.T) {
	v := &model.Vitals{
		Weight: model.Measurement{Reading: fptr(154), Unit: "lbs"},
		Height: model.Measurement{Reading: fptr(5.74), Unit: "ft"},
	}
	bmi := v.ComputeBMI()
	require.NotNil(t, bmi)
	// 154 lbs = 69.85 kg, 5.74 ft = 1.7496 m
	assert.InDelta(t, 22.8, *bmi, 0.001)
}

func TestComputeBMIAbsentMeasurements(t *testing.T) {
	assert.Nil(t, (&model.Vitals{}).ComputeBMI())
	assert.Nil(t, (&model.Vitals{
		Weight: model.Measurement{Reading: fptr(70), Unit: "kg"},
	}).ComputeBMI())
	assert.Nil(t, (&model.Vitals{
		Weight: model.Measurement{Reading: fptr(0), Unit: "kg"},
		Height: model.Measurement{Reading: fptr(175), Unit: "cm"},
	}).ComputeBMI())
}

func TestCreateDefaultsUnitsAndComputesBMI(t *testing.T) {
	svc := NewService(newFakeVitalsRepo())

	created, err := svc.Create(context.Background(), uuid.New(), &model.CreateVitalsRequest{
		Weight:     model.Measurement{Reading: fptr(70)},
		Height:     model.Measurement{Reading: fptr(175)},
		BloodSugar: model.BloodSugar{Reading: fptr(95)},
	})

	require.NoError(t, err)
	assert.Equal(t, "kg", created.Weight.Unit)
	assert.Equal(t, "cm", created.Height.Unit)
	assert.Equal(t, "mg/dL", created.BloodSugar.Unit)
	assert.True(t, created.IsManualEntry)
	require.NotNil(t, created.BMI)
	assert.InDelta(t, 22.9, *created.BMI, 0.001)
}

func TestUpdateAppliesOnlyPresentFields(t *testing.T) {
	repo := newFakeVitalsRepo()
	svc := NewService(repo)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, &model.CreateVitalsRequest{
		Weight:    model.Measurement{Reading: fptr(70), Unit: "kg"},
		Height:    model.Measurement{Reading: fptr(175), Unit: "cm"},
		HeartRate: iptr(72),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), userID, created.ID, &model.UpdateVitalsRequest{
		Weight: &model.Measurement{Reading: fptr(72), Unit: "kg"},
	})
	require.NoError(t, err)

	assert.Equal(t, 72.0, *updated.Weight.Reading)
	assert.Equal(t, 175.0, *updated.Height.Reading)
	require.NotNil(t, updated.HeartRate)
	assert.Equal(t, 72, *updated.HeartRate)
}

func TestGetScopedToOwner(t *testing.T) {
	repo := newFakeVitalsRepo()
	svc := NewService(repo)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, &model.CreateVitalsRequest{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New(), created.ID)
	assert.Error(t, err)

	got, err := svc.Get(context.Background(), owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestStatsComputesAverages(t *testing.T) {
	repo := newFakeVitalsRepo()
	svc := NewService(repo)
	userID := uuid.New()

	entries := []model.CreateVitalsRequest{
		{
			BloodPressure: model.BloodPressure{Systolic: iptr(120), Diastolic: iptr(80)},
			BloodSugar:    model.BloodSugar{Reading: fptr(90)},
			Weight:        model.Measurement{Reading: fptr(70), Unit: "kg"},
		},
		{
			BloodPressure: model.BloodPressure{Systolic: iptr(130), Diastolic: iptr(85)},
			BloodSugar:    model.BloodSugar{Reading: fptr(110)},
			Weight:        model.Measurement{Reading: fptr(72), Unit: "kg"},
		},
		{
			// Partial blood pressure is excluded from the BP average.
			BloodPressure: model.BloodPressure{Systolic: iptr(200)},
		},
	}
	for i := range entries {
		_, err := svc.Create(context.Background(), userID, &entries[i])
		require.NoError(t, err)
	}

	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)

	require.NotNil(t, stats.Latest)
	assert.Len(t, stats.Trends, 3)

	require.NotNil(t, stats.Averages.BloodPressure)
	assert.Equal(t, 125, *stats.Averages.BloodPressure.Systolic)
	assert.Equal(t, 83, *stats.Averages.BloodPressure.Diastolic)
	require.NotNil(t, stats.Averages.BloodSugar)
	assert.Equal(t, 100, *stats.Averages.BloodSugar)
	require.NotNil(t, stats.Averages.Weight)
	assert.Equal(t, 71, *stats.Averages.Weight)
}

func TestStatsEmptyHistory(t *testing.T) {
	svc := NewService(newFakeVitalsRepo())

	stats, err := svc.Stats(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Nil(t, stats.Latest)
	assert.Empty(t, stats.Trends)
	assert.Nil(t, stats.Averages.BloodPressure)
	assert.Nil(t, stats.Averages.BloodSugar)
	assert.Nil(t, stats.Averages.Weight)
}

func TestStatsCachedUntilWrite(t *testing.T) {
	repo := newFakeVitalsRepo()
	svc := NewService(repo)
	userID := uuid.New()

	_, err := svc.Create(context.Background(), userID, &model.CreateVitalsRequest{})
	require.NoError(t, err)

	_, err = svc.Stats(context.Background(), userID)
	require.NoError(t, err)
	_, err = svc.Stats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.sinceCalls)

	// A write invalidates the cached stats.
	_, err = svc.Create(context.Background(), userID, &model.CreateVitalsRequest{})
	require.NoError(t, err)
	_, err = svc.Stats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.sinceCalls)
}
