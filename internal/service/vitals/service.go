package vitals

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
	"github.com/healthmate/healthmate-api/internal/repository/postgres"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

const (
	trendWindow   = 30 * 24 * time.Hour
	statsCacheTTL = 5 * time.Minute
)

type Service struct {
	repo       repository.VitalsRepository
	statsCache *gocache.Cache
}

func NewService(repo repository.VitalsRepository) *Service {
	return &Service{
		repo:       repo,
		statsCache: gocache.New(statsCacheTTL, 10*time.Minute),
	}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreateVitalsRequest) (*model.Vitals, error) {
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	vitals := &model.Vitals{
		Base:             model.Base{ID: uuid.New()},
		UserID:           userID,
		Date:             date,
		BloodPressure:    req.BloodPressure,
		BloodSugar:       defaultSugarUnit(req.BloodSugar),
		Weight:           defaultUnit(req.Weight, "kg"),
		Height:           defaultUnit(req.Height, "cm"),
		HeartRate:        req.HeartRate,
		Temperature:      defaultUnit(req.Temperature, "celsius"),
		OxygenSaturation: req.OxygenSaturation,
		Notes:            req.Notes,
		IsManualEntry:    true,
	}

	if err := s.repo.Create(ctx, vitals); err != nil {
		return nil, fmt.Errorf("failed to add vitals: %w", err)
	}
	s.invalidateStats(userID)

	vitals.BMI = vitals.ComputeBMI()
	return vitals, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*model.Vitals, error) {
	vitals, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	vitals.BMI = vitals.ComputeBMI()
	return vitals, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter *model.VitalsFilter) ([]*model.Vitals, *model.PageInfo, error) {
	rows, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, nil, err
	}
	for _, v := range rows {
		v.BMI = v.ComputeBMI()
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	info := &model.PageInfo{
		Current: page,
		Pages:   (total + pageSize - 1) / pageSize,
		Total:   total,
	}
	return rows, info, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *model.UpdateVitalsRequest) (*model.Vitals, error) {
	vitals, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	if req.Date != nil {
		vitals.Date = *req.Date
	}
	if req.BloodPressure != nil {
		vitals.BloodPressure = *req.BloodPressure
	}
	if req.BloodSugar != nil {
		vitals.BloodSugar = defaultSugarUnit(*req.BloodSugar)
	}
	if req.Weight != nil {
		vitals.Weight = defaultUnit(*req.Weight, "kg")
	}
	if req.Height != nil {
		vitals.Height = defaultUnit(*req.Height, "cm")
	}
	if req.HeartRate != nil {
		vitals.HeartRate = req.HeartRate
	}
	if req.Temperature != nil {
		vitals.Temperature = defaultUnit(*req.Temperature, "celsius")
	}
	if req.OxygenSaturation != nil {
		vitals.OxygenSaturation = req.OxygenSaturation
	}
	if req.Notes != nil {
		vitals.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, vitals); err != nil {
		return nil, notFoundOr(err)
	}
	s.invalidateStats(userID)

	vitals.BMI = vitals.ComputeBMI()
	return vitals, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return notFoundOr(err)
	}
	s.invalidateStats(userID)
	return nil
}

// Stats aggregates the latest entry, the 30-day trend, and rounded averages.
// The result is cached per user for a short TTL and invalidated on writes.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*model.VitalsStats, error) {
	if cached, ok := s.statsCache.Get(userID.String()); ok {
		return cached.(*model.VitalsStats), nil
	}

	latest, err := s.repo.Latest(ctx, userID)
	if err != nil && !errors.Is(err, postgres.ErrNotFound) {
		return nil, err
	}
	if latest != nil {
		latest.BMI = latest.ComputeBMI()
	}

	trends, err := s.repo.ListSince(ctx, userID, time.Now().Add(-trendWindow))
	if err != nil {
		return nil, err
	}
	for _, v := range trends {
		v.BMI = v.ComputeBMI()
	}

	stats := &model.VitalsStats{
		Latest:   latest,
		Trends:   trends,
		Averages: computeAverages(trends),
	}
	s.statsCache.Set(userID.String(), stats, statsCacheTTL)
	return stats, nil
}

func (s *Service) invalidateStats(userID uuid.UUID) {
	s.statsCache.Delete(userID.String())
}

func computeAverages(rows []*model.Vitals) model.VitalsAverages {
	var avg model.VitalsAverages
	if len(rows) == 0 {
		return avg
	}

	var sysSum, diaSum, bpCount int
	var sugarSum float64
	var sugarCount int
	var weightSum float64
	var weightCount int

	for _, v := range rows {
		if v.BloodPressure.Systolic != nil && v.BloodPressure.Diastolic != nil {
			sysSum += *v.BloodPressure.Systolic
			diaSum += *v.BloodPressure.Diastolic
			bpCount++
		}
		if v.BloodSugar.Reading != nil {
			sugarSum += *v.BloodSugar.Reading
			sugarCount++
		}
		if v.Weight.Reading != nil {
			weightSum += *v.Weight.Reading
			weightCount++
		}
	}

	if bpCount > 0 {
		sys := int(math.Round(float64(sysSum) / float64(bpCount)))
		dia := int(math.Round(float64(diaSum) / float64(bpCount)))
		avg.BloodPressure = &model.BloodPressure{Systolic: &sys, Diastolic: &dia}
	}
	if sugarCount > 0 {
		sugar := int(math.Round(sugarSum / float64(sugarCount)))
		avg.BloodSugar = &sugar
	}
	if weightCount > 0 {
		weight := int(math.Round(weightSum / float64(weightCount)))
		avg.Weight = &weight
	}
	return avg
}

func defaultUnit(m model.Measurement, unit string) model.Measurement {
	if m.Reading != nil && m.Unit == "" {
		m.Unit = unit
	}
	return m
}

func defaultSugarUnit(b model.BloodSugar) model.BloodSugar {
	if b.Reading != nil && b.Unit == "" {
		b.Unit = "mg/dL"
	}
	return b
}

func notFoundOr(err error) error {
	if errors.Is(err, postgres.ErrNotFound) {
		return apperrors.NotFound("Vitals record", err)
	}
	return err
}
