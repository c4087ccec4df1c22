package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
)

type vitalsRepository struct {
	db *sqlx.DB
}

func NewVitalsRepository(db *sqlx.DB) repository.VitalsRepository {
	return &vitalsRepository{db: db}
}

func (r *vitalsRepository) Create(ctx context.Context, vitals *model.Vitals) error {
	query := `
		INSERT INTO vitals (
			id, user_id, date, blood_pressure, blood_sugar, weight, height,
			heart_rate, temperature, oxygen_saturation, notes, is_manual_entry,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`
	vitals.CreatedAt = time.Now()
	vitals.UpdatedAt = vitals.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		vitals.ID,
		vitals.UserID,
		vitals.Date,
		vitals.BloodPressure,
		vitals.BloodSugar,
		vitals.Weight,
		vitals.Height,
		vitals.HeartRate,
		vitals.Temperature,
		vitals.OxygenSaturation,
		vitals.Notes,
		vitals.IsManualEntry,
		vitals.CreatedAt,
		vitals.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vitals: %w", err)
	}
	return nil
}

func (r *vitalsRepository) Get(ctx context.Context, userID, id uuid.UUID) (*model.Vitals, error) {
	query := `SELECT * FROM vitals WHERE id = $1 AND user_id = $2`
	var vitals model.Vitals
	if err := r.db.GetContext(ctx, &vitals, query, id, userID); err != nil {
		return nil, wrapNotFound(err)
	}
	return &vitals, nil
}

func (r *vitalsRepository) List(ctx context.Context, userID uuid.UUID, filter *model.VitalsFilter) ([]*model.Vitals, int, error) {
	where := `WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += ` AND date <= $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM vitals `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count vitals: %w", err)
	}

	limit := filter.PageSize
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`SELECT * FROM vitals %s ORDER BY date DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows := []*model.Vitals{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list vitals: %w", err)
	}
	return rows, total, nil
}

func (r *vitalsRepository) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*model.Vitals, error) {
	query := `SELECT * FROM vitals WHERE user_id = $1 AND date >= $2 ORDER BY date ASC`
	rows := []*model.Vitals{}
	if err := r.db.SelectContext(ctx, &rows, query, userID, since); err != nil {
		return nil, fmt.Errorf("failed to list recent vitals: %w", err)
	}
	return rows, nil
}

func (r *vitalsRepository) Latest(ctx context.Context, userID uuid.UUID) (*model.Vitals, error) {
	query := `SELECT * FROM vitals WHERE user_id = $1 ORDER BY date DESC LIMIT 1`
	var vitals model.Vitals
	if err := r.db.GetContext(ctx, &vitals, query, userID); err != nil {
		return nil, wrapNotFound(err)
	}
	return &vitals, nil
}

func (r *vitalsRepository) Update(ctx context.Context, vitals *model.Vitals) error {
	query := `
		UPDATE vitals
		SET date = $1, blood_pressure = $2, blood_sugar = $3, weight = $4, height = $5,
			heart_rate = $6, temperature = $7, oxygen_saturation = $8, notes = $9, updated_at = $10
		WHERE id = $11 AND user_id = $12
	`
	vitals.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		vitals.Date,
		vitals.BloodPressure,
		vitals.BloodSugar,
		vitals.Weight,
		vitals.Height,
		vitals.HeartRate,
		vitals.Temperature,
		vitals.OxygenSaturation,
		vitals.Notes,
		vitals.UpdatedAt,
		vitals.ID,
		vitals.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vitals: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *vitalsRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM vitals WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete vitals: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
