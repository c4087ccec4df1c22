package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
)

type insightRepository struct {
	db *sqlx.DB
}

func NewInsightRepository(db *sqlx.DB) repository.InsightRepository {
	return &insightRepository{db: db}
}

func (r *insightRepository) Create(ctx context.Context, insight *model.AiInsight) error {
	query := `
		INSERT INTO ai_insights (
			id, medical_file_id, user_id, summary, abnormal_values, doctor_questions,
			dietary_advice, home_remedies, overall_health_status, confidence, disclaimer,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`
	insight.CreatedAt = time.Now()
	insight.UpdatedAt = insight.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		insight.ID,
		insight.MedicalFileID,
		insight.UserID,
		insight.Summary,
		insight.AbnormalValues,
		insight.DoctorQuestions,
		insight.DietaryAdvice,
		insight.HomeRemedies,
		insight.OverallHealthStatus,
		insight.Confidence,
		insight.Disclaimer,
		insight.CreatedAt,
		insight.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create insight: %w", err)
	}
	return nil
}

func (r *insightRepository) GetByFile(ctx context.Context, userID, fileID uuid.UUID) (*model.AiInsight, error) {
	query := `SELECT * FROM ai_insights WHERE medical_file_id = $1 AND user_id = $2 ORDER BY created_at DESC LIMIT 1`
	var insight model.AiInsight
	if err := r.db.GetContext(ctx, &insight, query, fileID, userID); err != nil {
		return nil, wrapNotFound(err)
	}
	return &insight, nil
}

func (r *insightRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.AiInsight, error) {
	query := `SELECT * FROM ai_insights WHERE user_id = $1`
	insights := []*model.AiInsight{}
	if err := r.db.SelectContext(ctx, &insights, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	return insights, nil
}

func (r *insightRepository) DeleteByFile(ctx context.Context, fileID uuid.UUID) error {
	query := `DELETE FROM ai_insights WHERE medical_file_id = $1`
	if _, err := r.db.ExecContext(ctx, query, fileID); err != nil {
		return fmt.Errorf("failed to delete insights: %w", err)
	}
	return nil
}
