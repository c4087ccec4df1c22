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

type familyMemberRepository struct {
	db *sqlx.DB
}

func NewFamilyMemberRepository(db *sqlx.DB) repository.FamilyMemberRepository {
	return &familyMemberRepository{db: db}
}

func (r *familyMemberRepository) Create(ctx context.Context, member *model.FamilyMember) error {
	query := `
		INSERT INTO family_members (id, user_id, name, relation, color, last_activity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	member.CreatedAt = time.Now()
	member.UpdatedAt = member.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		member.ID,
		member.UserID,
		member.Name,
		member.Relation,
		member.Color,
		member.LastActivity,
		member.CreatedAt,
		member.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create family member: %w", err)
	}
	return nil
}

func (r *familyMemberRepository) Get(ctx context.Context, userID, id uuid.UUID) (*model.FamilyMember, error) {
	query := `SELECT * FROM family_members WHERE id = $1 AND user_id = $2`
	var member model.FamilyMember
	if err := r.db.GetContext(ctx, &member, query, id, userID); err != nil {
		return nil, wrapNotFound(err)
	}
	return &member, nil
}

func (r *familyMemberRepository) List(ctx context.Context, userID uuid.UUID) ([]*model.FamilyMember, error) {
	query := `SELECT * FROM family_members WHERE user_id = $1 ORDER BY created_at DESC`
	members := []*model.FamilyMember{}
	if err := r.db.SelectContext(ctx, &members, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list family members: %w", err)
	}
	return members, nil
}

func (r *familyMemberRepository) Update(ctx context.Context, member *model.FamilyMember) error {
	query := `
		UPDATE family_members
		SET name = $1, relation = $2, color = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`
	member.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		member.Name,
		member.Relation,
		member.Color,
		member.UpdatedAt,
		member.ID,
		member.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update family member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *familyMemberRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM family_members WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete family member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *familyMemberRepository) TouchActivity(ctx context.Context, userID, id uuid.UUID, at time.Time) error {
	query := `UPDATE family_members SET last_activity = $1 WHERE id = $2 AND user_id = $3`
	_, err := r.db.ExecContext(ctx, query, at, id, userID)
	return err
}
