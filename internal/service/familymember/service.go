package familymember

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
	"github.com/healthmate/healthmate-api/internal/repository/postgres"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

type Service struct {
	repo repository.FamilyMemberRepository
}

func NewService(repo repository.FamilyMemberRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreateFamilyMemberRequest) (*model.FamilyMember, error) {
	color := req.Color
	if color == "" {
		color = model.DefaultMemberColor
	}

	member := &model.FamilyMember{
		Base:         model.Base{ID: uuid.New()},
		UserID:       userID,
		Name:         req.Name,
		Relation:     req.Relation,
		Color:        color,
		LastActivity: time.Now(),
	}

	if err := s.repo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create family member: %w", err)
	}
	return member, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*model.FamilyMember, error) {
	member, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return member, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*model.FamilyMember, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *model.UpdateFamilyMemberRequest) (*model.FamilyMember, error) {
	member, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Relation != nil {
		member.Relation = *req.Relation
	}
	if req.Color != nil {
		member.Color = *req.Color
	}

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, notFoundOr(err)
	}
	return member, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return notFoundOr(err)
	}
	return nil
}

func notFoundOr(err error) error {
	if errors.Is(err, postgres.ErrNotFound) {
		return apperrors.NotFound("Family member", err)
	}
	return err
}
