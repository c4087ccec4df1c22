package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/healthmate/healthmate-api/internal/model"
)

// All lookups that take a userID are owner-scoped: a record that exists but
// belongs to someone else behaves exactly like one that does not exist.

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type FamilyMemberRepository interface {
	Create(ctx context.Context, member *model.FamilyMember) error
	Get(ctx context.Context, userID, id uuid.UUID) (*model.FamilyMember, error)
	List(ctx context.Context, userID uuid.UUID) ([]*model.FamilyMember, error)
	Update(ctx context.Context, member *model.FamilyMember) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	TouchActivity(ctx context.Context, userID, id uuid.UUID, at time.Time) error
}

type MedicalFileRepository interface {
	Create(ctx context.Context, file *model.MedicalFile) error
	Get(ctx context.Context, userID, id uuid.UUID) (*model.MedicalFile, error)
	List(ctx context.Context, userID uuid.UUID, memberID *uuid.UUID) ([]*model.MedicalFile, error)
	Update(ctx context.Context, file *model.MedicalFile) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type InsightRepository interface {
	Create(ctx context.Context, insight *model.AiInsight) error
	GetByFile(ctx context.Context, userID, fileID uuid.UUID) (*model.AiInsight, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.AiInsight, error)
	DeleteByFile(ctx context.Context, fileID uuid.UUID) error
}

type VitalsRepository interface {
	Create(ctx context.Context, vitals *model.Vitals) error
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Vitals, error)
	List(ctx context.Context, userID uuid.UUID, filter *model.VitalsFilter) ([]*model.Vitals, int, error)
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*model.Vitals, error)
	Latest(ctx context.Context, userID uuid.UUID) (*model.Vitals, error)
	Update(ctx context.Context, vitals *model.Vitals) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
