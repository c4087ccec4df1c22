package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
	"github.com/healthmate/healthmate-api/pkg/auth"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

const bcryptCost = 12

// Credential failures share one message so callers cannot tell whether the
// email or the password was wrong.
var errInvalidCredentials = apperrors.BadRequest("Invalid email or password", nil)

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
	}
}

// Register creates a user and issues a token for the new session.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, string, error) {
	existing, _ := s.userRepo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, "", apperrors.BadRequest("User already exists with this email", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		DateOfBirth:  req.DateOfBirth,
		Gender:       req.Gender,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwtSvc.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", errInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errInvalidCredentials
	}

	token, err := s.jwtSvc.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// ResolveToken returns the user a valid token belongs to.
func (s *Service) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid token.")
	}
	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid token. User not found.")
	}
	return user, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}
	return user, nil
}

// UpdateProfile applies only the fields present in the request.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		dob := *req.DateOfBirth
		user.DateOfBirth = &dob
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
