package services

import (
	"context"

	"tradelink_backend/internal/appErrors"
	"tradelink_backend/internal/auth"
	"tradelink_backend/internal/logger"
	"tradelink_backend/internal/models"
	"tradelink_backend/internal/repositories"
	"tradelink_backend/internal/services/dto"
	"tradelink_backend/internal/validator"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
}

type AuthServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
}

func NewAuthService(userRepo repositories.UserRepository, profileRepo repositories.ProfileRepository) AuthService {
	return &AuthServiceImpl{userRepo: userRepo, profileRepo: profileRepo}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	// Password length rules live on the request DTO; re-validate here so the
	// service is safe to call from non-HTTP entry points.
	if details := validator.Struct(req); details != nil {
		return nil, appErrors.ValidationError(details)
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, appErrors.New(appErrors.CodeValidationFailed, "Email already registered", 400)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.UserRole(req.Role),
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, appErrors.InternalError(err)
	}

	profile := &models.Profile{
		UserID:             user.ID,
		Role:               user.Role,
		SubscriptionStatus: models.SubscriptionTierFree,
	}
	if err := s.profileRepo.Create(profile); err != nil {
		return nil, appErrors.InternalError(err)
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return &dto.AuthResponse{Token: token, UserID: user.ID, Role: string(user.Role)}, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, appErrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user logged in", "user_id", user.ID)
	return &dto.AuthResponse{Token: token, UserID: user.ID, Role: string(user.Role)}, nil
}
