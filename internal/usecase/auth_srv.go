package usecase

import (
	"context"
	"errors"
	"fmt"

	"movie-watchlist/internal/data/entity"
	"movie-watchlist/internal/data/repository"
	"movie-watchlist/internal/dto/request"
	"movie-watchlist/pkg/utils"

	"go.uber.org/zap"
)

// AuthService expects forms that have already passed utils.ValidateForm.
type AuthService interface {
	Register(ctx context.Context, form request.RegisterForm) (*entity.User, error)
	Login(ctx context.Context, form request.LoginForm) (*entity.User, error)
}

type authService struct {
	repo   *repository.Repository
	config utils.SecurityConfig
	log    *zap.Logger

	// compared against when the email is unknown
	fallbackHash string
}

func NewAuthService(
	repo *repository.Repository,
	config utils.SecurityConfig,
	log *zap.Logger,
) (AuthService, error) {
	fallbackHash, err := utils.HashPassword(utils.GenerateToken(), config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("build fallback hash: %w", err)
	}

	return &authService{
		repo:         repo,
		config:       config,
		log:          log.With(zap.String("service", "auth")),
		fallbackHash: fallbackHash,
	}, nil
}

func (s *authService) Register(ctx context.Context, form request.RegisterForm) (*entity.User, error) {
	existing, err := s.repo.User.FindByEmail(ctx, form.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		s.log.Info("Register with taken email", zap.String("email", form.Email))
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(form.Password, s.config.BcryptCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := utcNow()
	user := &entity.User{
		ID:           utils.GenerateID(),
		Email:        form.Email,
		PasswordHash: hashedPassword,
		Movies:       []string{},
		Timestamps:   entity.NewTimestamps(now),
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return user, nil
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password, after the same amount of hashing work.
func (s *authService) Login(ctx context.Context, form request.LoginForm) (*entity.User, error) {
	user, err := s.repo.User.FindByEmail(ctx, form.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil {
		utils.CheckPasswordHash(form.Password, s.fallbackHash)
		s.log.Warn("Login failed", zap.String("reason", "unknown email"))
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(form.Password, user.PasswordHash) {
		s.log.Warn("Login failed",
			zap.String("reason", "password mismatch"),
			zap.String("user_id", user.ID),
		)
		return nil, ErrInvalidCredentials
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID))
	return user, nil
}
