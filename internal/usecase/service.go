package usecase

import (
	"fmt"
	"time"

	"movie-watchlist/internal/data/repository"
	"movie-watchlist/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Movie   MovieService
	Session SessionService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) (*Service, error) {
	auth, err := NewAuthService(repo, config.Security, log)
	if err != nil {
		return nil, fmt.Errorf("init auth service: %w", err)
	}

	return &Service{
		Auth:    auth,
		Movie:   NewMovieService(repo, log),
		Session: NewSessionService(repo.Session, config.Session, log),
	}, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
