package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-watchlist/internal/data/entity"
	"movie-watchlist/internal/data/repository"
	"movie-watchlist/pkg/utils"

	"go.uber.org/zap"
)

type SessionService interface {
	// Load returns the stored session for token, or a new unsaved one when
	// the token is empty, unknown or expired.
	Load(ctx context.Context, token string) (*entity.Session, error)
	// Save persists the session and extends its expiry.
	Save(ctx context.Context, session *entity.Session) error
	// Renew gives the session a fresh token and CSRF token, dropping the old
	// record. Used when the identity changes.
	Renew(ctx context.Context, session *entity.Session) error
}

type sessionService struct {
	repo   repository.SessionRepository
	config utils.SessionConfig
	log    *zap.Logger
	now    func() time.Time
}

func NewSessionService(
	repo repository.SessionRepository,
	config utils.SessionConfig,
	log *zap.Logger,
) SessionService {
	return &sessionService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "session")),
		now:    utcNow,
	}
}

func (s *sessionService) Load(ctx context.Context, token string) (*entity.Session, error) {
	if token != "" {
		session, err := s.repo.FindValid(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("find session: %w", err)
		}
		if session != nil {
			return session, nil
		}
	}

	now := s.now()
	return &entity.Session{
		Token:      utils.GenerateToken(),
		CSRFToken:  utils.GenerateToken(),
		ExpiresAt:  now.Add(s.config.TTL),
		Timestamps: entity.NewTimestamps(now),
		Modified:   true,
	}, nil
}

func (s *sessionService) Save(ctx context.Context, session *entity.Session) error {
	now := s.now()
	session.UpdatedAt = now
	session.ExpiresAt = now.Add(s.config.TTL)

	if err := s.repo.Upsert(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	session.Modified = false
	return nil
}

func (s *sessionService) Renew(ctx context.Context, session *entity.Session) error {
	if err := s.repo.Delete(ctx, session.Token); err != nil {
		return fmt.Errorf("drop old session: %w", err)
	}

	now := s.now()
	session.Token = utils.GenerateToken()
	session.CSRFToken = utils.GenerateToken()
	session.CreatedAt = now
	session.Modified = true

	s.log.Debug("Session renewed")
	return nil
}
