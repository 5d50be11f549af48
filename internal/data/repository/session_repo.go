package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-watchlist/internal/data/entity"
	"movie-watchlist/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SessionRepository interface {
	Upsert(ctx context.Context, session *entity.Session) error
	// FindValid returns the unexpired session for token, or nil.
	FindValid(ctx context.Context, token string) (*entity.Session, error)
	Delete(ctx context.Context, token string) error
}

type sessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSessionRepository(db database.PgxIface, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) Upsert(ctx context.Context, session *entity.Session) error {
	query := `
		INSERT INTO sessions (token, user_id, email, theme, csrf_token, flashes,
		                      expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    email = EXCLUDED.email,
		    theme = EXCLUDED.theme,
		    csrf_token = EXCLUDED.csrf_token,
		    flashes = EXCLUDED.flashes,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
	`

	flashes := session.Flashes
	if flashes == nil {
		flashes = []entity.Flash{}
	}

	_, err := r.db.Exec(ctx, query,
		session.Token,
		session.UserID,
		session.Email,
		string(session.Theme),
		session.CSRFToken,
		flashes,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to upsert session", zap.Error(err))
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *sessionRepository) FindValid(ctx context.Context, token string) (*entity.Session, error) {
	query := `
		SELECT token, user_id, email, theme, csrf_token, flashes,
		       expires_at, created_at, updated_at
		FROM sessions
		WHERE token = $1
		  AND expires_at > NOW()
	`

	var session entity.Session
	var theme string
	err := r.db.QueryRow(ctx, query, token).Scan(
		&session.Token,
		&session.UserID,
		&session.Email,
		&theme,
		&session.CSRFToken,
		&session.Flashes,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid session", zap.Error(err))
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	session.Theme = entity.Theme(theme)
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`

	if _, err := r.db.Exec(ctx, query, token); err != nil {
		r.log.Error("Failed to delete session", zap.Error(err))
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
