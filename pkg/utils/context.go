package utils

import (
	"context"

	"movie-watchlist/internal/data/entity"
)

type contextKey string

const SessionKey contextKey = "session"

func SetSessionContext(ctx context.Context, session *entity.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// SessionFromContext returns the session loaded by the session middleware.
func SessionFromContext(ctx context.Context) (*entity.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*entity.Session)
	return session, ok && session != nil
}
