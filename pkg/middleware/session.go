package middleware

import (
	"context"
	"net/http"

	"movie-watchlist/internal/data/entity"
	"movie-watchlist/pkg/utils"

	"go.uber.org/zap"
)

// SessionLoader resolves a cookie token to a session. An unknown or expired
// token yields a fresh anonymous session.
type SessionLoader interface {
	Load(ctx context.Context, token string) (*entity.Session, error)
}

// StatusPage writes an error page for status.
type StatusPage func(w http.ResponseWriter, r *http.Request, status int)

// Session puts the caller's session into the request context.
func Session(loader SessionLoader, cookieName string, onError StatusPage, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(cookieName); err == nil {
				token = cookie.Value
			}

			session, err := loader.Load(r.Context(), token)
			if err != nil {
				logger.Error("Failed to load session", zap.Error(err), zap.String("path", r.URL.Path))
				onError(w, r, http.StatusInternalServerError)
				return
			}

			ctx := utils.SetSessionContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
