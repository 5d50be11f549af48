package middleware

import (
	"net/http"

	"movie-watchlist/pkg/utils"

	"go.uber.org/zap"
)

const LoginPath = "/login"

// RequireLogin redirects anonymous visitors to the login page without
// running next.
func RequireLogin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := utils.SessionFromContext(r.Context())
			if !ok || !session.IsAuthenticated() {
				logger.Debug("Anonymous access to protected page", zap.String("path", r.URL.Path))
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
