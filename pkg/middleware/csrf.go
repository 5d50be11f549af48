package middleware

import (
	"crypto/subtle"
	"net/http"

	"movie-watchlist/pkg/utils"

	"go.uber.org/zap"
)

const (
	CSRFField = "csrf_token"

	maxFormBytes = 1 << 20
)

// CSRF rejects state-changing requests whose csrf_token form value does not
// match the session token. It must run after Session.
func CSRF(onError StatusPage, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			session, ok := utils.SessionFromContext(r.Context())
			if !ok || session.CSRFToken == "" {
				onError(w, r, http.StatusForbidden)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
			if err := r.ParseForm(); err != nil {
				logger.Warn("Failed to parse form", zap.Error(err), zap.String("path", r.URL.Path))
				onError(w, r, http.StatusBadRequest)
				return
			}

			sent := r.PostForm.Get(CSRFField)
			if subtle.ConstantTimeCompare([]byte(sent), []byte(session.CSRFToken)) != 1 {
				logger.Warn("CSRF token mismatch",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				onError(w, r, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
