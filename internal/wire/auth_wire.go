package wire

import (
	"movie-watchlist/internal/adaptor"
	"movie-watchlist/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	limiter *middleware.RateLimiter,
	statusPage middleware.StatusPage,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter, statusPage, log))

		r.Get("/register", authHandler.Register)
		r.Post("/register", authHandler.Register)
		r.Get("/login", authHandler.Login)
		r.Post("/login", authHandler.Login)
	})

	r.Get("/logout", authHandler.Logout)
}
