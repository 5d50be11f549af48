package wire

import (
	"movie-watchlist/internal/adaptor"
	"movie-watchlist/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMovie(
	r chi.Router,
	movieHandler *adaptor.MovieHandler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/movie/{id}", movieHandler.Detail)

	// ==================== LOGIN REQUIRED ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin(log))

		r.Get("/", movieHandler.Index)
		r.Get("/add", movieHandler.Add)
		r.Post("/add", movieHandler.Add)
		r.Get("/edit/{id}", movieHandler.Edit)
		r.Post("/edit/{id}", movieHandler.Edit)
		r.Get("/movie/{id}/rate", movieHandler.Rate)
		r.Get("/movie/{id}/watch", movieHandler.Watch)
	})
}
