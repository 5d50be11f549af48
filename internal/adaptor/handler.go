package adaptor

import (
	"movie-watchlist/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth   *AuthHandler
	Movie  *MovieHandler
	Theme  *ThemeHandler
	Render *Renderer
}

func NewHandler(service *usecase.Service, render *Renderer, log *zap.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(service.Auth, service.Session, render, log),
		Movie:  NewMovieHandler(service.Movie, render, log),
		Theme:  NewThemeHandler(render, log),
		Render: render,
	}
}
