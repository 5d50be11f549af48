package wire

import (
	"movie-watchlist/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTheme(r chi.Router, themeHandler *adaptor.ThemeHandler) {
	r.Get("/toggle-theme", themeHandler.Toggle)
}
