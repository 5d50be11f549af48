package adaptor

import (
	"net/http"

	"movie-watchlist/pkg/utils"

	"go.uber.org/zap"
)

type ThemeHandler struct {
	render *Renderer
	log    *zap.Logger
}

func NewThemeHandler(render *Renderer, log *zap.Logger) *ThemeHandler {
	return &ThemeHandler{
		render: render,
		log:    log.With(zap.String("handler", "theme")),
	}
}

// Toggle handles GET /toggle-theme?current_page=<path>. Only paths on this
// site are followed; anything else lands on the index.
func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	session, ok := utils.SessionFromContext(r.Context())
	if !ok {
		h.render.StatusPage(w, r, http.StatusInternalServerError)
		return
	}

	theme := session.ToggleTheme()
	h.log.Debug("Theme toggled", zap.String("theme", string(theme)))

	requested := r.URL.Query().Get("current_page")
	target := utils.SafeRedirectTarget(requested, "/")
	if target != requested && requested != "" {
		h.log.Warn("Rejected redirect target", zap.String("current_page", requested))
	}

	h.render.Redirect(w, r, target)
}
