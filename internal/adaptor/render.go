package adaptor

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"movie-watchlist/internal/data/entity"
	"movie-watchlist/internal/dto/response"
	"movie-watchlist/internal/usecase"
	"movie-watchlist/pkg/utils"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	pageIndex        = "index"
	pageRegister     = "register"
	pageLogin        = "login"
	pageAddMovie     = "add_movie"
	pageMovieForm    = "movie_form"
	pageMovieDetails = "movie_details"
	pageError        = "error"
)

var pageNames = []string{
	pageIndex,
	pageRegister,
	pageLogin,
	pageAddMovie,
	pageMovieForm,
	pageMovieDetails,
	pageError,
}

var funcMap = template.FuncMap{
	"stars":       response.StarStates,
	"lastWatched": response.LastWatchedLabel,
	"inc":         func(i int) int { return i + 1 },
}

// Renderer writes pages and persists the request's session before the
// response goes out.
type Renderer struct {
	pages    map[string]*template.Template
	sessions usecase.SessionService
	cookie   utils.SessionConfig
	log      *zap.Logger
}

func NewRenderer(sessions usecase.SessionService, cookie utils.SessionConfig, log *zap.Logger) (*Renderer, error) {
	base, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parse base template: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base template: %w", err)
		}
		page, err := clone.ParseFS(templatesFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = page
	}

	return &Renderer{
		pages:    pages,
		sessions: sessions,
		cookie:   cookie,
		log:      log.With(zap.String("component", "renderer")),
	}, nil
}

// Page builds the shared page data. Pending flashes are consumed.
func (rd *Renderer) Page(r *http.Request, title string) response.Page {
	page := response.Page{
		Title:       title,
		Theme:       entity.ThemeLight,
		CurrentPath: r.URL.RequestURI(),
	}

	session, ok := utils.SessionFromContext(r.Context())
	if !ok {
		return page
	}

	page.Theme = session.CurrentTheme()
	page.CSRFToken = session.CSRFToken
	page.Flashes = session.PopFlashes()
	if session.IsAuthenticated() {
		page.Authenticated = true
		page.Email = *session.Email
	}
	return page
}

// HTML renders page name with data and writes it with status.
func (rd *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tmpl, ok := rd.pages[name]
	if !ok {
		rd.log.Error("Unknown page", zap.String("page", name))
		rd.plainError(w, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		rd.log.Error("Failed to render page", zap.Error(err), zap.String("page", name))
		rd.plainError(w, http.StatusInternalServerError)
		return
	}

	if err := rd.Commit(w, r); err != nil {
		rd.log.Error("Failed to save session", zap.Error(err))
		rd.plainError(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Redirect saves the session and sends the client to target.
func (rd *Renderer) Redirect(w http.ResponseWriter, r *http.Request, target string) {
	if err := rd.Commit(w, r); err != nil {
		rd.log.Error("Failed to save session", zap.Error(err))
		rd.StatusPage(w, r, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Commit writes a modified session back and refreshes its cookie.
func (rd *Renderer) Commit(w http.ResponseWriter, r *http.Request) error {
	session, ok := utils.SessionFromContext(r.Context())
	if !ok || !session.Modified {
		return nil
	}

	if err := rd.sessions.Save(r.Context(), session); err != nil {
		return err
	}

	utils.SetSessionCookie(w, rd.cookie, session.Token, session.ExpiresAt)
	return nil
}

// StatusPage renders the error page for status. Flashes are left queued.
func (rd *Renderer) StatusPage(w http.ResponseWriter, r *http.Request, status int) {
	page := response.Page{Title: http.StatusText(status), Theme: entity.ThemeLight}
	if session, ok := utils.SessionFromContext(r.Context()); ok {
		page.Theme = session.CurrentTheme()
		page.Authenticated = session.IsAuthenticated()
		if page.Authenticated {
			page.Email = *session.Email
		}
	}

	data := response.ErrorPage{
		Page:    page,
		Status:  status,
		Message: statusMessage(status),
	}

	var buf bytes.Buffer
	if err := rd.pages[pageError].ExecuteTemplate(&buf, "base", data); err != nil {
		rd.log.Error("Failed to render error page", zap.Error(err))
		rd.plainError(w, status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (rd *Renderer) plainError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func statusMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return "The page you were looking for does not exist."
	case http.StatusBadRequest:
		return "The request could not be understood."
	case http.StatusForbidden:
		return "This form has expired. Please go back, reload the page and try again."
	case http.StatusTooManyRequests:
		return "Too many attempts. Please wait a moment and try again."
	default:
		return "Something went wrong on our side. Please try again later."
	}
}
