package adaptor

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"movie-watchlist/internal/dto/request"
	"movie-watchlist/internal/dto/response"
	"movie-watchlist/internal/usecase"
	"movie-watchlist/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MovieHandler struct {
	service usecase.MovieService
	render  *Renderer
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, render *Renderer, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		render:  render,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// Index handles GET /.
func (h *MovieHandler) Index(w http.ResponseWriter, r *http.Request) {
	session, _ := utils.SessionFromContext(r.Context())

	movies, err := h.service.Watchlist(r.Context(), *session.UserID)
	if err != nil {
		h.handleServiceError(w, r, err, "load watchlist")
		return
	}

	h.render.HTML(w, r, http.StatusOK, pageIndex, response.IndexPage{
		Page:   h.render.Page(r, "Watchlist"),
		Movies: movies,
	})
}

// Add handles GET and POST /add.
func (h *MovieHandler) Add(w http.ResponseWriter, r *http.Request) {
	var form request.MovieForm
	if r.Method != http.MethodPost {
		h.renderAdd(w, r, http.StatusOK, form, nil)
		return
	}

	if err := request.DecodeForm(r, &form); err != nil {
		h.log.Warn("Invalid movie form", zap.Error(err))
		h.render.StatusPage(w, r, http.StatusBadRequest)
		return
	}

	if errs := utils.ValidateForm(form); !errs.Valid() {
		h.renderAdd(w, r, http.StatusUnprocessableEntity, form, errs)
		return
	}

	// Call service
	session, _ := utils.SessionFromContext(r.Context())
	if _, err := h.service.AddMovie(r.Context(), *session.UserID, form); err != nil {
		h.handleServiceError(w, r, err, "add movie")
		return
	}

	h.render.Redirect(w, r, "/")
}

// Edit handles GET and POST /edit/{id}.
func (h *MovieHandler) Edit(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	movie, err := h.service.GetMovie(r.Context(), movieID)
	if err != nil {
		h.handleServiceError(w, r, err, "get movie")
		return
	}

	// Pre-fill from stored movie
	if r.Method != http.MethodPost {
		h.renderEdit(w, r, http.StatusOK, movieID, movie.Title, request.ExtendedMovieFormFrom(movie), nil)
		return
	}

	var form request.ExtendedMovieForm
	if err := request.DecodeForm(r, &form); err != nil {
		h.log.Warn("Invalid movie form", zap.Error(err), zap.String("movie_id", movieID))
		h.render.StatusPage(w, r, http.StatusBadRequest)
		return
	}

	// Re-render with the field messages
	if errs := utils.ValidateForm(form); !errs.Valid() {
		h.renderEdit(w, r, http.StatusUnprocessableEntity, movieID, movie.Title, form, errs)
		return
	}

	if err := h.service.UpdateMovie(r.Context(), movieID, form); err != nil {
		h.handleServiceError(w, r, err, "update movie")
		return
	}

	h.render.Redirect(w, r, moviePath(movieID))
}

// Detail handles GET /movie/{id}. No login is needed.
func (h *MovieHandler) Detail(w http.ResponseWriter, r *http.Request) {
	movie, err := h.service.GetMovie(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err, "get movie")
		return
	}

	h.render.HTML(w, r, http.StatusOK, pageMovieDetails, response.MovieDetailPage{
		Page:         h.render.Page(r, movie.Title),
		Movie:        movie,
		WatchedToday: response.IsWatchedOn(movie, time.Now()),
	})
}

// Rate handles GET /movie/{id}/rate?rating=<0-5>.
func (h *MovieHandler) Rate(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	// Parse query parameters
	raw := r.URL.Query().Get("rating")
	rating, err := strconv.Atoi(raw)
	if err != nil {
		h.log.Warn("Invalid rating", zap.String("rating", raw), zap.String("movie_id", movieID))
		h.render.StatusPage(w, r, http.StatusBadRequest)
		return
	}

	if err := h.service.RateMovie(r.Context(), movieID, rating); err != nil {
		h.handleServiceError(w, r, err, "rate movie")
		return
	}

	h.render.Redirect(w, r, moviePath(movieID))
}

// Watch handles GET /movie/{id}/watch.
func (h *MovieHandler) Watch(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	if _, err := h.service.WatchToday(r.Context(), movieID); err != nil {
		h.handleServiceError(w, r, err, "watch movie")
		return
	}

	h.render.Redirect(w, r, moviePath(movieID))
}

func (h *MovieHandler) renderAdd(w http.ResponseWriter, r *http.Request, status int, form request.MovieForm, errs utils.FormErrors) {
	h.render.HTML(w, r, status, pageAddMovie, response.FormPage{
		Page:   h.render.Page(r, "Add Movie"),
		Form:   form,
		Errors: errs,
		Action: "/add",
	})
}

func (h *MovieHandler) renderEdit(w http.ResponseWriter, r *http.Request, status int, movieID, title string, form request.ExtendedMovieForm, errs utils.FormErrors) {
	h.render.HTML(w, r, status, pageMovieForm, response.FormPage{
		Page:   h.render.Page(r, "Edit "+title),
		Form:   form,
		Errors: errs,
		Action: "/edit/" + movieID,
	})
}

func (h *MovieHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrMovieNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err), zap.String("path", r.URL.Path))
		h.render.StatusPage(w, r, http.StatusNotFound)

	case errors.Is(err, usecase.ErrInvalidRating):
		h.log.Warn(operation+" failed - invalid rating", zap.Error(err))
		h.render.StatusPage(w, r, http.StatusBadRequest)

	case errors.Is(err, usecase.ErrUserNotFound):
		// stale identity: the account behind the session is gone
		h.log.Warn(operation+" failed - user not found", zap.Error(err))
		if session, ok := utils.SessionFromContext(r.Context()); ok {
			session.ClearIdentity()
		}
		h.render.Redirect(w, r, "/login")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		h.render.StatusPage(w, r, http.StatusInternalServerError)
	}
}

func moviePath(movieID string) string {
	return "/movie/" + movieID
}
