package wire

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"movie-watchlist/internal/adaptor"
	"movie-watchlist/internal/data/repository"
	"movie-watchlist/internal/usecase"
	"movie-watchlist/pkg/middleware"
	"movie-watchlist/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// PingFunc reports whether the backing store is reachable.
type PingFunc func(ctx context.Context) error

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and the router on top of repo.
func Wiring(repo *repository.Repository, ping PingFunc, config *utils.Config, logger *zap.Logger) (*App, error) {
	service, err := usecase.NewService(repo, config, logger)
	if err != nil {
		return nil, err
	}

	render, err := adaptor.NewRenderer(service.Session, config.Session, logger)
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}
	handler := adaptor.NewHandler(service, render, logger)

	router := setupRouter(handler, service, ping, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	ping PingFunc,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()
	statusPage := handler.Render.StatusPage

	r.Use(chimw.RequestID)
	// forwarded headers are client-controlled unless a proxy rewrites them
	if config.App.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(statusPage, logger))

	r.Get("/health", healthHandler(ping))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(service.Session, config.Session.CookieName, statusPage, logger))
		r.Use(middleware.CSRF(statusPage, logger))

		limiter := middleware.NewRateLimiter(config.RateLimit)

		wireAuth(r, handler.Auth, limiter, statusPage, logger)
		wireMovie(r, handler.Movie, logger)
		wireTheme(r, handler.Theme)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			statusPage(w, r, http.StatusNotFound)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			statusPage(w, r, http.StatusMethodNotAllowed)
		})
	})

	return r
}

func healthHandler(ping PingFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				utils.ResponseUnavailable(w, "database unreachable")
				return
			}
		}
		utils.ResponseSuccess(w, "OK", nil)
	}
}
