package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-watchlist/internal/data/entity"
	"movie-watchlist/internal/data/repository"
	"movie-watchlist/internal/dto/request"
	"movie-watchlist/pkg/utils"

	"go.uber.org/zap"
)

type MovieService interface {
	// Watchlist returns the user's movies in the order they were added.
	Watchlist(ctx context.Context, userID string) ([]*entity.Movie, error)
	AddMovie(ctx context.Context, userID string, form request.MovieForm) (*entity.Movie, error)
	GetMovie(ctx context.Context, movieID string) (*entity.Movie, error)
	UpdateMovie(ctx context.Context, movieID string, form request.ExtendedMovieForm) error
	RateMovie(ctx context.Context, movieID string, rating int) error
	WatchToday(ctx context.Context, movieID string) (time.Time, error)
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewMovieService(
	repo *repository.Repository,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
		now:  utcNow,
	}
}

func (s *movieService) Watchlist(ctx context.Context, userID string) ([]*entity.Movie, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	found, err := s.repo.Movie.FindByIDs(ctx, user.Movies)
	if err != nil {
		return nil, fmt.Errorf("find movies: %w", err)
	}

	byID := make(map[string]*entity.Movie, len(found))
	for _, movie := range found {
		byID[movie.ID] = movie
	}

	movies := make([]*entity.Movie, 0, len(user.Movies))
	for _, id := range user.Movies {
		movie, ok := byID[id]
		if !ok {
			s.log.Warn("Watchlist references missing movie",
				zap.String("user_id", userID),
				zap.String("movie_id", id),
			)
			continue
		}
		movies = append(movies, movie)
	}

	return movies, nil
}

// AddMovie stores the movie before linking it to the user so a list never
// references a missing record.
func (s *movieService) AddMovie(ctx context.Context, userID string, form request.MovieForm) (*entity.Movie, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	movie := entity.NewMovie(utils.GenerateID(), form.Title, form.Director, form.YearValue(), s.now())
	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	if err := s.repo.User.AppendMovie(ctx, userID, movie.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("append movie: %w", err)
	}

	s.log.Info("Movie added",
		zap.String("user_id", userID),
		zap.String("movie_id", movie.ID),
		zap.String("title", movie.Title),
	)

	return movie, nil
}

func (s *movieService) GetMovie(ctx context.Context, movieID string) (*entity.Movie, error) {
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	return movie, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID string, form request.ExtendedMovieForm) error {
	if err := s.update(ctx, movieID, form.Update()); err != nil {
		return err
	}

	s.log.Info("Movie updated", zap.String("movie_id", movieID))
	return nil
}

func (s *movieService) RateMovie(ctx context.Context, movieID string, rating int) error {
	if rating < 0 || rating > entity.MaxRating {
		return ErrInvalidRating
	}

	return s.update(ctx, movieID, entity.MovieUpdate{Rating: &rating})
}

func (s *movieService) WatchToday(ctx context.Context, movieID string) (time.Time, error) {
	now := s.now()
	if err := s.update(ctx, movieID, entity.MovieUpdate{LastWatched: &now}); err != nil {
		return time.Time{}, err
	}
	return now, nil
}

func (s *movieService) update(ctx context.Context, movieID string, update entity.MovieUpdate) error {
	err := s.repo.Movie.UpdateFields(ctx, movieID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMovieNotFound
	}
	if err != nil {
		return fmt.Errorf("update movie: %w", err)
	}
	return nil
}
