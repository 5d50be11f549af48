package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"movie-watchlist/internal/data/entity"
	"movie-watchlist/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MovieRepository interface {
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id string) (*entity.Movie, error)
	// FindByIDs returns the movies whose id is in ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*entity.Movie, error)
	UpdateFields(ctx context.Context, id string, update entity.MovieUpdate) error
}

// movieColumns maps MovieUpdate field names to table columns.
var movieColumns = map[string]string{
	"title":        "title",
	"director":     "director",
	"year":         "year",
	"cast":         "cast_members",
	"series":       "series",
	"tags":         "tags",
	"description":  "description",
	"video_link":   "video_link",
	"rating":       "rating",
	"last_watched": "last_watched",
}

const movieSelect = `
	SELECT id, title, director, year, cast_members, series, tags,
	       description, video_link, rating, last_watched, created_at, updated_at
	FROM movies
`

type movieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	query := `
		INSERT INTO movies (id, title, director, year, cast_members, series, tags,
		                    description, video_link, rating, last_watched,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Director,
		movie.Year,
		nonNil(movie.Cast),
		nonNil(movie.Series),
		nonNil(movie.Tags),
		movie.Description,
		movie.VideoLink,
		movie.Rating,
		movie.LastWatched,
		movie.CreatedAt,
		movie.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return fmt.Errorf("failed to create movie: %w", err)
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id string) (*entity.Movie, error) {
	query := movieSelect + `WHERE id = $1`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id),
		)
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}

	return movie, nil
}

func (r *movieRepository) FindByIDs(ctx context.Context, ids []string) ([]*entity.Movie, error) {
	if len(ids) == 0 {
		return []*entity.Movie{}, nil
	}

	query := movieSelect + `WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find movies by IDs",
			zap.Error(err),
			zap.Int("count", len(ids)),
		)
		return nil, fmt.Errorf("failed to find movies: %w", err)
	}
	defer rows.Close()

	movies := make([]*entity.Movie, 0, len(ids))
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate movie rows: %w", err)
	}

	return movies, nil
}

// UpdateFields writes only the fields set on update, plus updated_at.
func (r *movieRepository) UpdateFields(ctx context.Context, id string, update entity.MovieUpdate) error {
	fields := update.Fields()

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var queryBuilder strings.Builder
	queryBuilder.WriteString("UPDATE movies SET ")

	args := []any{id}
	for _, name := range names {
		args = append(args, fields[name])
		fmt.Fprintf(&queryBuilder, "%s = $%d, ", movieColumns[name], len(args))
	}
	args = append(args, time.Now().UTC())
	fmt.Fprintf(&queryBuilder, "updated_at = $%d WHERE id = $1", len(args))

	result, err := r.db.Exec(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", id),
			zap.Strings("fields", names),
		)
		return fmt.Errorf("failed to update movie: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update movie %s: %w", id, ErrNotFound)
	}

	return nil
}

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var movie entity.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Director,
		&movie.Year,
		&movie.Cast,
		&movie.Series,
		&movie.Tags,
		&movie.Description,
		&movie.VideoLink,
		&movie.Rating,
		&movie.LastWatched,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	movie.Cast = nonNil(movie.Cast)
	movie.Series = nonNil(movie.Series)
	movie.Tags = nonNil(movie.Tags)
	return &movie, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
