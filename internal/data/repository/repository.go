package repository

import (
	"context"
	"fmt"

	"movie-watchlist/pkg/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collection names shared by every driver.
const (
	CollectionUser    = "user"
	CollectionMovie   = "movie"
	CollectionSession = "session"
)

type Repository struct {
	User    UserRepository
	Movie   MovieRepository
	Session SessionRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Movie:   NewMovieRepository(db, log),
		Session: NewSessionRepository(db, log),
	}
}

// NewMongoRepository also creates the indexes the mongo driver relies on.
func NewMongoRepository(ctx context.Context, db *mongo.Database, log *zap.Logger) (*Repository, error) {
	if err := ensureMongoIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure mongo indexes: %w", err)
	}

	return &Repository{
		User:    NewMongoUserRepository(db, log),
		Movie:   NewMongoMovieRepository(db, log),
		Session: NewMongoSessionRepository(db, log),
	}, nil
}

func NewMemoryRepository() *Repository {
	store := newMemoryStore()
	return &Repository{
		User:    &memoryUserRepository{store: store},
		Movie:   &memoryMovieRepository{store: store},
		Session: &memorySessionRepository{store: store},
	}
}
