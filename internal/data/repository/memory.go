package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"movie-watchlist/internal/data/entity"
)

// memoryStore keeps every collection in process. Records are copied on the
// way in and out so callers never share state with the store.
type memoryStore struct {
	mu       sync.RWMutex
	users    map[string]entity.User
	emails   map[string]string
	movies   map[string]entity.Movie
	sessions map[string]entity.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[string]entity.User),
		emails:   make(map[string]string),
		movies:   make(map[string]entity.Movie),
		sessions: make(map[string]entity.Session),
	}
}

func copyStrings(values []string) []string {
	return append([]string{}, values...)
}

func copyUser(u entity.User) entity.User {
	u.Movies = copyStrings(u.Movies)
	return u
}

func copyMovie(m entity.Movie) entity.Movie {
	m.Cast = copyStrings(m.Cast)
	m.Series = copyStrings(m.Series)
	m.Tags = copyStrings(m.Tags)
	if m.LastWatched != nil {
		t := *m.LastWatched
		m.LastWatched = &t
	}
	return m
}

func copySession(s entity.Session) entity.Session {
	if s.UserID != nil {
		id := *s.UserID
		s.UserID = &id
	}
	if s.Email != nil {
		email := *s.Email
		s.Email = &email
	}
	s.Flashes = append([]entity.Flash{}, s.Flashes...)
	s.Modified = false
	return s
}

// ==================== USER ====================

type memoryUserRepository struct {
	store *memoryStore
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, taken := r.store.emails[user.Email]; taken {
		return fmt.Errorf("create user %s: %w", user.Email, ErrConflict)
	}
	if _, exists := r.store.users[user.ID]; exists {
		return fmt.Errorf("create user %s: %w", user.ID, ErrConflict)
	}

	if user.Movies == nil {
		user.Movies = []string{}
	}
	r.store.users[user.ID] = copyUser(*user)
	r.store.emails[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	found := copyUser(user)
	return &found, nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.RLock()
	id, ok := r.store.emails[email]
	r.store.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

func (r *memoryUserRepository) AppendMovie(_ context.Context, userID, movieID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok {
		return fmt.Errorf("append movie to user %s: %w", userID, ErrNotFound)
	}

	user.Movies = append(copyStrings(user.Movies), movieID)
	user.UpdatedAt = time.Now().UTC()
	r.store.users[userID] = user
	return nil
}

// ==================== MOVIE ====================

type memoryMovieRepository struct {
	store *memoryStore
}

func (r *memoryMovieRepository) Create(_ context.Context, movie *entity.Movie) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.movies[movie.ID]; exists {
		return fmt.Errorf("create movie %s: %w", movie.ID, ErrConflict)
	}
	r.store.movies[movie.ID] = copyMovie(*movie)
	return nil
}

func (r *memoryMovieRepository) FindByID(_ context.Context, id string) (*entity.Movie, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	movie, ok := r.store.movies[id]
	if !ok {
		return nil, nil
	}
	found := copyMovie(movie)
	return &found, nil
}

func (r *memoryMovieRepository) FindByIDs(_ context.Context, ids []string) ([]*entity.Movie, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	seen := make(map[string]bool, len(ids))
	movies := make([]*entity.Movie, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		movie, ok := r.store.movies[id]
		if !ok {
			continue
		}
		found := copyMovie(movie)
		movies = append(movies, &found)
	}
	return movies, nil
}

func (r *memoryMovieRepository) UpdateFields(_ context.Context, id string, update entity.MovieUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	movie, ok := r.store.movies[id]
	if !ok {
		return fmt.Errorf("update movie %s: %w", id, ErrNotFound)
	}

	movie = copyMovie(movie)
	update.Apply(&movie)
	movie.UpdatedAt = time.Now().UTC()
	r.store.movies[id] = movie
	return nil
}

// ==================== SESSION ====================

type memorySessionRepository struct {
	store *memoryStore
}

func (r *memorySessionRepository) Upsert(_ context.Context, session *entity.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.sessions[session.Token] = copySession(*session)
	return nil
}

func (r *memorySessionRepository) FindValid(_ context.Context, token string) (*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	session, ok := r.store.sessions[token]
	if !ok {
		return nil, nil
	}
	if !session.ExpiresAt.After(time.Now()) {
		delete(r.store.sessions, token)
		return nil, nil
	}

	found := copySession(session)
	return &found, nil
}

func (r *memorySessionRepository) Delete(_ context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.sessions, token)
	return nil
}
