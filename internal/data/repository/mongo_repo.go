package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-watchlist/internal/data/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func ensureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionUser).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("user email index: %w", err)
	}

	// expired sessions are removed by the server
	_, err = db.Collection(CollectionSession).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("session expiry index: %w", err)
	}

	return nil
}

// ==================== USER ====================

type mongoUserRepository struct {
	collection *mongo.Collection
	log        *zap.Logger
}

func NewMongoUserRepository(db *mongo.Database, log *zap.Logger) UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(CollectionUser),
		log:        log.With(zap.String("repository", "user")),
	}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.Movies == nil {
		user.Movies = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user %s: %w", user.Email, ErrConflict)
		}
		r.log.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user", zap.Error(err), zap.Any("filter", filter))
		return nil, fmt.Errorf("find user: %w", err)
	}

	user.Movies = nonNil(user.Movies)
	return &user, nil
}

func (r *mongoUserRepository) AppendMovie(ctx context.Context, userID, movieID string) error {
	update := bson.M{
		"$push": bson.M{"movies": movieID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateByID(ctx, userID, update)
	if err != nil {
		r.log.Error("Failed to append movie to user",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("movie_id", movieID),
		)
		return fmt.Errorf("append movie %s to user %s: %w", movieID, userID, err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("append movie to user %s: %w", userID, ErrNotFound)
	}

	return nil
}

// ==================== MOVIE ====================

type mongoMovieRepository struct {
	collection *mongo.Collection
	log        *zap.Logger
}

func NewMongoMovieRepository(db *mongo.Database, log *zap.Logger) MovieRepository {
	return &mongoMovieRepository{
		collection: db.Collection(CollectionMovie),
		log:        log.With(zap.String("repository", "movie")),
	}
}

func (r *mongoMovieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	if _, err := r.collection.InsertOne(ctx, movie); err != nil {
		r.log.Error("Failed to create movie", zap.Error(err), zap.String("title", movie.Title))
		return fmt.Errorf("failed to create movie: %w", err)
	}

	return nil
}

func (r *mongoMovieRepository) FindByID(ctx context.Context, id string) (*entity.Movie, error) {
	var movie entity.Movie
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&movie)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID", zap.Error(err), zap.String("movie_id", id))
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}

	normalizeMovie(&movie)
	return &movie, nil
}

func (r *mongoMovieRepository) FindByIDs(ctx context.Context, ids []string) ([]*entity.Movie, error) {
	if len(ids) == 0 {
		return []*entity.Movie{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.log.Error("Failed to find movies by IDs", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("failed to find movies: %w", err)
	}
	defer cursor.Close(ctx)

	var found []entity.Movie
	if err := cursor.All(ctx, &found); err != nil {
		r.log.Error("Failed to decode movies", zap.Error(err))
		return nil, fmt.Errorf("decode movies: %w", err)
	}

	movies := make([]*entity.Movie, len(found))
	for i := range found {
		normalizeMovie(&found[i])
		movies[i] = &found[i]
	}

	return movies, nil
}

func (r *mongoMovieRepository) UpdateFields(ctx context.Context, id string, update entity.MovieUpdate) error {
	fields := bson.M{"updated_at": time.Now().UTC()}
	for name, value := range update.Fields() {
		fields[name] = value
	}

	result, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		r.log.Error("Failed to update movie", zap.Error(err), zap.String("movie_id", id))
		return fmt.Errorf("failed to update movie: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("update movie %s: %w", id, ErrNotFound)
	}

	return nil
}

func normalizeMovie(movie *entity.Movie) {
	movie.Cast = nonNil(movie.Cast)
	movie.Series = nonNil(movie.Series)
	movie.Tags = nonNil(movie.Tags)
}

// ==================== SESSION ====================

type mongoSessionRepository struct {
	collection *mongo.Collection
	log        *zap.Logger
}

func NewMongoSessionRepository(db *mongo.Database, log *zap.Logger) SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(CollectionSession),
		log:        log.With(zap.String("repository", "session")),
	}
}

func (r *mongoSessionRepository) Upsert(ctx context.Context, session *entity.Session) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.Token}, session, opts); err != nil {
		r.log.Error("Failed to upsert session", zap.Error(err))
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *mongoSessionRepository) FindValid(ctx context.Context, token string) (*entity.Session, error) {
	filter := bson.M{
		"_id":        token,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}

	var session entity.Session
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid session", zap.Error(err))
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &session, nil
}

func (r *mongoSessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": token}); err != nil {
		r.log.Error("Failed to delete session", zap.Error(err))
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
