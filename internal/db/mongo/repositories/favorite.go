// Package repositories contains MongoDB repository implementations.
package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/utils"
)

// Collection name
const (
	favoriteCollection = "favorites"
)

// FavoriteRepository defines the interface for favorite data access operations.
type FavoriteRepository interface {
	// Add records a favorited song for a user.
	Add(ctx context.Context, favorite *models.Favorite) error

	// Remove deletes a user's favorite by provider and song id.
	Remove(ctx context.Context, userID bson.ObjectID, provider, songID string) error

	// FindUserFavorites lists a user's favorites, newest first.
	FindUserFavorites(ctx context.Context, userID bson.ObjectID, skip, limit int) ([]*models.Favorite, error)

	// IsFavorite reports whether a user has favorited a song.
	IsFavorite(ctx context.Context, userID bson.ObjectID, provider, songID string) (bool, error)

	// CountUserFavorites counts a user's favorites.
	CountUserFavorites(ctx context.Context, userID bson.ObjectID) (int64, error)
}

// favoriteRepository is the MongoDB implementation of FavoriteRepository.
type favoriteRepository struct {
	collection *mongo.Collection
	logger     *utils.Logger
}

// NewFavoriteRepository creates a new instance of FavoriteRepository.
func NewFavoriteRepository(db *mongo.Database, logger *utils.Logger) FavoriteRepository {
	return &favoriteRepository{
		collection: db.Collection(favoriteCollection),
		logger:     logger.Named("favorite_repository"),
	}
}

// Add records a favorited song for a user.
func (r *favoriteRepository) Add(ctx context.Context, favorite *models.Favorite) error {
	if favorite.ID.IsZero() {
		favorite.ID = bson.NewObjectID()
	}
	favorite.TimeCreate(time.Now())

	_, err := r.collection.InsertOne(ctx, favorite)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrAlreadyFavorited
		}
		r.logger.Error("Failed to add favorite", err,
			"userId", favorite.UserID.Hex(), "provider", favorite.Provider, "songId", favorite.SongID)
		return models.NewInternalError(err, "Failed to add favorite")
	}

	return nil
}

// Remove deletes a user's favorite by provider and song id.
func (r *favoriteRepository) Remove(ctx context.Context, userID bson.ObjectID, provider, songID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"userId":   userID,
		"provider": provider,
		"songId":   songID,
	})
	if err != nil {
		r.logger.Error("Failed to remove favorite", err,
			"userId", userID.Hex(), "provider", provider, "songId", songID)
		return models.NewInternalError(err, "Failed to remove favorite")
	}

	if result.DeletedCount == 0 {
		return models.ErrFavoriteNotFound
	}

	return nil
}

// FindUserFavorites lists a user's favorites, newest first.
func (r *favoriteRepository) FindUserFavorites(ctx context.Context, userID bson.ObjectID, skip, limit int) ([]*models.Favorite, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		r.logger.Error("Failed to find favorites", err, "userId", userID.Hex())
		return nil, models.NewInternalError(err, "Failed to find favorites")
	}
	defer cursor.Close(ctx)

	var favorites []*models.Favorite
	if err = cursor.All(ctx, &favorites); err != nil {
		r.logger.Error("Failed to decode favorites", err)
		return nil, models.NewInternalError(err, "Failed to decode favorites")
	}

	return favorites, nil
}

// IsFavorite reports whether a user has favorited a song.
func (r *favoriteRepository) IsFavorite(ctx context.Context, userID bson.ObjectID, provider, songID string) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{
		"userId":   userID,
		"provider": provider,
		"songId":   songID,
	}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		r.logger.Error("Failed to check favorite", err, "userId", userID.Hex())
		return false, models.NewInternalError(err, "Failed to check favorite")
	}

	return true, nil
}

// CountUserFavorites counts a user's favorites.
func (r *favoriteRepository) CountUserFavorites(ctx context.Context, userID bson.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		r.logger.Error("Failed to count favorites", err, "userId", userID.Hex())
		return 0, models.NewInternalError(err, "Failed to count favorites")
	}

	return count, nil
}
