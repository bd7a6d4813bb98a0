// Package mongo provides MongoDB database connectivity and repositories.
package mongo

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tuneport/backend/internal/utils"
)

// Collection name constants for use throughout the application
const (
	UsersCollection     = "users"
	PlaylistsCollection = "playlists"
	FavoritesCollection = "favorites"
)

// IndexCreator defines a function type for index creation
type IndexCreator func(context.Context, *Client) error

// Index creators for different collections
var (
	indexCreators = map[string]IndexCreator{
		UsersCollection:     ensureUserIndexes,
		PlaylistsCollection: ensurePlaylistIndexes,
		FavoritesCollection: ensureFavoriteIndexes,
	}
)

// EnsureIndexes creates all necessary indexes for the application
func EnsureIndexes(ctx context.Context, client *Client) error {
	logger := client.Logger().With("operation", "EnsureIndexes")
	logger.Info("Starting index creation for all collections")

	// For sequential execution
	for collection, creator := range indexCreators {
		logger.Info("Creating indexes", "collection", collection)
		if err := creator(ctx, client); err != nil {
			logger.Error("Failed to create indexes", err, "collection", collection)
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}

	logger.Info("Successfully created all indexes")
	return nil
}

// EnsureIndexesParallel creates all necessary indexes for the application in parallel
func EnsureIndexesParallel(ctx context.Context, client *Client) error {
	logger := client.Logger().With("operation", "EnsureIndexesParallel")
	logger.Info("Starting parallel index creation for all collections")

	var wg sync.WaitGroup
	errChan := make(chan error, len(indexCreators))

	// Launch index creation in parallel
	for collection, creator := range indexCreators {
		wg.Add(1)
		go func(collName string, indexCreator IndexCreator) {
			defer wg.Done()
			logger.Info("Creating indexes", "collection", collName)
			if err := indexCreator(ctx, client); err != nil {
				logger.Error("Failed to create indexes", err, "collection", collName)
				errChan <- fmt.Errorf("failed to create indexes for %s: %w", collName, err)
			}
		}(collection, creator)
	}

	// Wait for all goroutines to finish
	wg.Wait()
	close(errChan)

	// Check for errors
	if len(errChan) > 0 {
		err := <-errChan
		return err
	}

	logger.Info("Successfully created all indexes in parallel")
	return nil
}

// createIndexes is a helper function to create multiple indexes for a collection
func createIndexes(ctx context.Context, collection *mongo.Collection, indexes []mongo.IndexModel, logger *utils.Logger, collectionName string) error {
	if len(indexes) == 0 {
		return nil
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Error("Failed to create indexes", err, "collection", collectionName)
		return err
	}

	logger.Info("Successfully created indexes", "collection", collectionName, "count", len(indexes))
	return nil
}

// ensureUserIndexes creates indexes for the users collection
func ensureUserIndexes(ctx context.Context, client *Client) error {
	collection := client.Collection(UsersCollection)
	logger := client.Logger().With("operation", "ensureUserIndexes")

	indexes := []mongo.IndexModel{
		// Email index (unique)
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Username index (unique, case-insensitive)
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(&options.Collation{
				Locale:    "en",
				Strength:  2, // Case-insensitive
				CaseLevel: false,
			}),
		},
		// LastLogin index (for filtering and sorting inactive users)
		{
			Keys:    bson.D{{Key: "lastLogin", Value: -1}},
			Options: options.Index(),
		},
		// CreatedAt index (for sorting and filtering)
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
		// Roles index (for permission checks)
		{
			Keys:    bson.D{{Key: "roles", Value: 1}},
			Options: options.Index(),
		},
	}

	return createIndexes(ctx, collection, indexes, logger, UsersCollection)
}

// ensurePlaylistIndexes creates indexes for the playlists collection
func ensurePlaylistIndexes(ctx context.Context, client *Client) error {
	collection := client.Collection(PlaylistsCollection)
	logger := client.Logger().With("operation", "ensurePlaylistIndexes")

	indexes := []mongo.IndexModel{
		// Owner index
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index(),
		},
		// Owner + Name index (one name per owner)
		{
			Keys: bson.D{
				{Key: "owner", Value: 1},
				{Key: "name", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		// Text index for searching
		{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "description", Value: "text"},
			},
			Options: options.Index().SetWeights(bson.D{
				{Key: "name", Value: 10},
				{Key: "description", Value: 5},
			}),
		},
		// UpdatedAt index
		{
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}

	return createIndexes(ctx, collection, indexes, logger, PlaylistsCollection)
}

// ensureFavoriteIndexes creates indexes for the favorites collection
func ensureFavoriteIndexes(ctx context.Context, client *Client) error {
	collection := client.Collection(FavoritesCollection)
	logger := client.Logger().With("operation", "ensureFavoriteIndexes")

	indexes := []mongo.IndexModel{
		// One favorite per user and provider-scoped song
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "provider", Value: 1},
				{Key: "songId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		// User + CreatedAt index (favorites listing is newest-first)
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index(),
		},
	}

	return createIndexes(ctx, collection, indexes, logger, FavoritesCollection)
}
