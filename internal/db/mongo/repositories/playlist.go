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
	playlistCollection = "playlists"
)

// PlaylistRepository defines the interface for playlist data access operations.
type PlaylistRepository interface {
	// Create creates a new playlist.
	Create(ctx context.Context, playlist *models.Playlist) error

	// FindByID finds a playlist by its ID.
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Playlist, error)

	// FindUserPlaylists finds all playlists owned by a user.
	FindUserPlaylists(ctx context.Context, userID bson.ObjectID) ([]*models.Playlist, error)

	// FindPublicPlaylists finds public playlists, newest first.
	FindPublicPlaylists(ctx context.Context, skip, limit int) ([]*models.Playlist, error)

	// Update updates an existing playlist.
	Update(ctx context.Context, playlist *models.Playlist) error

	// Delete deletes a playlist by its ID.
	Delete(ctx context.Context, id bson.ObjectID) error

	// AddItem inserts an item at the given position; a negative position
	// appends.
	AddItem(ctx context.Context, playlistID bson.ObjectID, item models.PlaylistItem, position int) error

	// RemoveItem removes an item from a playlist.
	RemoveItem(ctx context.Context, playlistID, itemID bson.ObjectID) error

	// MoveItem moves an item to a new position in the playlist.
	MoveItem(ctx context.Context, playlistID, itemID bson.ObjectID, newPosition int) error

	// CountUserPlaylists counts the playlists owned by a user.
	CountUserPlaylists(ctx context.Context, userID bson.ObjectID) (int64, error)
}

// playlistRepository is the MongoDB implementation of PlaylistRepository.
type playlistRepository struct {
	collection *mongo.Collection
	logger     *utils.Logger
}

// NewPlaylistRepository creates a new instance of PlaylistRepository.
func NewPlaylistRepository(db *mongo.Database, logger *utils.Logger) PlaylistRepository {
	return &playlistRepository{
		collection: db.Collection(playlistCollection),
		logger:     logger.Named("playlist_repository"),
	}
}

// Create creates a new playlist.
func (r *playlistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	if playlist.ID.IsZero() {
		playlist.ID = bson.NewObjectID()
	}
	if playlist.Items == nil {
		playlist.Items = []models.PlaylistItem{}
	}

	playlist.TimeCreate(time.Now())

	_, err := r.collection.InsertOne(ctx, playlist)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewPlaylistError(models.ErrInvalidInput, "A playlist with this name already exists", models.MapErrorToHTTPStatus(models.ErrInvalidInput))
		}
		r.logger.Error("Failed to create playlist", err, "owner", playlist.Owner.Hex())
		return models.NewInternalError(err, "Failed to create playlist")
	}

	return nil
}

// FindByID finds a playlist by its ID.
func (r *playlistRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Playlist, error) {
	var playlist models.Playlist

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&playlist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrPlaylistNotFound
		}
		r.logger.Error("Failed to find playlist by ID", err, "id", id.Hex())
		return nil, models.NewInternalError(err, "Failed to find playlist")
	}

	return &playlist, nil
}

// FindUserPlaylists finds all playlists owned by a user.
func (r *playlistRepository) FindUserPlaylists(ctx context.Context, userID bson.ObjectID) ([]*models.Playlist, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"owner": userID}, opts)
	if err != nil {
		r.logger.Error("Failed to find user playlists", err, "owner", userID.Hex())
		return nil, models.NewInternalError(err, "Failed to find playlists")
	}
	defer cursor.Close(ctx)

	var playlists []*models.Playlist
	if err = cursor.All(ctx, &playlists); err != nil {
		r.logger.Error("Failed to decode playlists", err)
		return nil, models.NewInternalError(err, "Failed to decode playlists")
	}

	return playlists, nil
}

// FindPublicPlaylists finds public playlists, newest first.
func (r *playlistRepository) FindPublicPlaylists(ctx context.Context, skip, limit int) ([]*models.Playlist, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"isPrivate": false}, opts)
	if err != nil {
		r.logger.Error("Failed to find public playlists", err)
		return nil, models.NewInternalError(err, "Failed to find playlists")
	}
	defer cursor.Close(ctx)

	var playlists []*models.Playlist
	if err = cursor.All(ctx, &playlists); err != nil {
		r.logger.Error("Failed to decode playlists", err)
		return nil, models.NewInternalError(err, "Failed to decode playlists")
	}

	return playlists, nil
}

// Update updates an existing playlist.
func (r *playlistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	playlist.UpdateNow()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": playlist.ID}, playlist)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewPlaylistError(models.ErrInvalidInput, "A playlist with this name already exists", models.MapErrorToHTTPStatus(models.ErrInvalidInput))
		}
		r.logger.Error("Failed to update playlist", err, "id", playlist.ID.Hex())
		return models.NewInternalError(err, "Failed to update playlist")
	}

	if result.MatchedCount == 0 {
		return models.ErrPlaylistNotFound
	}

	return nil
}

// Delete deletes a playlist by its ID.
func (r *playlistRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete playlist", err, "id", id.Hex())
		return models.NewInternalError(err, "Failed to delete playlist")
	}

	if result.DeletedCount == 0 {
		return models.ErrPlaylistNotFound
	}

	return nil
}

// AddItem inserts an item at the given position; a negative position appends.
// Ordering is rewritten by loading, mutating and replacing the document,
// which is fine at the playlist sizes one user curates.
func (r *playlistRepository) AddItem(ctx context.Context, playlistID bson.ObjectID, item models.PlaylistItem, position int) error {
	playlist, err := r.FindByID(ctx, playlistID)
	if err != nil {
		return err
	}

	if item.ID.IsZero() {
		item.ID = bson.NewObjectID()
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}

	if position < 0 || position >= len(playlist.Items) {
		playlist.Items = append(playlist.Items, item)
	} else {
		playlist.Items = append(playlist.Items[:position],
			append([]models.PlaylistItem{item}, playlist.Items[position:]...)...)
	}

	renumberItems(playlist.Items)
	return r.Update(ctx, playlist)
}

// RemoveItem removes an item from a playlist.
func (r *playlistRepository) RemoveItem(ctx context.Context, playlistID, itemID bson.ObjectID) error {
	playlist, err := r.FindByID(ctx, playlistID)
	if err != nil {
		return err
	}

	items := make([]models.PlaylistItem, 0, len(playlist.Items))
	found := false
	for _, it := range playlist.Items {
		if it.ID == itemID {
			found = true
			continue
		}
		items = append(items, it)
	}
	if !found {
		return models.ErrPlaylistItemNotFound
	}

	playlist.Items = items
	renumberItems(playlist.Items)
	return r.Update(ctx, playlist)
}

// MoveItem moves an item to a new position in the playlist.
func (r *playlistRepository) MoveItem(ctx context.Context, playlistID, itemID bson.ObjectID, newPosition int) error {
	playlist, err := r.FindByID(ctx, playlistID)
	if err != nil {
		return err
	}

	idx := -1
	for i, it := range playlist.Items {
		if it.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.ErrPlaylistItemNotFound
	}

	item := playlist.Items[idx]
	items := append(playlist.Items[:idx], playlist.Items[idx+1:]...)

	if newPosition < 0 || newPosition >= len(items) {
		items = append(items, item)
	} else {
		items = append(items[:newPosition],
			append([]models.PlaylistItem{item}, items[newPosition:]...)...)
	}

	playlist.Items = items
	renumberItems(playlist.Items)
	return r.Update(ctx, playlist)
}

// CountUserPlaylists counts the playlists owned by a user.
func (r *playlistRepository) CountUserPlaylists(ctx context.Context, userID bson.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"owner": userID})
	if err != nil {
		r.logger.Error("Failed to count playlists", err, "owner", userID.Hex())
		return 0, models.NewInternalError(err, "Failed to count playlists")
	}

	return count, nil
}

// renumberItems reassigns the Order field to match slice positions.
func renumberItems(items []models.PlaylistItem) {
	for i := range items {
		items[i].Order = i
	}
}
