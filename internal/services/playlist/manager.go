// Package playlist provides playlist management functionality.
package playlist

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tuneport/backend/internal/db/mongo/repositories"
	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/providers"
	"github.com/tuneport/backend/internal/utils"
)

// Manager handles playlist operations.
type Manager struct {
	playlistRepo repositories.PlaylistRepository
	router       *providers.Router
	logger       *utils.Logger
}

// NewManager creates a new playlist manager.
func NewManager(playlistRepo repositories.PlaylistRepository, router *providers.Router, logger *utils.Logger) *Manager {
	return &Manager{
		playlistRepo: playlistRepo,
		router:       router,
		logger:       logger.Named("playlist_manager"),
	}
}

// CreatePlaylist creates a new playlist for the given owner.
func (m *Manager) CreatePlaylist(ctx context.Context, ownerID bson.ObjectID, req models.PlaylistCreateRequest) (*models.Playlist, error) {
	m.logger.Debug("Creating playlist", "name", req.Name, "owner", ownerID.Hex())

	playlist := &models.Playlist{
		Name:        utils.SanitizePlaylistName(req.Name),
		Description: utils.SanitizeString(req.Description),
		Owner:       ownerID,
		IsPrivate:   req.IsPrivate,
		CoverImage:  req.CoverImage,
		Items:       []models.PlaylistItem{},
	}

	if err := m.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}

	return playlist, nil
}

// GetPlaylist gets a playlist by ID, enforcing visibility for the requesting user.
func (m *Manager) GetPlaylist(ctx context.Context, id, requesterID bson.ObjectID) (*models.Playlist, error) {
	playlist, err := m.playlistRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if playlist.IsPrivate && playlist.Owner != requesterID {
		return nil, models.ErrPlaylistNotFound
	}

	return playlist, nil
}

// GetUserPlaylists gets all playlists owned by a user.
func (m *Manager) GetUserPlaylists(ctx context.Context, userID bson.ObjectID) ([]*models.Playlist, error) {
	return m.playlistRepo.FindUserPlaylists(ctx, userID)
}

// UpdatePlaylist applies a partial update to a playlist owned by the user.
func (m *Manager) UpdatePlaylist(ctx context.Context, id, ownerID bson.ObjectID, req models.PlaylistUpdateRequest) (*models.Playlist, error) {
	playlist, err := m.ownedPlaylist(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		playlist.Name = utils.SanitizePlaylistName(req.Name)
	}
	if req.Description != nil {
		playlist.Description = utils.SanitizeString(*req.Description)
	}
	if req.IsPrivate != nil {
		playlist.IsPrivate = *req.IsPrivate
	}
	if req.CoverImage != nil {
		playlist.CoverImage = *req.CoverImage
	}

	if err := m.playlistRepo.Update(ctx, playlist); err != nil {
		return nil, err
	}

	return playlist, nil
}

// DeletePlaylist deletes a playlist owned by the user.
func (m *Manager) DeletePlaylist(ctx context.Context, id, ownerID bson.ObjectID) error {
	if _, err := m.ownedPlaylist(ctx, id, ownerID); err != nil {
		return err
	}
	return m.playlistRepo.Delete(ctx, id)
}

// AddItem resolves a song through the provider chain and appends or inserts
// a snapshot of it into the playlist.
func (m *Manager) AddItem(ctx context.Context, playlistID, ownerID bson.ObjectID, req models.PlaylistAddItemRequest) (*models.Playlist, error) {
	if _, err := m.ownedPlaylist(ctx, playlistID, ownerID); err != nil {
		return nil, err
	}

	song := m.router.Song(ctx, req.SongID)
	if song == nil || song.ID == "" {
		return nil, models.ErrSongNotFound
	}

	item := models.PlaylistItem{
		ID:       bson.NewObjectID(),
		Provider: req.Provider,
		Song:     *song,
		AddedAt:  time.Now(),
	}

	if err := m.playlistRepo.AddItem(ctx, playlistID, item, req.Position); err != nil {
		return nil, err
	}

	return m.playlistRepo.FindByID(ctx, playlistID)
}

// RemoveItem removes an item from a playlist owned by the user.
func (m *Manager) RemoveItem(ctx context.Context, playlistID, ownerID, itemID bson.ObjectID) (*models.Playlist, error) {
	if _, err := m.ownedPlaylist(ctx, playlistID, ownerID); err != nil {
		return nil, err
	}

	if err := m.playlistRepo.RemoveItem(ctx, playlistID, itemID); err != nil {
		return nil, err
	}

	return m.playlistRepo.FindByID(ctx, playlistID)
}

// MoveItem moves an item to a new position within a playlist owned by the user.
func (m *Manager) MoveItem(ctx context.Context, playlistID, ownerID, itemID bson.ObjectID, newPosition int) (*models.Playlist, error) {
	if _, err := m.ownedPlaylist(ctx, playlistID, ownerID); err != nil {
		return nil, err
	}

	if err := m.playlistRepo.MoveItem(ctx, playlistID, itemID, newPosition); err != nil {
		return nil, err
	}

	return m.playlistRepo.FindByID(ctx, playlistID)
}

// ownedPlaylist loads a playlist and verifies the user owns it. Playlists
// belonging to other users are reported as not found rather than forbidden,
// so existence of private playlists is not leaked.
func (m *Manager) ownedPlaylist(ctx context.Context, id, ownerID bson.ObjectID) (*models.Playlist, error) {
	playlist, err := m.playlistRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrPlaylistNotFound) {
			return nil, models.ErrPlaylistNotFound
		}
		m.logger.Error("Failed to load playlist", err, "playlistId", id.Hex())
		return nil, err
	}

	if playlist.Owner != ownerID {
		return nil, models.ErrPlaylistNotFound
	}

	return playlist, nil
}
