// Package playlist provides playlist management functionality.
package playlist

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tuneport/backend/internal/db/mongo/repositories"
	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/providers"
	"github.com/tuneport/backend/internal/utils"
)

// ImportStatus represents the status of an import request.
type ImportStatus string

// Import statuses
const (
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportRequest represents a request to copy a provider-curated playlist
// into the user's own library.
type ImportRequest struct {
	// SourceID is the provider playlist identifier to import.
	SourceID string `json:"sourceId" validate:"required"`

	// Name overrides the provider playlist name when set.
	Name string `json:"name" validate:"omitempty,min=1,max=50"`

	// Description is an optional description for the imported playlist.
	Description string `json:"description" validate:"max=1000"`

	// IsPrivate marks the imported playlist as private.
	IsPrivate bool `json:"isPrivate"`
}

// ImportResult summarizes the outcome of an import.
type ImportResult struct {
	Status       ImportStatus     `json:"status"`
	Playlist     *models.Playlist `json:"playlist,omitempty"`
	ItemCount    int              `json:"itemCount"`
	SkippedCount int              `json:"skippedCount"`
	Error        string           `json:"error,omitempty"`
	CompletedAt  time.Time        `json:"completedAt"`
}

// ImporterService copies provider-curated playlists into user playlists.
// Imported items are snapshots: later provider changes do not affect the
// user's copy.
type ImporterService struct {
	playlistRepo repositories.PlaylistRepository
	router       *providers.Router
	logger       *utils.Logger
}

// NewImporterService creates a new importer service.
func NewImporterService(
	playlistRepo repositories.PlaylistRepository,
	router *providers.Router,
	logger *utils.Logger,
) *ImporterService {
	return &ImporterService{
		playlistRepo: playlistRepo,
		router:       router,
		logger:       logger.Named("importer_service"),
	}
}

// ImportPlaylist resolves a provider playlist and stores a copy of it under
// the given owner. Songs the provider returned without an ID are skipped
// rather than failing the whole import.
func (s *ImporterService) ImportPlaylist(ctx context.Context, ownerID bson.ObjectID, req ImportRequest) (*ImportResult, error) {
	s.logger.Info("Importing provider playlist", "owner", ownerID.Hex(), "sourceId", req.SourceID)

	source := s.router.Playlist(ctx, req.SourceID)
	if source == nil || source.ID == "" {
		return &ImportResult{
			Status:      ImportStatusFailed,
			Error:       "playlist not found on any provider",
			CompletedAt: time.Now(),
		}, models.ErrPlaylistNotFound
	}

	name := req.Name
	if name == "" {
		name = source.Name
	}

	now := time.Now()
	items := make([]models.PlaylistItem, 0, len(source.Songs))
	skipped := 0
	for _, song := range source.Songs {
		if song.ID == "" {
			skipped++
			continue
		}
		items = append(items, models.PlaylistItem{
			ID:       bson.NewObjectID(),
			Provider: source.Origin,
			Song:     song,
			Order:    len(items),
			AddedAt:  now,
		})
	}

	coverImage := ""
	if len(source.Images) > 0 {
		coverImage = source.Images[len(source.Images)-1].URL
	}

	playlist := &models.Playlist{
		Name:        utils.SanitizePlaylistName(name),
		Description: utils.SanitizeString(req.Description),
		Owner:       ownerID,
		IsPrivate:   req.IsPrivate,
		CoverImage:  coverImage,
		Items:       items,
	}

	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		s.logger.Error("Failed to store imported playlist", err, "owner", ownerID.Hex(), "sourceId", req.SourceID)
		return &ImportResult{
			Status:      ImportStatusFailed,
			Error:       err.Error(),
			CompletedAt: time.Now(),
		}, err
	}

	result := &ImportResult{
		Status:       ImportStatusCompleted,
		Playlist:     playlist,
		ItemCount:    len(items),
		SkippedCount: skipped,
		CompletedAt:  time.Now(),
	}

	s.logger.Info("Imported playlist",
		"owner", ownerID.Hex(),
		"playlist", playlist.ID.Hex(),
		"items", result.ItemCount,
		"skipped", result.SkippedCount)

	return result, nil
}
