// Package library exposes the aggregated music catalog and per-user
// favorites to the API layer.
package library

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tuneport/backend/internal/db/mongo/repositories"
	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/providers"
	"github.com/tuneport/backend/internal/utils"
)

// Manager serves catalog reads through the provider chain and manages the
// user's favorite songs.
type Manager struct {
	router       *providers.Router
	favoriteRepo repositories.FavoriteRepository
	logger       *utils.Logger
}

// NewManager creates a new library manager.
func NewManager(router *providers.Router, favoriteRepo repositories.FavoriteRepository, logger *utils.Logger) *Manager {
	return &Manager{
		router:       router,
		favoriteRepo: favoriteRepo,
		logger:       logger.Named("library_manager"),
	}
}

// Providers lists the configured providers in selection order.
func (m *Manager) Providers() []string {
	return m.router.Providers()
}

// Home returns the home page modules for the given catalog language.
func (m *Manager) Home(ctx context.Context, language string) *models.HomeData {
	return m.router.Home(ctx, language)
}

// Song returns a single song by its provider-scoped id.
func (m *Manager) Song(ctx context.Context, id string) *models.Song {
	return m.router.Song(ctx, id)
}

// Album returns an album with its track list.
func (m *Manager) Album(ctx context.Context, id string) *models.Album {
	return m.router.Album(ctx, id)
}

// Artist returns an artist with their discography.
func (m *Manager) Artist(ctx context.Context, id string) *models.Artist {
	return m.router.Artist(ctx, id)
}

// Search returns the parallel match collections for a query page.
func (m *Manager) Search(ctx context.Context, query string, page int) *models.SearchResults {
	return m.router.Search(ctx, query, page)
}

// Playlists returns the provider-curated playlists.
func (m *Manager) Playlists(ctx context.Context) []models.ProviderPlaylist {
	return m.router.Playlists(ctx)
}

// Playlist returns one provider-curated playlist with its songs.
func (m *Manager) Playlist(ctx context.Context, id string) *models.ProviderPlaylist {
	return m.router.Playlist(ctx, id)
}

// TopSearches returns the trending search entries.
func (m *Manager) TopSearches(ctx context.Context) []models.TopSearch {
	return m.router.TopSearches(ctx)
}

// MegaMenu returns the navigation mega menu for the given language.
func (m *Manager) MegaMenu(ctx context.Context, language string) *models.MegaMenu {
	return m.router.MegaMenu(ctx, language)
}

// Footer returns the footer link sections.
func (m *Manager) Footer(ctx context.Context) *models.Footer {
	return m.router.Footer(ctx)
}

// FavoriteSong resolves a song through the provider chain and records it as
// a favorite of the user. The stored record is a snapshot, so the favorite
// survives the song later disappearing from the provider.
func (m *Manager) FavoriteSong(ctx context.Context, userID bson.ObjectID, req models.FavoriteAddRequest) (*models.Favorite, error) {
	song := m.router.Song(ctx, req.SongID)
	if song == nil || song.ID == "" {
		return nil, models.ErrSongNotFound
	}

	favorite := &models.Favorite{
		UserID:   userID,
		Provider: req.Provider,
		SongID:   req.SongID,
		Song:     *song,
	}

	if err := m.favoriteRepo.Add(ctx, favorite); err != nil {
		return nil, err
	}

	return favorite, nil
}

// UnfavoriteSong removes a song from the user's favorites.
func (m *Manager) UnfavoriteSong(ctx context.Context, userID bson.ObjectID, provider, songID string) error {
	return m.favoriteRepo.Remove(ctx, userID, provider, songID)
}

// ListFavorites returns a page of the user's favorites, newest first,
// together with the total count.
func (m *Manager) ListFavorites(ctx context.Context, userID bson.ObjectID, skip, limit int) ([]*models.Favorite, int64, error) {
	favorites, err := m.favoriteRepo.FindUserFavorites(ctx, userID, skip, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := m.favoriteRepo.CountUserFavorites(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return favorites, total, nil
}

// IsFavorite reports whether the user has favorited the given song.
func (m *Manager) IsFavorite(ctx context.Context, userID bson.ObjectID, provider, songID string) (bool, error) {
	return m.favoriteRepo.IsFavorite(ctx, userID, provider, songID)
}
