// Package providers implements the multi-provider music metadata
// aggregation layer. Each adapter translates one external backend into
// the internal entity schema; the Router picks an adapter per call and
// falls back along a fixed order when one fails.
package providers

import (
	"context"

	"github.com/tuneport/backend/internal/models"
)

// Logical operation names, used in logs and metrics.
const (
	OpHome        = "home"
	OpSong        = "song"
	OpAlbum       = "album"
	OpArtist      = "artist"
	OpSearch      = "search"
	OpPlaylists   = "playlists"
	OpPlaylist    = "playlist"
	OpTopSearches = "top_searches"
	OpMegaMenu    = "mega_menu"
	OpFooter      = "footer"
)

// Provider defines the interface for music metadata providers.
type Provider interface {
	// Name returns the provider name (e.g. "catalog", "homemedia", "fileindex").
	Name() string

	// Configured reports whether every connection setting the provider
	// needs is present and non-placeholder. The router skips unconfigured
	// providers without attempting a call.
	Configured() bool

	// Home returns the home feed modules.
	Home(ctx context.Context, language string) (*models.HomeData, error)

	// Song returns a single song by its provider-scoped identifier.
	Song(ctx context.Context, id string) (*models.Song, error)

	// Album returns an album with its track list.
	Album(ctx context.Context, id string) (*models.Album, error)

	// Artist returns an artist with top songs and albums.
	Artist(ctx context.Context, id string) (*models.Artist, error)

	// Search returns the parallel match collections for a query.
	Search(ctx context.Context, query string, page int) (*models.SearchResults, error)

	// Playlists returns the provider's curated playlists.
	Playlists(ctx context.Context) ([]models.ProviderPlaylist, error)

	// Playlist returns one curated playlist with its songs.
	Playlist(ctx context.Context, id string) (*models.ProviderPlaylist, error)

	// TopSearches returns the trending-searches strip.
	TopSearches(ctx context.Context) ([]models.TopSearch, error)

	// MegaMenu returns the header navigation menu.
	MegaMenu(ctx context.Context, language string) (*models.MegaMenu, error)

	// Footer returns the footer chrome.
	Footer(ctx context.Context) (*models.Footer, error)
}
