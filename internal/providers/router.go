package providers

import (
	"context"

	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/utils"
)

// Router selects which adapter services a logical operation and applies
// the fallback policy. The chain order is fixed at construction time
// (file-index, home-media, catalog), but whether a provider participates
// is re-checked on every call via Configured, since connection settings
// are cheap to inspect.
//
// The last provider in the chain is expected to be the catalog adapter,
// which is always configured and never returns an error; router
// operations therefore never surface an error to the page layer. Should
// the chain be exhausted anyway, the operation's empty shape is returned.
type Router struct {
	chain   []Provider
	logger  *utils.Logger
	metrics *Metrics
}

// NewRouter creates a provider router with the given fallback chain,
// ordered most-preferred first.
func NewRouter(logger *utils.Logger, metrics *Metrics, chain ...Provider) *Router {
	return &Router{
		chain:   chain,
		logger:  logger.Named("provider_router"),
		metrics: metrics,
	}
}

// Providers returns the names of the configured providers in fallback
// order, for diagnostics.
func (r *Router) Providers() []string {
	names := make([]string, 0, len(r.chain))
	for _, p := range r.chain {
		if p.Configured() {
			names = append(names, p.Name())
		}
	}
	return names
}

// resolve walks the fallback chain for one logical operation. It skips
// unconfigured providers, logs and counts each failed hop, and returns
// the first successful result.
func resolve[T any](r *Router, ctx context.Context, op string, call func(Provider) (T, error), empty func() T) T {
	for _, p := range r.chain {
		if !p.Configured() {
			r.logger.Debug("Skipping unconfigured provider", "provider", p.Name(), "operation", op)
			continue
		}

		result, err := call(p)
		if err != nil {
			r.logger.Warn("Provider call failed, falling back",
				"provider", p.Name(), "operation", op, "error", err.Error())
			r.metrics.ObserveRequest(p.Name(), op, "error")
			r.metrics.ObserveFallback(op, p.Name())
			continue
		}

		r.metrics.ObserveRequest(p.Name(), op, "ok")
		return result
	}

	// Reached only when every provider in the chain is unconfigured or
	// failed, which the terminal catalog adapter is meant to prevent.
	r.logger.Error("All providers exhausted", nil, "operation", op)
	return empty()
}

// Home returns the home feed from the preferred available provider.
func (r *Router) Home(ctx context.Context, language string) *models.HomeData {
	return resolve(r, ctx, OpHome,
		func(p Provider) (*models.HomeData, error) { return p.Home(ctx, language) },
		models.NewEmptyHomeData)
}

// Song returns a song by provider-scoped identifier.
func (r *Router) Song(ctx context.Context, id string) *models.Song {
	return resolve(r, ctx, OpSong,
		func(p Provider) (*models.Song, error) { return p.Song(ctx, id) },
		func() *models.Song { return &models.Song{Images: []models.ImageVariant{}, Streams: []models.StreamURL{}} })
}

// Album returns an album with its track list.
func (r *Router) Album(ctx context.Context, id string) *models.Album {
	return resolve(r, ctx, OpAlbum,
		func(p Provider) (*models.Album, error) { return p.Album(ctx, id) },
		func() *models.Album { return &models.Album{Images: []models.ImageVariant{}, Songs: []models.Song{}} })
}

// Artist returns an artist with top songs and albums.
func (r *Router) Artist(ctx context.Context, id string) *models.Artist {
	return resolve(r, ctx, OpArtist,
		func(p Provider) (*models.Artist, error) { return p.Artist(ctx, id) },
		func() *models.Artist {
			return &models.Artist{Images: []models.ImageVariant{}, TopSongs: []models.Song{}, Albums: []models.Album{}}
		})
}

// Search returns the match collections for a query.
func (r *Router) Search(ctx context.Context, query string, page int) *models.SearchResults {
	return resolve(r, ctx, OpSearch,
		func(p Provider) (*models.SearchResults, error) { return p.Search(ctx, query, page) },
		func() *models.SearchResults { return models.NewEmptySearchResults(query) })
}

// Playlists returns the curated playlists of the preferred provider.
func (r *Router) Playlists(ctx context.Context) []models.ProviderPlaylist {
	return resolve(r, ctx, OpPlaylists,
		func(p Provider) ([]models.ProviderPlaylist, error) { return p.Playlists(ctx) },
		func() []models.ProviderPlaylist { return []models.ProviderPlaylist{} })
}

// Playlist returns one curated playlist with its songs.
func (r *Router) Playlist(ctx context.Context, id string) *models.ProviderPlaylist {
	return resolve(r, ctx, OpPlaylist,
		func(p Provider) (*models.ProviderPlaylist, error) { return p.Playlist(ctx, id) },
		func() *models.ProviderPlaylist {
			return &models.ProviderPlaylist{Images: []models.ImageVariant{}, Songs: []models.Song{}}
		})
}

// TopSearches returns the trending-searches strip.
func (r *Router) TopSearches(ctx context.Context) []models.TopSearch {
	return resolve(r, ctx, OpTopSearches,
		func(p Provider) ([]models.TopSearch, error) { return p.TopSearches(ctx) },
		func() []models.TopSearch { return []models.TopSearch{} })
}

// MegaMenu returns the header navigation menu.
func (r *Router) MegaMenu(ctx context.Context, language string) *models.MegaMenu {
	return resolve(r, ctx, OpMegaMenu,
		func(p Provider) (*models.MegaMenu, error) { return p.MegaMenu(ctx, language) },
		models.NewEmptyMegaMenu)
}

// Footer returns the footer chrome.
func (r *Router) Footer(ctx context.Context) *models.Footer {
	return resolve(r, ctx, OpFooter,
		func(p Provider) (*models.Footer, error) { return p.Footer(ctx) },
		models.NewEmptyFooter)
}
