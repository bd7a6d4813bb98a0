// Package catalog implements the default song-catalog API provider.
//
// The catalog adapter is the terminal entry of the router's fallback
// chain, so it is maximally tolerant: every operation returns a
// structurally valid empty result with a nil error on any transport,
// status or decode failure. The failure itself is logged for operators.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/samber/lo"
	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/utils"
)

// Name is the provider name reported to the router.
const Name = "catalog"

// Config holds the catalog adapter settings.
type Config struct {
	// BaseURL is the catalog API root, e.g. "https://saavn.dev/api".
	BaseURL string

	// Timeout bounds each outbound call.
	Timeout time.Duration

	// DefaultLanguage is used when an operation carries no language hint.
	DefaultLanguage string
}

// Adapter translates the catalog API into the internal entity schema.
type Adapter struct {
	cfg    Config
	client *http.Client
	logger *utils.Logger
}

// New creates a catalog adapter.
func New(cfg Config, logger *utils.Logger) *Adapter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &Adapter{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("catalog_provider"),
	}
}

// Name returns the provider name.
func (a *Adapter) Name() string { return Name }

// Configured always reports true; the catalog adapter ships with a
// usable default base URL and exists precisely to be the fallback.
func (a *Adapter) Configured() bool { return true }

// get issues one GET against the catalog API and decodes the envelope's
// data field into out. Callers translate any error into their empty shape.
func (a *Adapter) get(ctx context.Context, path string, query url.Values, out any) error {
	u := a.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, path)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("catalog reported failure for %s", path)
	}

	return json.Unmarshal(env.Data, out)
}

func (a *Adapter) language(language string) string {
	if language == "" {
		return a.cfg.DefaultLanguage
	}
	return language
}

// Home returns the home feed modules.
func (a *Adapter) Home(ctx context.Context, language string) (*models.HomeData, error) {
	var res homeResource
	q := url.Values{"language": {a.language(language)}}
	if err := a.get(ctx, "/modules", q, &res); err != nil {
		a.logger.Error("Home feed request failed", err)
		return models.NewEmptyHomeData(), nil
	}

	return &models.HomeData{
		Trending: models.HomeTrending{
			Songs:  mapSongs(res.Trending.Songs),
			Albums: mapAlbums(res.Trending.Albums),
		},
		Albums:    mapAlbums(res.Albums),
		Playlists: mapPlaylists(res.Playlists),
		Charts:    mapPlaylists(res.Charts),
	}, nil
}

// Song returns a single song by catalog identifier.
func (a *Adapter) Song(ctx context.Context, id string) (*models.Song, error) {
	// The songs endpoint answers with a one-element list.
	var res []songResource
	if err := a.get(ctx, "/songs", url.Values{"id": {id}}, &res); err != nil {
		a.logger.Error("Song request failed", err, "id", id)
		return emptySong(), nil
	}
	if len(res) == 0 {
		a.logger.Warn("Song not found in catalog", "id", id)
		return emptySong(), nil
	}

	song := mapSong(res[0])
	return &song, nil
}

// Album returns an album with its track list.
func (a *Adapter) Album(ctx context.Context, id string) (*models.Album, error) {
	var res albumResource
	if err := a.get(ctx, "/albums", url.Values{"id": {id}}, &res); err != nil {
		a.logger.Error("Album request failed", err, "id", id)
		return emptyAlbum(), nil
	}

	album := mapAlbum(res)
	return &album, nil
}

// Artist returns an artist with top songs and albums.
func (a *Adapter) Artist(ctx context.Context, id string) (*models.Artist, error) {
	var res artistResource
	if err := a.get(ctx, "/artists", url.Values{"id": {id}}, &res); err != nil {
		a.logger.Error("Artist request failed", err, "id", id)
		return emptyArtist(), nil
	}

	artist := mapArtist(res)
	return &artist, nil
}

// Search returns the parallel match collections for a query.
func (a *Adapter) Search(ctx context.Context, query string, page int) (*models.SearchResults, error) {
	q := url.Values{"query": {query}}
	if page > 0 {
		q.Set("page", fmt.Sprintf("%d", page))
	}

	var res searchResource
	if err := a.get(ctx, "/search", q, &res); err != nil {
		a.logger.Error("Search request failed", err, "query", query)
		return models.NewEmptySearchResults(query), nil
	}

	return &models.SearchResults{
		Query:         query,
		Songs:         mapSongs(res.Songs.Results),
		Albums:        mapAlbums(res.Albums.Results),
		Artists:       lo.Map(res.Artists.Results, func(r artistResource, _ int) models.Artist { return mapArtist(r) }),
		Playlists:     mapPlaylists(res.Playlists.Results),
		SongCount:     int(res.Songs.Total),
		AlbumCount:    int(res.Albums.Total),
		ArtistCount:   int(res.Artists.Total),
		PlaylistCount: int(res.Playlists.Total),
		LastPage:      res.LastPage,
	}, nil
}

// Playlists returns the catalog's featured playlists.
func (a *Adapter) Playlists(ctx context.Context) ([]models.ProviderPlaylist, error) {
	var res []playlistResource
	q := url.Values{"language": {a.cfg.DefaultLanguage}}
	if err := a.get(ctx, "/playlists", q, &res); err != nil {
		a.logger.Error("Playlists request failed", err)
		return []models.ProviderPlaylist{}, nil
	}
	return mapPlaylists(res), nil
}

// Playlist returns one featured playlist with its songs.
func (a *Adapter) Playlist(ctx context.Context, id string) (*models.ProviderPlaylist, error) {
	var res playlistResource
	if err := a.get(ctx, "/playlists", url.Values{"id": {id}}, &res); err != nil {
		a.logger.Error("Playlist request failed", err, "id", id)
		return emptyPlaylist(), nil
	}

	pl := mapPlaylist(res)
	return &pl, nil
}

// TopSearches returns the trending-searches strip.
func (a *Adapter) TopSearches(ctx context.Context) ([]models.TopSearch, error) {
	var res []topSearchResource
	if err := a.get(ctx, "/search/top", nil, &res); err != nil {
		a.logger.Error("Top searches request failed", err)
		return []models.TopSearch{}, nil
	}

	return lo.Map(res, func(r topSearchResource, _ int) models.TopSearch {
		return models.TopSearch{
			ID:       r.ID,
			Name:     r.Title,
			Type:     r.Type,
			Subtitle: r.Subtitle,
			Images:   mapImages(r.Image),
		}
	}), nil
}

// MegaMenu derives the header menu from the home feed modules: the
// catalog has no dedicated menu endpoint.
func (a *Adapter) MegaMenu(ctx context.Context, language string) (*models.MegaMenu, error) {
	home, _ := a.Home(ctx, language)

	menu := models.NewEmptyMegaMenu()
	for _, song := range home.Trending.Songs {
		if song.Artist == "" {
			continue
		}
		menu.TopArtists = append(menu.TopArtists, models.MenuItem{
			Name: song.Artist,
			Link: "/search?q=" + url.QueryEscape(song.Artist),
		})
	}
	for _, chart := range home.Charts {
		menu.TopCharts = append(menu.TopCharts, models.MenuItem{
			Name: chart.Name,
			Link: "/playlists/" + chart.ID,
		})
	}
	for _, album := range home.Albums {
		menu.NewReleases = append(menu.NewReleases, models.MenuItem{
			Name: album.Name,
			Link: "/albums/" + album.ID,
		})
	}

	return menu, nil
}

// Footer returns the static footer chrome. It is navigation, not
// business data, so it never needs a network call.
func (a *Adapter) Footer(ctx context.Context) (*models.Footer, error) {
	return &models.Footer{
		Sections: []models.FooterSection{
			{
				Title: "Browse",
				Items: []models.MenuItem{
					{Name: "Home", Link: "/"},
					{Name: "Search", Link: "/search"},
					{Name: "Playlists", Link: "/playlists"},
				},
			},
			{
				Title: "Account",
				Items: []models.MenuItem{
					{Name: "Favorites", Link: "/favorites"},
					{Name: "My Playlists", Link: "/me/playlists"},
					{Name: "Settings", Link: "/me/settings"},
				},
			},
		},
	}, nil
}

// Mapping helpers. The catalog response shape is close to the internal
// schema already; copying is deliberate so upstream renames cannot leak
// into the rest of the application.

func mapImages(in []imageResource) []models.ImageVariant {
	return lo.Map(in, func(r imageResource, _ int) models.ImageVariant {
		return models.ImageVariant{Quality: r.Quality, URL: r.URL}
	})
}

func mapStreams(in []urlResource) []models.StreamURL {
	return lo.Map(in, func(r urlResource, _ int) models.StreamURL {
		return models.StreamURL{Quality: r.Quality, URL: r.URL}
	})
}

func mapSong(r songResource) models.Song {
	return models.Song{
		ID:        r.ID,
		Name:      r.Name,
		Subtitle:  r.Subtitle,
		AlbumID:   r.Album.ID,
		AlbumName: r.Album.Name,
		Artist:    r.PrimaryArtists,
		Duration:  int(r.Duration),
		Year:      int(r.Year),
		Explicit:  r.ExplicitContent,
		Language:  r.Language,
		Images:    mapImages(r.Image),
		Streams:   mapStreams(r.DownloadURL),
		PlayCount: int64(r.PlayCount),
	}
}

func mapSongs(in []songResource) []models.Song {
	return lo.Map(in, func(r songResource, _ int) models.Song { return mapSong(r) })
}

func mapAlbum(r albumResource) models.Album {
	count := int(r.SongCount)
	if count == 0 {
		count = len(r.Songs)
	}
	return models.Album{
		ID:        r.ID,
		Name:      r.Name,
		Subtitle:  r.Subtitle,
		Artist:    r.Artist,
		Year:      int(r.Year),
		Images:    mapImages(r.Image),
		Songs:     mapSongs(r.Songs),
		SongCount: count,
	}
}

func mapAlbums(in []albumResource) []models.Album {
	return lo.Map(in, func(r albumResource, _ int) models.Album { return mapAlbum(r) })
}

func mapArtist(r artistResource) models.Artist {
	return models.Artist{
		ID:       r.ID,
		Name:     r.Name,
		Images:   mapImages(r.Image),
		TopSongs: mapSongs(r.TopSongs),
		Albums:   mapAlbums(r.Albums),
	}
}

func mapPlaylist(r playlistResource) models.ProviderPlaylist {
	count := int(r.SongCount)
	if count == 0 {
		count = len(r.Songs)
	}
	return models.ProviderPlaylist{
		ID:        r.ID,
		Name:      r.Name,
		Subtitle:  r.Subtitle,
		Images:    mapImages(r.Image),
		Songs:     mapSongs(r.Songs),
		SongCount: count,
		Origin:    Name,
	}
}

func mapPlaylists(in []playlistResource) []models.ProviderPlaylist {
	return lo.Map(in, func(r playlistResource, _ int) models.ProviderPlaylist { return mapPlaylist(r) })
}

func emptySong() *models.Song {
	return &models.Song{Images: []models.ImageVariant{}, Streams: []models.StreamURL{}}
}

func emptyAlbum() *models.Album {
	return &models.Album{Images: []models.ImageVariant{}, Songs: []models.Song{}}
}

func emptyArtist() *models.Artist {
	return &models.Artist{Images: []models.ImageVariant{}, TopSongs: []models.Song{}, Albums: []models.Album{}}
}

func emptyPlaylist() *models.ProviderPlaylist {
	return &models.ProviderPlaylist{Images: []models.ImageVariant{}, Songs: []models.Song{}}
}
