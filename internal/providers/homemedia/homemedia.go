// Package homemedia implements the home media server provider.
//
// The server exposes a token-authenticated JSON API. Unlike the catalog
// adapter this one returns errors to the router; the router's fallback
// chain is the safety net, and surfacing the real failure keeps operator
// diagnostics useful.
package homemedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/providers"
	"github.com/tuneport/backend/internal/utils"
)

// Name is the provider name reported to the router.
const Name = "homemedia"

// Config holds the home-media adapter settings.
type Config struct {
	// BaseURL is the media server root, e.g. "http://nas.local:32400".
	BaseURL string

	// Token is the server auth token, appended to every URL the adapter
	// constructs, including image and stream URLs handed to the browser.
	Token string

	// FallbackSection is the library section id used when music section
	// discovery fails.
	FallbackSection string

	// Timeout bounds each outbound call.
	Timeout time.Duration

	// Configured reports whether the provider settings are usable. The
	// config package owns placeholder detection; the adapter only asks.
	Configured func() bool
}

// Adapter translates the media server API into the internal entity schema.
type Adapter struct {
	cfg    Config
	client *http.Client
	logger *utils.Logger
}

// New creates a home-media adapter.
func New(cfg Config, logger *utils.Logger) *Adapter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Adapter{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("homemedia_provider"),
	}
}

// Name returns the provider name.
func (a *Adapter) Name() string { return Name }

// Configured reports whether the base URL and token are usable.
func (a *Adapter) Configured() bool {
	if a.cfg.Configured != nil {
		return a.cfg.Configured()
	}
	return a.cfg.BaseURL != "" && a.cfg.Token != ""
}

// get issues one GET against the media server, requesting JSON and
// carrying the auth token, and decodes the MediaContainer envelope.
func (a *Adapter) get(ctx context.Context, path string, query url.Values) (*container, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("X-Plex-Token", a.cfg.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, providers.ErrBadCredentials
	case resp.StatusCode == http.StatusNotFound:
		return nil, providers.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d for %s", providers.ErrUnavailable, resp.StatusCode, path)
	}

	var c container
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode media server response: %w", err)
	}
	return &c, nil
}

// tokenURL turns a server-relative resource path into an absolute URL
// the browser can fetch directly, with the auth token embedded.
func (a *Adapter) tokenURL(path string) string {
	if path == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return a.cfg.BaseURL + path + sep + "X-Plex-Token=" + url.QueryEscape(a.cfg.Token)
}

// musicSection resolves which library section holds music by matching
// the section type against "artist" or "album". Falls back to the
// configured section id when discovery fails.
func (a *Adapter) musicSection(ctx context.Context) string {
	c, err := a.get(ctx, "/library/sections", nil)
	if err != nil {
		a.logger.Warn("Library section discovery failed, using fallback",
			"fallback", a.cfg.FallbackSection, "error", err.Error())
		return a.cfg.FallbackSection
	}

	for _, d := range c.MediaContainer.Directory {
		if d.Type == "artist" || d.Type == "album" {
			return d.Key
		}
	}

	a.logger.Warn("No music library section found, using fallback", "fallback", a.cfg.FallbackSection)
	return a.cfg.FallbackSection
}

// msToSeconds converts the server's millisecond durations to whole
// seconds by integer division.
func msToSeconds(ms int64) int {
	return int(ms / 1000)
}

// mapTrack maps one track record to a Song per the compatibility rules:
// ratingKey becomes the id, parentTitle the album subtitle and
// grandparentTitle the artist, and every URL carries the auth token.
func (a *Adapter) mapTrack(m metadata) models.Song {
	song := models.Song{
		ID:          m.RatingKey,
		Name:        m.Title,
		Subtitle:    m.GrandparentTitle,
		AlbumID:     m.ParentRatingKey,
		AlbumName:   m.ParentTitle,
		Artist:      m.GrandparentTitle,
		TrackNumber: m.Index,
		Duration:    msToSeconds(m.Duration),
		Year:        m.Year,
		PlayCount:   m.ViewCount,
		Images:      a.mapImages(m),
		Streams:     []models.StreamURL{},
	}

	if len(m.Media) > 0 && len(m.Media[0].Part) > 0 {
		song.Streams = append(song.Streams, models.StreamURL{
			Quality: "original",
			URL:     a.tokenURL(m.Media[0].Part[0].Key),
		})
	}

	return song
}

func (a *Adapter) mapImages(m metadata) []models.ImageVariant {
	images := []models.ImageVariant{}
	if m.Thumb != "" {
		images = append(images, models.ImageVariant{Quality: "thumb", URL: a.tokenURL(m.Thumb)})
	}
	if m.Art != "" {
		images = append(images, models.ImageVariant{Quality: "art", URL: a.tokenURL(m.Art)})
	}
	return images
}

func (a *Adapter) mapAlbum(m metadata, songs []models.Song) models.Album {
	count := m.LeafCount
	if count == 0 {
		count = len(songs)
	}
	return models.Album{
		ID:        m.RatingKey,
		Name:      m.Title,
		Subtitle:  m.ParentTitle,
		Artist:    m.ParentTitle,
		Year:      m.Year,
		Images:    a.mapImages(m),
		Songs:     songs,
		SongCount: count,
	}
}

func (a *Adapter) mapPlaylist(m metadata, songs []models.Song) models.ProviderPlaylist {
	count := m.LeafCount
	if count == 0 {
		count = len(songs)
	}
	return models.ProviderPlaylist{
		ID:        m.RatingKey,
		Name:      m.Title,
		Images:    a.mapImages(m),
		Songs:     songs,
		SongCount: count,
		Origin:    Name,
	}
}

// Home builds the home feed from the music section's recently added
// tracks and albums plus the server's audio playlists.
func (a *Adapter) Home(ctx context.Context, language string) (*models.HomeData, error) {
	section := a.musicSection(ctx)

	tracks, err := a.get(ctx, "/library/sections/"+section+"/recentlyAdded",
		url.Values{"type": {fmt.Sprintf("%d", typeCodeTrack)}})
	if err != nil {
		return nil, err
	}

	home := models.NewEmptyHomeData()
	home.Trending.Songs = lo.Map(tracks.MediaContainer.Metadata, func(m metadata, _ int) models.Song {
		return a.mapTrack(m)
	})

	// Album and playlist modules are best-effort once the track listing
	// succeeded; a partial home feed beats falling back wholesale.
	if albums, err := a.get(ctx, "/library/sections/"+section+"/recentlyAdded",
		url.Values{"type": {fmt.Sprintf("%d", typeCodeAlbum)}}); err == nil {
		home.Albums = lo.Map(albums.MediaContainer.Metadata, func(m metadata, _ int) models.Album {
			return a.mapAlbum(m, []models.Song{})
		})
		home.Trending.Albums = home.Albums
	}

	if playlists, err := a.Playlists(ctx); err == nil {
		home.Playlists = playlists
	}

	return home, nil
}

// Song returns a single track by rating key.
func (a *Adapter) Song(ctx context.Context, id string) (*models.Song, error) {
	c, err := a.get(ctx, "/library/metadata/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if len(c.MediaContainer.Metadata) == 0 {
		return nil, providers.ErrNotFound
	}

	song := a.mapTrack(c.MediaContainer.Metadata[0])
	return &song, nil
}

// Album returns an album and its track listing.
func (a *Adapter) Album(ctx context.Context, id string) (*models.Album, error) {
	c, err := a.get(ctx, "/library/metadata/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if len(c.MediaContainer.Metadata) == 0 {
		return nil, providers.ErrNotFound
	}

	children, err := a.get(ctx, "/library/metadata/"+url.PathEscape(id)+"/children", nil)
	if err != nil {
		return nil, err
	}

	songs := lo.Map(children.MediaContainer.Metadata, func(m metadata, _ int) models.Song {
		return a.mapTrack(m)
	})

	album := a.mapAlbum(c.MediaContainer.Metadata[0], songs)
	return &album, nil
}

// Artist returns an artist with albums and top tracks.
func (a *Adapter) Artist(ctx context.Context, id string) (*models.Artist, error) {
	c, err := a.get(ctx, "/library/metadata/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if len(c.MediaContainer.Metadata) == 0 {
		return nil, providers.ErrNotFound
	}
	m := c.MediaContainer.Metadata[0]

	artist := models.Artist{
		ID:       m.RatingKey,
		Name:     m.Title,
		Images:   a.mapImages(m),
		TopSongs: []models.Song{},
		Albums:   []models.Album{},
	}

	if children, err := a.get(ctx, "/library/metadata/"+url.PathEscape(id)+"/children", nil); err == nil {
		artist.Albums = lo.Map(children.MediaContainer.Metadata, func(m metadata, _ int) models.Album {
			return a.mapAlbum(m, []models.Song{})
		})
	}

	if leaves, err := a.get(ctx, "/library/metadata/"+url.PathEscape(id)+"/allLeaves", nil); err == nil {
		tracks := leaves.MediaContainer.Metadata
		if len(tracks) > 10 {
			tracks = tracks[:10]
		}
		artist.TopSongs = lo.Map(tracks, func(m metadata, _ int) models.Song { return a.mapTrack(m) })
	}

	return &artist, nil
}

// Search queries the server's library search and partitions the hits by
// metadata type.
func (a *Adapter) Search(ctx context.Context, query string, page int) (*models.SearchResults, error) {
	c, err := a.get(ctx, "/search", url.Values{"query": {query}})
	if err != nil {
		return nil, err
	}

	results := models.NewEmptySearchResults(query)
	for _, m := range c.MediaContainer.Metadata {
		switch m.Type {
		case "track":
			results.Songs = append(results.Songs, a.mapTrack(m))
		case "album":
			results.Albums = append(results.Albums, a.mapAlbum(m, []models.Song{}))
		case "artist":
			results.Artists = append(results.Artists, models.Artist{
				ID:       m.RatingKey,
				Name:     m.Title,
				Images:   a.mapImages(m),
				TopSongs: []models.Song{},
				Albums:   []models.Album{},
			})
		case "playlist":
			results.Playlists = append(results.Playlists, a.mapPlaylist(m, []models.Song{}))
		}
	}

	results.SongCount = len(results.Songs)
	results.AlbumCount = len(results.Albums)
	results.ArtistCount = len(results.Artists)
	results.PlaylistCount = len(results.Playlists)
	return results, nil
}

// Playlists returns the server's audio playlists.
func (a *Adapter) Playlists(ctx context.Context) ([]models.ProviderPlaylist, error) {
	c, err := a.get(ctx, "/playlists", url.Values{"playlistType": {"audio"}})
	if err != nil {
		return nil, err
	}

	return lo.Map(c.MediaContainer.Metadata, func(m metadata, _ int) models.ProviderPlaylist {
		return a.mapPlaylist(m, []models.Song{})
	}), nil
}

// Playlist returns one playlist with its tracks.
func (a *Adapter) Playlist(ctx context.Context, id string) (*models.ProviderPlaylist, error) {
	c, err := a.get(ctx, "/playlists/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if len(c.MediaContainer.Metadata) == 0 {
		return nil, providers.ErrNotFound
	}

	items, err := a.get(ctx, "/playlists/"+url.PathEscape(id)+"/items", nil)
	if err != nil {
		return nil, err
	}

	songs := lo.Map(items.MediaContainer.Metadata, func(m metadata, _ int) models.Song {
		return a.mapTrack(m)
	})

	pl := a.mapPlaylist(c.MediaContainer.Metadata[0], songs)
	return &pl, nil
}

// TopSearches approximates the trending strip with the most recently
// added tracks; the server has no search-popularity endpoint.
func (a *Adapter) TopSearches(ctx context.Context) ([]models.TopSearch, error) {
	section := a.musicSection(ctx)
	c, err := a.get(ctx, "/library/sections/"+section+"/recentlyAdded",
		url.Values{"type": {fmt.Sprintf("%d", typeCodeTrack)}})
	if err != nil {
		return nil, err
	}

	tracks := c.MediaContainer.Metadata
	if len(tracks) > 10 {
		tracks = tracks[:10]
	}

	return lo.Map(tracks, func(m metadata, _ int) models.TopSearch {
		return models.TopSearch{
			ID:       m.RatingKey,
			Name:     m.Title,
			Type:     "song",
			Subtitle: m.GrandparentTitle,
			Images:   a.mapImages(m),
		}
	}), nil
}

// MegaMenu derives the header menu from the library: artists, playlists
// and recently added albums.
func (a *Adapter) MegaMenu(ctx context.Context, language string) (*models.MegaMenu, error) {
	section := a.musicSection(ctx)

	c, err := a.get(ctx, "/library/sections/"+section+"/all", nil)
	if err != nil {
		return nil, err
	}

	menu := models.NewEmptyMegaMenu()
	for _, m := range c.MediaContainer.Metadata {
		if m.Type != "artist" {
			continue
		}
		menu.TopArtists = append(menu.TopArtists, models.MenuItem{
			Name: m.Title,
			Link: "/artists/" + m.RatingKey,
		})
		if len(menu.TopArtists) >= 10 {
			break
		}
	}

	if playlists, err := a.Playlists(ctx); err == nil {
		for _, p := range playlists {
			menu.TopCharts = append(menu.TopCharts, models.MenuItem{Name: p.Name, Link: "/playlists/" + p.ID})
		}
	}

	if albums, err := a.get(ctx, "/library/sections/"+section+"/recentlyAdded",
		url.Values{"type": {fmt.Sprintf("%d", typeCodeAlbum)}}); err == nil {
		for _, m := range albums.MediaContainer.Metadata {
			menu.NewReleases = append(menu.NewReleases, models.MenuItem{Name: m.Title, Link: "/albums/" + m.RatingKey})
		}
	}

	return menu, nil
}

// Footer returns the static footer chrome.
func (a *Adapter) Footer(ctx context.Context) (*models.Footer, error) {
	return &models.Footer{
		Sections: []models.FooterSection{
			{
				Title: "Library",
				Items: []models.MenuItem{
					{Name: "Home", Link: "/"},
					{Name: "Search", Link: "/search"},
					{Name: "Playlists", Link: "/playlists"},
				},
			},
		},
	}, nil
}
