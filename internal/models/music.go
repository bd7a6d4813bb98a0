// Package models contains the data structures used throughout the application.
package models

// ImageVariant is one rendition of an entity's artwork, keyed by a
// provider-reported resolution tier such as "50x50" or "500x500".
type ImageVariant struct {
	// Quality is the resolution tier label.
	Quality string `json:"quality"`

	// URL is the direct, browser-fetchable image URL.
	URL string `json:"url"`
}

// StreamURL is one playable rendition of a song, keyed by quality tier
// such as "96kbps" or "320kbps". The URL must be directly fetchable by
// the browser, with any required token already embedded.
type StreamURL struct {
	// Quality is the bitrate/quality tier label.
	Quality string `json:"quality"`

	// URL is the direct stream URL.
	URL string `json:"url"`
}

// Song is the provider-agnostic representation of a single track.
type Song struct {
	// ID is unique within the originating provider's namespace and stable
	// across requests to that provider.
	ID string `json:"id"`

	// Name is the display title of the song.
	Name string `json:"name"`

	// Subtitle is the artist display string shown under the title.
	Subtitle string `json:"subtitle,omitempty"`

	// AlbumID references the owning album within the same provider.
	AlbumID string `json:"albumId,omitempty"`

	// AlbumName is the owning album's display name.
	AlbumName string `json:"albumName,omitempty"`

	// Artist is the primary artist display string.
	Artist string `json:"artist,omitempty"`

	// TrackNumber is the position of the song on its album, when known.
	TrackNumber int `json:"trackNumber,omitempty"`

	// Duration is the song length in whole seconds.
	Duration int `json:"duration"`

	// Year is the release year, when known.
	Year int `json:"year,omitempty"`

	// Explicit indicates explicit content.
	Explicit bool `json:"explicit"`

	// Language is the song language reported by the provider, when any.
	Language string `json:"language,omitempty"`

	// Images holds the artwork variants by resolution tier.
	Images []ImageVariant `json:"images"`

	// Streams holds the playable URLs by quality tier.
	Streams []StreamURL `json:"streams"`

	// PlayCount is the provider-reported play count.
	PlayCount int64 `json:"playCount,omitempty"`
}

// Album is the provider-agnostic representation of an album.
type Album struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Subtitle string         `json:"subtitle,omitempty"`
	Artist   string         `json:"artist,omitempty"`
	Year     int            `json:"year,omitempty"`
	Images   []ImageVariant `json:"images"`

	// Songs is the ordered track list. Every song belongs to this album by
	// provider convention; no referential integrity is enforced in memory.
	Songs []Song `json:"songs"`

	// SongCount is the aggregate track count, which may exceed len(Songs)
	// when the provider paginates.
	SongCount int `json:"songCount"`
}

// Artist is the provider-agnostic representation of an artist. Empty list
// fields mean the provider has no data, not that the artist has nothing.
type Artist struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Images   []ImageVariant `json:"images"`
	TopSongs []Song         `json:"topSongs"`
	Albums   []Album        `json:"albums"`
}

// ProviderPlaylist is a curated playlist originating from a provider, as
// opposed to the user-owned Playlist stored in our own database.
type ProviderPlaylist struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Subtitle  string         `json:"subtitle,omitempty"`
	Images    []ImageVariant `json:"images"`
	Songs     []Song         `json:"songs,omitempty"`
	SongCount int            `json:"songCount"`

	// Origin names the provider the playlist came from.
	Origin string `json:"origin,omitempty"`
}

// SearchResults bundles the parallel match collections for a search query.
type SearchResults struct {
	Query     string             `json:"query"`
	Songs     []Song             `json:"songs"`
	Albums    []Album            `json:"albums"`
	Artists   []Artist           `json:"artists"`
	Playlists []ProviderPlaylist `json:"playlists"`

	SongCount     int `json:"songCount"`
	AlbumCount    int `json:"albumCount"`
	ArtistCount   int `json:"artistCount"`
	PlaylistCount int `json:"playlistCount"`

	// LastPage indicates there are no further pages for this query.
	LastPage bool `json:"lastPage"`
}

// NewEmptySearchResults returns the well-formed zero-count result bundle
// for a query. Adapters return it instead of nil so the UI can always
// render an empty state.
func NewEmptySearchResults(query string) *SearchResults {
	return &SearchResults{
		Query:     query,
		Songs:     []Song{},
		Albums:    []Album{},
		Artists:   []Artist{},
		Playlists: []ProviderPlaylist{},
		LastPage:  true,
	}
}

// HomeData is the home feed: a fixed set of named modules the landing
// page renders in order.
type HomeData struct {
	Trending  HomeTrending       `json:"trending"`
	Albums    []Album            `json:"albums"`
	Playlists []ProviderPlaylist `json:"playlists"`
	Charts    []ProviderPlaylist `json:"charts"`
}

// HomeTrending is the trending module of the home feed.
type HomeTrending struct {
	Songs  []Song  `json:"songs"`
	Albums []Album `json:"albums"`
}

// NewEmptyHomeData returns the well-formed empty home feed.
func NewEmptyHomeData() *HomeData {
	return &HomeData{
		Trending:  HomeTrending{Songs: []Song{}, Albums: []Album{}},
		Albums:    []Album{},
		Playlists: []ProviderPlaylist{},
		Charts:    []ProviderPlaylist{},
	}
}

// TopSearch is one entry of the trending-searches strip.
type TopSearch struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Subtitle string         `json:"subtitle,omitempty"`
	Images   []ImageVariant `json:"images"`
}

// MenuItem is a lightweight name+link pair used by navigation chrome.
type MenuItem struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// MegaMenu is the header navigation menu, grouped into columns.
type MegaMenu struct {
	TopArtists  []MenuItem `json:"topArtists"`
	TopCharts   []MenuItem `json:"topCharts"`
	NewReleases []MenuItem `json:"newReleases"`
}

// NewEmptyMegaMenu returns the well-formed empty mega menu.
func NewEmptyMegaMenu() *MegaMenu {
	return &MegaMenu{
		TopArtists:  []MenuItem{},
		TopCharts:   []MenuItem{},
		NewReleases: []MenuItem{},
	}
}

// FooterSection is one titled column of footer links.
type FooterSection struct {
	Title string     `json:"title"`
	Items []MenuItem `json:"items"`
}

// Footer is the page footer chrome.
type Footer struct {
	Sections []FooterSection `json:"sections"`
}

// NewEmptyFooter returns the well-formed empty footer.
func NewEmptyFooter() *Footer {
	return &Footer{Sections: []FooterSection{}}
}
