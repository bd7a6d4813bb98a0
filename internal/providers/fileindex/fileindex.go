package fileindex

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dhowden/tag"

	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/providers"
	"github.com/tuneport/backend/internal/providers/idcodec"
	"github.com/tuneport/backend/internal/utils"
)

// Name is the provider name reported to the router.
const Name = "fileindex"

// Config holds the file-index adapter settings.
type Config struct {
	// BaseURL is the file server base URL, e.g. "https://nas.local:5001".
	BaseURL string

	// Account and Password authenticate against the file server. Accounts
	// with two-factor auth enabled cannot log in through this adapter.
	Account  string
	Password string

	// RootPath is the shared-folder path holding the music library,
	// e.g. "/music".
	RootPath string

	// SessionTTL is how long a login session id is reused before
	// re-authenticating.
	SessionTTL time.Duration

	// Timeout bounds each outbound file server call.
	Timeout time.Duration

	// TagParseLimit caps how many of the most recently changed files get
	// embedded-tag extraction per scan. Files beyond the cap fall back to
	// filename heuristics only.
	TagParseLimit int

	// TagFetchBytes is the byte-range prefix downloaded per file for tag
	// parsing. Tags live at the front of the file for every supported
	// format.
	TagFetchBytes int64

	// ScanConcurrency bounds how many tag downloads run at once.
	ScanConcurrency int

	// Configured reports whether the provider settings are usable. The
	// config package owns placeholder detection; the adapter only asks.
	Configured func() bool
}

// Adapter builds a music library view out of a plain file tree on a
// session-authenticated file server. There is no media database behind
// it; every call lists the tree and derives songs, albums and artists
// from paths plus a bounded amount of embedded tag data.
type Adapter struct {
	cfg    Config
	client *client
	logger *utils.Logger
}

// New creates a file-index adapter.
func New(cfg Config, logger *utils.Logger) *Adapter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 10 * time.Minute
	}
	if cfg.TagParseLimit <= 0 {
		cfg.TagParseLimit = 20
	}
	if cfg.TagFetchBytes <= 0 {
		cfg.TagFetchBytes = 256 * 1024
	}
	if cfg.ScanConcurrency <= 0 {
		cfg.ScanConcurrency = 4
	}
	log := logger.Named("fileindex_provider")
	return &Adapter{
		cfg:    cfg,
		client: newClient(cfg, log),
		logger: log,
	}
}

// Name returns the provider name.
func (a *Adapter) Name() string { return Name }

// Configured reports whether the server address and credentials are usable.
func (a *Adapter) Configured() bool {
	if a.cfg.Configured != nil {
		return a.cfg.Configured()
	}
	return a.cfg.BaseURL != "" && a.cfg.Account != "" && a.cfg.Password != "" && a.cfg.RootPath != ""
}

// library is one fully derived view of the file tree.
type library struct {
	// songs are ordered by modification time, newest first.
	songs   []models.Song
	albums  []*models.Album
	artists []*models.Artist

	albumByKey  map[string]*models.Album
	artistByKey map[string]*models.Artist
}

// scan walks the library root, turns audio files into songs and groups
// them into albums and artists. Tag extraction is attempted only for the
// newest TagParseLimit files; a failure there degrades that one song to
// its heuristic metadata instead of failing the scan.
func (a *Adapter) scan(ctx context.Context) (*library, error) {
	files, err := a.walk(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Additional.Time.Mtime > files[j].Additional.Time.Mtime
	})

	songs := make([]models.Song, len(files))
	for i, f := range files {
		songs[i] = a.songFromEntry(ctx, f)
	}
	a.enrichNewest(ctx, files, songs)

	lib := &library{
		songs:       songs,
		albumByKey:  make(map[string]*models.Album),
		artistByKey: make(map[string]*models.Artist),
	}
	lib.group()
	return lib, nil
}

// walk lists the root folder and every subfolder beneath it, returning
// the audio files found. System folders (names starting with "@") and
// hidden entries are skipped.
func (a *Adapter) walk(ctx context.Context) ([]fileEntry, error) {
	var files []fileEntry
	queue := []string{a.cfg.RootPath}

	for len(queue) > 0 {
		folder := queue[0]
		queue = queue[1:]

		entries, err := a.client.list(ctx, folder)
		if err != nil {
			if folder == a.cfg.RootPath {
				return nil, err
			}
			// One unreadable subfolder must not sink the whole scan.
			a.logger.Warn("Skipping unreadable folder", "folder", folder, "error", err.Error())
			continue
		}

		for _, e := range entries {
			if strings.HasPrefix(e.Name, "@") || strings.HasPrefix(e.Name, ".") {
				continue
			}
			if e.IsDir {
				queue = append(queue, e.Path)
				continue
			}
			if audioExtensions[strings.ToLower(path.Ext(e.Name))] {
				files = append(files, e)
			}
		}
	}
	return files, nil
}

// songFromEntry builds the heuristic-only song for one file.
func (a *Adapter) songFromEntry(ctx context.Context, f fileEntry) models.Song {
	g := guessFromPath(a.cfg.RootPath, f.Path)

	s := models.Song{
		ID:          idcodec.Encode(f.Path),
		Name:        g.Title,
		Subtitle:    g.Artist,
		Artist:      g.Artist,
		AlbumID:     idcodec.Encode(albumKey(g.Artist, g.Album)),
		AlbumName:   g.Album,
		TrackNumber: g.Track,
		Images:      []models.ImageVariant{},
		Streams:     []models.StreamURL{},
	}
	if u, err := a.client.streamURL(ctx, f.Path); err == nil {
		s.Streams = append(s.Streams, models.StreamURL{Quality: "original", URL: u})
	}
	return s
}

// enrichNewest overlays embedded tag metadata onto the newest songs,
// within the configured parse cap and concurrency.
func (a *Adapter) enrichNewest(ctx context.Context, files []fileEntry, songs []models.Song) {
	limit := a.cfg.TagParseLimit
	if limit > len(files) {
		limit = len(files)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, a.cfg.ScanConcurrency)
	for i := 0; i < limit; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := a.enrichFromTags(ctx, files[i].Path, &songs[i]); err != nil {
				a.logger.Debug("Tag extraction failed, keeping heuristic metadata",
					"path", files[i].Path, "error", err.Error())
			}
		}(i)
	}
	wg.Wait()
}

// enrichFromTags downloads the head of a file and parses its embedded
// tags. The title, track number and year always win over the filename
// guess; artist and album from tags are used only when the folder
// structure gave no answer, since folders are curated and tags often
// are not.
func (a *Adapter) enrichFromTags(ctx context.Context, filePath string, s *models.Song) error {
	data, err := a.client.head(ctx, filePath, a.cfg.TagFetchBytes)
	if err != nil {
		return err
	}

	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse tags: %w", err)
	}

	if t := strings.TrimSpace(m.Title()); t != "" {
		s.Name = t
	}
	if ar := strings.TrimSpace(m.Artist()); ar != "" && s.Artist == unknownArtist {
		s.Artist = ar
		s.Subtitle = ar
	}
	if al := strings.TrimSpace(m.Album()); al != "" && s.AlbumName == unknownAlbum {
		s.AlbumName = al
		s.AlbumID = idcodec.Encode(albumKey(s.Artist, al))
	}
	if n, _ := m.Track(); n > 0 {
		s.TrackNumber = n
	}
	if y := m.Year(); y > 0 {
		s.Year = y
	}
	if g := strings.TrimSpace(m.Genre()); g != "" {
		s.Language = g
	}
	return nil
}

// albumKey is the grouping key for one artist/album pair. The key is
// also what album ids decode to, so it must stay stable.
func albumKey(artist, album string) string {
	return fmt.Sprintf("%s-%s", artist, album)
}

// group partitions the songs into albums and artists.
func (lib *library) group() {
	for _, s := range lib.songs {
		key := albumKey(s.Artist, s.AlbumName)
		alb, ok := lib.albumByKey[key]
		if !ok {
			alb = &models.Album{
				ID:     s.AlbumID,
				Name:   s.AlbumName,
				Artist: s.Artist,
				Images: []models.ImageVariant{},
				Songs:  []models.Song{},
			}
			lib.albums = append(lib.albums, alb)
			lib.albumByKey[key] = alb
		}
		alb.Songs = append(alb.Songs, s)
		alb.SongCount++
		if alb.Year == 0 && s.Year != 0 {
			alb.Year = s.Year
		}

		art, ok := lib.artistByKey[s.Artist]
		if !ok {
			art = &models.Artist{
				ID:       idcodec.Encode(s.Artist),
				Name:     s.Artist,
				Images:   []models.ImageVariant{},
				TopSongs: []models.Song{},
				Albums:   []models.Album{},
			}
			lib.artists = append(lib.artists, art)
			lib.artistByKey[s.Artist] = art
		}
		if len(art.TopSongs) < 10 {
			art.TopSongs = append(art.TopSongs, s)
		}
	}

	// Track order within an album follows track numbers when present.
	for _, alb := range lib.albums {
		songs := alb.Songs
		sort.SliceStable(songs, func(a, b int) bool {
			if songs[a].TrackNumber != songs[b].TrackNumber {
				return songs[a].TrackNumber < songs[b].TrackNumber
			}
			return songs[a].Name < songs[b].Name
		})
	}

	for _, alb := range lib.albums {
		if art := lib.artistByKey[alb.Artist]; art != nil {
			summary := *alb
			summary.Songs = []models.Song{}
			art.Albums = append(art.Albums, summary)
		}
	}
}

// Home returns the newest songs and albums as the home feed. A file
// tree has no editorial playlists or charts, so those modules are empty.
func (a *Adapter) Home(ctx context.Context, language string) (*models.HomeData, error) {
	lib, err := a.scan(ctx)
	if err != nil {
		return nil, err
	}

	home := models.NewEmptyHomeData()
	home.Trending.Songs = firstN(lib.songs, 20)
	home.Trending.Albums = derefN(lib.albums, 10)
	home.Albums = derefN(lib.albums, 20)
	return home, nil
}

// Song resolves a song id back to its file path and rebuilds the song
// from its parent folder listing, so a single lookup does not walk the
// whole library.
func (a *Adapter) Song(ctx context.Context, id string) (*models.Song, error) {
	filePath := idcodec.DecodeOrLiteral(id)

	entries, err := a.client.list(ctx, path.Dir(filePath))
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Path == filePath && !e.IsDir {
			s := a.songFromEntry(ctx, e)
			if err := a.enrichFromTags(ctx, e.Path, &s); err != nil {
				a.logger.Debug("Tag extraction failed, keeping heuristic metadata",
					"path", e.Path, "error", err.Error())
			}
			return &s, nil
		}
	}
	return nil, providers.ErrNotFound
}

// Album returns one grouped album by its id.
func (a *Adapter) Album(ctx context.Context, id string) (*models.Album, error) {
	lib, err := a.scan(ctx)
	if err != nil {
		return nil, err
	}
	if alb, ok := lib.albumByKey[idcodec.DecodeOrLiteral(id)]; ok {
		return alb, nil
	}
	return nil, providers.ErrNotFound
}

// Artist returns one grouped artist by its id.
func (a *Adapter) Artist(ctx context.Context, id string) (*models.Artist, error) {
	lib, err := a.scan(ctx)
	if err != nil {
		return nil, err
	}
	if art, ok := lib.artistByKey[idcodec.DecodeOrLiteral(id)]; ok {
		return art, nil
	}
	return nil, providers.ErrNotFound
}

// Search matches the query case-insensitively against song titles,
// artists and album names. There is no pagination over a file tree;
// every result set is the last page.
func (a *Adapter) Search(ctx context.Context, query string, page int) (*models.SearchResults, error) {
	lib, err := a.scan(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	results := models.NewEmptySearchResults(query)

	for _, s := range lib.songs {
		if containsFold(q, s.Name, s.Artist, s.AlbumName) {
			results.Songs = append(results.Songs, s)
		}
	}
	for _, alb := range lib.albums {
		if containsFold(q, alb.Name, alb.Artist) {
			results.Albums = append(results.Albums, *alb)
		}
	}
	for _, art := range lib.artists {
		if containsFold(q, art.Name) {
			results.Artists = append(results.Artists, *art)
		}
	}

	results.SongCount = len(results.Songs)
	results.AlbumCount = len(results.Albums)
	results.ArtistCount = len(results.Artists)
	return results, nil
}

// Playlists returns an empty list; a file tree has no curated playlists.
func (a *Adapter) Playlists(ctx context.Context) ([]models.ProviderPlaylist, error) {
	return []models.ProviderPlaylist{}, nil
}

// Playlist always reports not found for the same reason.
func (a *Adapter) Playlist(ctx context.Context, id string) (*models.ProviderPlaylist, error) {
	return nil, providers.ErrNotFound
}

// TopSearches surfaces the most recently changed songs.
func (a *Adapter) TopSearches(ctx context.Context) ([]models.TopSearch, error) {
	lib, err := a.scan(ctx)
	if err != nil {
		return nil, err
	}

	top := make([]models.TopSearch, 0, 10)
	for _, s := range firstN(lib.songs, 10) {
		top = append(top, models.TopSearch{
			ID:       s.ID,
			Name:     s.Name,
			Type:     "song",
			Subtitle: s.Artist,
			Images:   []models.ImageVariant{},
		})
	}
	return top, nil
}

// MegaMenu lists the library's artists and newest albums.
func (a *Adapter) MegaMenu(ctx context.Context, language string) (*models.MegaMenu, error) {
	lib, err := a.scan(ctx)
	if err != nil {
		return nil, err
	}

	menu := models.NewEmptyMegaMenu()
	for _, art := range firstN(lib.artists, 10) {
		menu.TopArtists = append(menu.TopArtists, models.MenuItem{Name: art.Name, Link: "/artists/" + art.ID})
	}
	for _, alb := range firstN(lib.albums, 10) {
		menu.NewReleases = append(menu.NewReleases, models.MenuItem{Name: alb.Name, Link: "/albums/" + alb.ID})
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

func firstN[T any](xs []T, n int) []T {
	if len(xs) < n {
		n = len(xs)
	}
	out := make([]T, n)
	copy(out, xs)
	return out
}

// derefN copies the first n elements of a pointer slice into values.
func derefN[T any](xs []*T, n int) []T {
	if len(xs) < n {
		n = len(xs)
	}
	out := make([]T, 0, n)
	for _, x := range xs[:n] {
		out = append(out, *x)
	}
	return out
}

// containsFold reports whether any of the fields contains the
// already-lowercased query.
func containsFold(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
