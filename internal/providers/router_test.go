package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/utils"
)

// fakeProvider is a scriptable Provider for router tests.
type fakeProvider struct {
	name       string
	configured bool
	err        error

	calls []string
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) record(op string) error {
	f.calls = append(f.calls, op)
	return f.err
}

func (f *fakeProvider) Home(ctx context.Context, language string) (*models.HomeData, error) {
	if err := f.record(OpHome); err != nil {
		return nil, err
	}
	home := models.NewEmptyHomeData()
	home.Trending.Songs = []models.Song{{ID: f.name + "-song"}}
	return home, nil
}

func (f *fakeProvider) Song(ctx context.Context, id string) (*models.Song, error) {
	if err := f.record(OpSong); err != nil {
		return nil, err
	}
	return &models.Song{ID: id, Name: f.name}, nil
}

func (f *fakeProvider) Album(ctx context.Context, id string) (*models.Album, error) {
	if err := f.record(OpAlbum); err != nil {
		return nil, err
	}
	return &models.Album{ID: id}, nil
}

func (f *fakeProvider) Artist(ctx context.Context, id string) (*models.Artist, error) {
	if err := f.record(OpArtist); err != nil {
		return nil, err
	}
	return &models.Artist{ID: id}, nil
}

func (f *fakeProvider) Search(ctx context.Context, query string, page int) (*models.SearchResults, error) {
	if err := f.record(OpSearch); err != nil {
		return nil, err
	}
	return models.NewEmptySearchResults(query), nil
}

func (f *fakeProvider) Playlists(ctx context.Context) ([]models.ProviderPlaylist, error) {
	if err := f.record(OpPlaylists); err != nil {
		return nil, err
	}
	return []models.ProviderPlaylist{{ID: f.name}}, nil
}

func (f *fakeProvider) Playlist(ctx context.Context, id string) (*models.ProviderPlaylist, error) {
	if err := f.record(OpPlaylist); err != nil {
		return nil, err
	}
	return &models.ProviderPlaylist{ID: id}, nil
}

func (f *fakeProvider) TopSearches(ctx context.Context) ([]models.TopSearch, error) {
	if err := f.record(OpTopSearches); err != nil {
		return nil, err
	}
	return []models.TopSearch{{ID: f.name}}, nil
}

func (f *fakeProvider) MegaMenu(ctx context.Context, language string) (*models.MegaMenu, error) {
	if err := f.record(OpMegaMenu); err != nil {
		return nil, err
	}
	return models.NewEmptyMegaMenu(), nil
}

func (f *fakeProvider) Footer(ctx context.Context) (*models.Footer, error) {
	if err := f.record(OpFooter); err != nil {
		return nil, err
	}
	return models.NewEmptyFooter(), nil
}

func newTestRouter(chain ...Provider) *Router {
	return NewRouter(utils.NewLogger(), nil, chain...)
}

func TestPreferredProviderWins(t *testing.T) {
	first := &fakeProvider{name: "first", configured: true}
	second := &fakeProvider{name: "second", configured: true}
	r := newTestRouter(first, second)

	song := r.Song(context.Background(), "x")
	if song.Name != "first" {
		t.Errorf("song served by %q, want first provider", song.Name)
	}
	if len(second.calls) != 0 {
		t.Errorf("second provider was called %d times, want 0", len(second.calls))
	}
}

func TestFallbackOnError(t *testing.T) {
	first := &fakeProvider{name: "first", configured: true, err: errors.New("down")}
	second := &fakeProvider{name: "second", configured: true}
	r := newTestRouter(first, second)

	song := r.Song(context.Background(), "x")
	if song.Name != "second" {
		t.Errorf("song served by %q, want fallback provider", song.Name)
	}
	if len(first.calls) != 1 {
		t.Errorf("failed provider called %d times, want 1", len(first.calls))
	}
}

func TestUnconfiguredProviderIsSkippedWithoutCall(t *testing.T) {
	first := &fakeProvider{name: "first", configured: false}
	second := &fakeProvider{name: "second", configured: true}
	r := newTestRouter(first, second)

	r.Home(context.Background(), "en")
	if len(first.calls) != 0 {
		t.Errorf("unconfigured provider was called %d times, want 0", len(first.calls))
	}
	if len(second.calls) != 1 {
		t.Errorf("configured provider called %d times, want 1", len(second.calls))
	}
}

func TestExhaustedChainReturnsEmptyShapes(t *testing.T) {
	bad := &fakeProvider{name: "bad", configured: true, err: errors.New("down")}
	r := newTestRouter(bad)
	ctx := context.Background()

	if home := r.Home(ctx, "en"); home == nil || home.Trending.Songs == nil {
		t.Error("Home must return a well-formed empty feed, not nil")
	}
	if res := r.Search(ctx, "q", 1); res == nil || res.Query != "q" || res.Songs == nil {
		t.Error("Search must return a well-formed empty result set")
	}
	if pls := r.Playlists(ctx); pls == nil {
		t.Error("Playlists must return an empty slice, not nil")
	}
	if menu := r.MegaMenu(ctx, "en"); menu == nil || menu.TopArtists == nil {
		t.Error("MegaMenu must return a well-formed empty menu")
	}
	if f := r.Footer(ctx); f == nil || f.Sections == nil {
		t.Error("Footer must return a well-formed empty footer")
	}
}

func TestProvidersListsConfiguredInOrder(t *testing.T) {
	r := newTestRouter(
		&fakeProvider{name: "a", configured: true},
		&fakeProvider{name: "b", configured: false},
		&fakeProvider{name: "c", configured: true},
	)
	names := r.Providers()
	if len(names) != 2 || names[0] != "a" || names[1] != "c" {
		t.Errorf("Providers() = %v, want [a c]", names)
	}
}
