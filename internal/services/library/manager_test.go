package library

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/providers"
	"github.com/tuneport/backend/internal/utils"
)

// fakeFavoriteRepo is an in-memory FavoriteRepository for library tests.
type fakeFavoriteRepo struct {
	favorites []*models.Favorite
}

func (r *fakeFavoriteRepo) Add(ctx context.Context, favorite *models.Favorite) error {
	for _, f := range r.favorites {
		if f.UserID == favorite.UserID && f.Provider == favorite.Provider && f.SongID == favorite.SongID {
			return models.ErrAlreadyFavorited
		}
	}
	favorite.ID = bson.NewObjectID()
	r.favorites = append(r.favorites, favorite)
	return nil
}

func (r *fakeFavoriteRepo) Remove(ctx context.Context, userID bson.ObjectID, provider, songID string) error {
	for i, f := range r.favorites {
		if f.UserID == userID && f.Provider == provider && f.SongID == songID {
			r.favorites = append(r.favorites[:i], r.favorites[i+1:]...)
			return nil
		}
	}
	return models.ErrFavoriteNotFound
}

func (r *fakeFavoriteRepo) FindUserFavorites(ctx context.Context, userID bson.ObjectID, skip, limit int) ([]*models.Favorite, error) {
	var out []*models.Favorite
	for _, f := range r.favorites {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	if skip >= len(out) {
		return []*models.Favorite{}, nil
	}
	out = out[skip:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeFavoriteRepo) IsFavorite(ctx context.Context, userID bson.ObjectID, provider, songID string) (bool, error) {
	for _, f := range r.favorites {
		if f.UserID == userID && f.Provider == provider && f.SongID == songID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFavoriteRepo) CountUserFavorites(ctx context.Context, userID bson.ObjectID) (int64, error) {
	var n int64
	for _, f := range r.favorites {
		if f.UserID == userID {
			n++
		}
	}
	return n, nil
}

// songProvider serves a fixed song set and nothing else.
type songProvider struct {
	songs map[string]models.Song
}

func (p *songProvider) Name() string     { return "songs" }
func (p *songProvider) Configured() bool { return true }

func (p *songProvider) Home(ctx context.Context, language string) (*models.HomeData, error) {
	return models.NewEmptyHomeData(), nil
}

func (p *songProvider) Song(ctx context.Context, id string) (*models.Song, error) {
	song, ok := p.songs[id]
	if !ok {
		return nil, errors.New("song not found")
	}
	return &song, nil
}

func (p *songProvider) Album(ctx context.Context, id string) (*models.Album, error) {
	return &models.Album{ID: id}, nil
}

func (p *songProvider) Artist(ctx context.Context, id string) (*models.Artist, error) {
	return &models.Artist{ID: id}, nil
}

func (p *songProvider) Search(ctx context.Context, query string, page int) (*models.SearchResults, error) {
	return models.NewEmptySearchResults(query), nil
}

func (p *songProvider) Playlists(ctx context.Context) ([]models.ProviderPlaylist, error) {
	return []models.ProviderPlaylist{}, nil
}

func (p *songProvider) Playlist(ctx context.Context, id string) (*models.ProviderPlaylist, error) {
	return nil, errors.New("playlist not found")
}

func (p *songProvider) TopSearches(ctx context.Context) ([]models.TopSearch, error) {
	return []models.TopSearch{}, nil
}

func (p *songProvider) MegaMenu(ctx context.Context, language string) (*models.MegaMenu, error) {
	return models.NewEmptyMegaMenu(), nil
}

func (p *songProvider) Footer(ctx context.Context) (*models.Footer, error) {
	return models.NewEmptyFooter(), nil
}

func newTestManager(repo *fakeFavoriteRepo, provider *songProvider) *Manager {
	logger := utils.NewLogger()
	router := providers.NewRouter(logger, nil, provider)
	return NewManager(router, repo, logger)
}

func TestFavoriteSongStoresSnapshot(t *testing.T) {
	repo := &fakeFavoriteRepo{}
	m := newTestManager(repo, &songProvider{songs: map[string]models.Song{
		"s1": {ID: "s1", Name: "Kept Song"},
	}})
	ctx := context.Background()
	userID := bson.NewObjectID()

	favorite, err := m.FavoriteSong(ctx, userID, models.FavoriteAddRequest{Provider: "songs", SongID: "s1"})
	if err != nil {
		t.Fatalf("FavoriteSong: %v", err)
	}
	if favorite.Song.Name != "Kept Song" {
		t.Errorf("stored song name = %q, want provider snapshot", favorite.Song.Name)
	}

	ok, err := m.IsFavorite(ctx, userID, "songs", "s1")
	if err != nil || !ok {
		t.Errorf("IsFavorite = %v, %v, want true", ok, err)
	}
}

func TestFavoriteUnknownSongFails(t *testing.T) {
	repo := &fakeFavoriteRepo{}
	m := newTestManager(repo, &songProvider{})

	_, err := m.FavoriteSong(context.Background(), bson.NewObjectID(), models.FavoriteAddRequest{
		Provider: "songs",
		SongID:   "missing",
	})
	if !errors.Is(err, models.ErrSongNotFound) {
		t.Errorf("FavoriteSong: got %v, want ErrSongNotFound", err)
	}
	if len(repo.favorites) != 0 {
		t.Error("failed favorite must not be stored")
	}
}

func TestFavoriteTwiceConflicts(t *testing.T) {
	repo := &fakeFavoriteRepo{}
	m := newTestManager(repo, &songProvider{songs: map[string]models.Song{
		"s1": {ID: "s1", Name: "Once"},
	}})
	ctx := context.Background()
	userID := bson.NewObjectID()
	req := models.FavoriteAddRequest{Provider: "songs", SongID: "s1"}

	if _, err := m.FavoriteSong(ctx, userID, req); err != nil {
		t.Fatalf("first FavoriteSong: %v", err)
	}
	if _, err := m.FavoriteSong(ctx, userID, req); !errors.Is(err, models.ErrAlreadyFavorited) {
		t.Errorf("second FavoriteSong: got %v, want ErrAlreadyFavorited", err)
	}
}

func TestListFavoritesPaginates(t *testing.T) {
	repo := &fakeFavoriteRepo{}
	songs := map[string]models.Song{
		"s1": {ID: "s1"}, "s2": {ID: "s2"}, "s3": {ID: "s3"},
	}
	m := newTestManager(repo, &songProvider{songs: songs})
	ctx := context.Background()
	userID := bson.NewObjectID()

	for _, id := range []string{"s1", "s2", "s3"} {
		if _, err := m.FavoriteSong(ctx, userID, models.FavoriteAddRequest{Provider: "songs", SongID: id}); err != nil {
			t.Fatalf("FavoriteSong(%s): %v", id, err)
		}
	}

	page, total, err := m.ListFavorites(ctx, userID, 1, 2)
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(page) != 2 {
		t.Errorf("page size = %d, want 2", len(page))
	}
}

func TestUnfavoriteMissingSong(t *testing.T) {
	repo := &fakeFavoriteRepo{}
	m := newTestManager(repo, &songProvider{})

	err := m.UnfavoriteSong(context.Background(), bson.NewObjectID(), "songs", "never")
	if !errors.Is(err, models.ErrFavoriteNotFound) {
		t.Errorf("UnfavoriteSong: got %v, want ErrFavoriteNotFound", err)
	}
}
