package playlist

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/providers"
	"github.com/tuneport/backend/internal/utils"
)

// fakePlaylistRepo is an in-memory PlaylistRepository for service tests.
type fakePlaylistRepo struct {
	playlists map[bson.ObjectID]*models.Playlist
	createErr error
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{playlists: make(map[bson.ObjectID]*models.Playlist)}
}

func (r *fakePlaylistRepo) Create(ctx context.Context, playlist *models.Playlist) error {
	if r.createErr != nil {
		return r.createErr
	}
	playlist.ID = bson.NewObjectID()
	r.playlists[playlist.ID] = playlist
	return nil
}

func (r *fakePlaylistRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Playlist, error) {
	playlist, ok := r.playlists[id]
	if !ok {
		return nil, models.ErrPlaylistNotFound
	}
	return playlist, nil
}

func (r *fakePlaylistRepo) FindUserPlaylists(ctx context.Context, userID bson.ObjectID) ([]*models.Playlist, error) {
	var out []*models.Playlist
	for _, p := range r.playlists {
		if p.Owner == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlaylistRepo) FindPublicPlaylists(ctx context.Context, skip, limit int) ([]*models.Playlist, error) {
	var out []*models.Playlist
	for _, p := range r.playlists {
		if !p.IsPrivate {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlaylistRepo) Update(ctx context.Context, playlist *models.Playlist) error {
	if _, ok := r.playlists[playlist.ID]; !ok {
		return models.ErrPlaylistNotFound
	}
	r.playlists[playlist.ID] = playlist
	return nil
}

func (r *fakePlaylistRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	if _, ok := r.playlists[id]; !ok {
		return models.ErrPlaylistNotFound
	}
	delete(r.playlists, id)
	return nil
}

func (r *fakePlaylistRepo) AddItem(ctx context.Context, playlistID bson.ObjectID, item models.PlaylistItem, position int) error {
	playlist, ok := r.playlists[playlistID]
	if !ok {
		return models.ErrPlaylistNotFound
	}
	if position < 0 || position >= len(playlist.Items) {
		item.Order = len(playlist.Items)
		playlist.Items = append(playlist.Items, item)
		return nil
	}
	item.Order = position
	playlist.Items = append(playlist.Items[:position],
		append([]models.PlaylistItem{item}, playlist.Items[position:]...)...)
	return nil
}

func (r *fakePlaylistRepo) RemoveItem(ctx context.Context, playlistID, itemID bson.ObjectID) error {
	playlist, ok := r.playlists[playlistID]
	if !ok {
		return models.ErrPlaylistNotFound
	}
	for i, item := range playlist.Items {
		if item.ID == itemID {
			playlist.Items = append(playlist.Items[:i], playlist.Items[i+1:]...)
			return nil
		}
	}
	return models.ErrPlaylistItemNotFound
}

func (r *fakePlaylistRepo) MoveItem(ctx context.Context, playlistID, itemID bson.ObjectID, newPosition int) error {
	playlist, ok := r.playlists[playlistID]
	if !ok {
		return models.ErrPlaylistNotFound
	}
	for i, item := range playlist.Items {
		if item.ID == itemID {
			playlist.Items = append(playlist.Items[:i], playlist.Items[i+1:]...)
			if newPosition > len(playlist.Items) {
				newPosition = len(playlist.Items)
			}
			playlist.Items = append(playlist.Items[:newPosition],
				append([]models.PlaylistItem{item}, playlist.Items[newPosition:]...)...)
			return nil
		}
	}
	return models.ErrPlaylistItemNotFound
}

func (r *fakePlaylistRepo) CountUserPlaylists(ctx context.Context, userID bson.ObjectID) (int64, error) {
	playlists, _ := r.FindUserPlaylists(ctx, userID)
	return int64(len(playlists)), nil
}

// stubProvider serves a fixed set of songs and provider playlists.
type stubProvider struct {
	songs     map[string]models.Song
	playlists map[string]models.ProviderPlaylist
}

func (s *stubProvider) Name() string     { return "stub" }
func (s *stubProvider) Configured() bool { return true }

func (s *stubProvider) Home(ctx context.Context, language string) (*models.HomeData, error) {
	return models.NewEmptyHomeData(), nil
}

func (s *stubProvider) Song(ctx context.Context, id string) (*models.Song, error) {
	song, ok := s.songs[id]
	if !ok {
		return nil, errors.New("song not found")
	}
	return &song, nil
}

func (s *stubProvider) Album(ctx context.Context, id string) (*models.Album, error) {
	return &models.Album{ID: id}, nil
}

func (s *stubProvider) Artist(ctx context.Context, id string) (*models.Artist, error) {
	return &models.Artist{ID: id}, nil
}

func (s *stubProvider) Search(ctx context.Context, query string, page int) (*models.SearchResults, error) {
	return models.NewEmptySearchResults(query), nil
}

func (s *stubProvider) Playlists(ctx context.Context) ([]models.ProviderPlaylist, error) {
	var out []models.ProviderPlaylist
	for _, p := range s.playlists {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProvider) Playlist(ctx context.Context, id string) (*models.ProviderPlaylist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return nil, errors.New("playlist not found")
	}
	return &playlist, nil
}

func (s *stubProvider) TopSearches(ctx context.Context) ([]models.TopSearch, error) {
	return []models.TopSearch{}, nil
}

func (s *stubProvider) MegaMenu(ctx context.Context, language string) (*models.MegaMenu, error) {
	return models.NewEmptyMegaMenu(), nil
}

func (s *stubProvider) Footer(ctx context.Context) (*models.Footer, error) {
	return models.NewEmptyFooter(), nil
}

func newTestManager(repo *fakePlaylistRepo, provider *stubProvider) *Manager {
	logger := utils.NewLogger()
	router := providers.NewRouter(logger, nil, provider)
	return NewManager(repo, router, logger)
}

func TestPrivatePlaylistHiddenFromOthers(t *testing.T) {
	repo := newFakePlaylistRepo()
	m := newTestManager(repo, &stubProvider{})
	ctx := context.Background()

	owner := bson.NewObjectID()
	stranger := bson.NewObjectID()

	created, err := m.CreatePlaylist(ctx, owner, models.PlaylistCreateRequest{
		Name:      "Late Night",
		IsPrivate: true,
	})
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}

	if _, err := m.GetPlaylist(ctx, created.ID, owner); err != nil {
		t.Errorf("owner cannot read own private playlist: %v", err)
	}

	if _, err := m.GetPlaylist(ctx, created.ID, stranger); !errors.Is(err, models.ErrPlaylistNotFound) {
		t.Errorf("stranger reading private playlist: got %v, want ErrPlaylistNotFound", err)
	}
}

func TestPublicPlaylistReadableByAnyone(t *testing.T) {
	repo := newFakePlaylistRepo()
	m := newTestManager(repo, &stubProvider{})
	ctx := context.Background()

	owner := bson.NewObjectID()
	created, err := m.CreatePlaylist(ctx, owner, models.PlaylistCreateRequest{Name: "Shared"})
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}

	got, err := m.GetPlaylist(ctx, created.ID, bson.NewObjectID())
	if err != nil {
		t.Fatalf("GetPlaylist: %v", err)
	}
	if got.Name != "Shared" {
		t.Errorf("playlist name = %q, want Shared", got.Name)
	}
}

func TestUpdateByNonOwnerReportsNotFound(t *testing.T) {
	repo := newFakePlaylistRepo()
	m := newTestManager(repo, &stubProvider{})
	ctx := context.Background()

	owner := bson.NewObjectID()
	created, err := m.CreatePlaylist(ctx, owner, models.PlaylistCreateRequest{Name: "Mine"})
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}

	_, err = m.UpdatePlaylist(ctx, created.ID, bson.NewObjectID(), models.PlaylistUpdateRequest{Name: "Stolen"})
	if !errors.Is(err, models.ErrPlaylistNotFound) {
		t.Errorf("update by non-owner: got %v, want ErrPlaylistNotFound", err)
	}
	if err := m.DeletePlaylist(ctx, created.ID, bson.NewObjectID()); !errors.Is(err, models.ErrPlaylistNotFound) {
		t.Errorf("delete by non-owner: got %v, want ErrPlaylistNotFound", err)
	}
}

func TestAddItemStoresSongSnapshot(t *testing.T) {
	repo := newFakePlaylistRepo()
	provider := &stubProvider{songs: map[string]models.Song{
		"s1": {ID: "s1", Name: "First Song"},
	}}
	m := newTestManager(repo, provider)
	ctx := context.Background()

	owner := bson.NewObjectID()
	created, err := m.CreatePlaylist(ctx, owner, models.PlaylistCreateRequest{Name: "Queue"})
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}

	updated, err := m.AddItem(ctx, created.ID, owner, models.PlaylistAddItemRequest{
		Provider: "stub",
		SongID:   "s1",
		Position: -1,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(updated.Items) != 1 {
		t.Fatalf("playlist has %d items, want 1", len(updated.Items))
	}
	item := updated.Items[0]
	if item.Song.Name != "First Song" {
		t.Errorf("stored song name = %q, want snapshot of provider song", item.Song.Name)
	}
	if item.ID.IsZero() {
		t.Error("item was stored without an id")
	}
}

func TestAddUnknownSongFails(t *testing.T) {
	repo := newFakePlaylistRepo()
	m := newTestManager(repo, &stubProvider{})
	ctx := context.Background()

	owner := bson.NewObjectID()
	created, err := m.CreatePlaylist(ctx, owner, models.PlaylistCreateRequest{Name: "Queue"})
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}

	_, err = m.AddItem(ctx, created.ID, owner, models.PlaylistAddItemRequest{
		Provider: "stub",
		SongID:   "missing",
		Position: -1,
	})
	if !errors.Is(err, models.ErrSongNotFound) {
		t.Errorf("AddItem with unknown song: got %v, want ErrSongNotFound", err)
	}
}

func TestMoveItemReorders(t *testing.T) {
	repo := newFakePlaylistRepo()
	provider := &stubProvider{songs: map[string]models.Song{
		"s1": {ID: "s1", Name: "One"},
		"s2": {ID: "s2", Name: "Two"},
	}}
	m := newTestManager(repo, provider)
	ctx := context.Background()

	owner := bson.NewObjectID()
	created, err := m.CreatePlaylist(ctx, owner, models.PlaylistCreateRequest{Name: "Queue"})
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}
	for _, id := range []string{"s1", "s2"} {
		if _, err := m.AddItem(ctx, created.ID, owner, models.PlaylistAddItemRequest{
			Provider: "stub", SongID: id, Position: -1,
		}); err != nil {
			t.Fatalf("AddItem(%s): %v", id, err)
		}
	}

	current, _ := m.GetPlaylist(ctx, created.ID, owner)
	updated, err := m.MoveItem(ctx, created.ID, owner, current.Items[1].ID, 0)
	if err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if updated.Items[0].Song.Name != "Two" {
		t.Errorf("first item after move = %q, want Two", updated.Items[0].Song.Name)
	}
}
