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

func newTestImporter(repo *fakePlaylistRepo, provider *stubProvider) *ImporterService {
	logger := utils.NewLogger()
	router := providers.NewRouter(logger, nil, provider)
	return NewImporterService(repo, router, logger)
}

func TestImportCopiesProviderPlaylist(t *testing.T) {
	repo := newFakePlaylistRepo()
	provider := &stubProvider{playlists: map[string]models.ProviderPlaylist{
		"pl1": {
			ID:     "pl1",
			Name:   "Morning Mix",
			Origin: "stub",
			Images: []models.ImageVariant{
				{Quality: "150x150", URL: "http://img/150.jpg"},
				{Quality: "500x500", URL: "http://img/500.jpg"},
			},
			Songs: []models.Song{
				{ID: "s1", Name: "One"},
				{ID: "s2", Name: "Two"},
			},
		},
	}}
	importer := newTestImporter(repo, provider)

	owner := bson.NewObjectID()
	result, err := importer.ImportPlaylist(context.Background(), owner, ImportRequest{SourceID: "pl1"})
	if err != nil {
		t.Fatalf("ImportPlaylist: %v", err)
	}

	if result.Status != ImportStatusCompleted {
		t.Errorf("status = %q, want completed", result.Status)
	}
	if result.ItemCount != 2 || result.SkippedCount != 0 {
		t.Errorf("counts = %d/%d, want 2 imported and 0 skipped", result.ItemCount, result.SkippedCount)
	}
	if result.Playlist.Name != "Morning Mix" {
		t.Errorf("playlist name = %q, want source name", result.Playlist.Name)
	}
	if result.Playlist.Owner != owner {
		t.Error("imported playlist not owned by the requesting user")
	}
	if result.Playlist.CoverImage != "http://img/500.jpg" {
		t.Errorf("cover image = %q, want largest source image", result.Playlist.CoverImage)
	}
	for i, item := range result.Playlist.Items {
		if item.Provider != "stub" {
			t.Errorf("item %d provider = %q, want source origin", i, item.Provider)
		}
		if item.Order != i {
			t.Errorf("item %d order = %d, want insertion order preserved", i, item.Order)
		}
	}
}

func TestImportSkipsSongsWithoutID(t *testing.T) {
	repo := newFakePlaylistRepo()
	provider := &stubProvider{playlists: map[string]models.ProviderPlaylist{
		"pl1": {
			ID:     "pl1",
			Name:   "Patchy",
			Origin: "stub",
			Songs: []models.Song{
				{ID: "s1", Name: "Kept"},
				{Name: "No ID"},
				{ID: "s3", Name: "Also Kept"},
			},
		},
	}}
	importer := newTestImporter(repo, provider)

	result, err := importer.ImportPlaylist(context.Background(), bson.NewObjectID(), ImportRequest{SourceID: "pl1"})
	if err != nil {
		t.Fatalf("ImportPlaylist: %v", err)
	}
	if result.ItemCount != 2 || result.SkippedCount != 1 {
		t.Errorf("counts = %d/%d, want 2 imported and 1 skipped", result.ItemCount, result.SkippedCount)
	}
	if result.Playlist.Items[1].Order != 1 {
		t.Errorf("second kept item order = %d, want gaps closed", result.Playlist.Items[1].Order)
	}
}

func TestImportNameOverride(t *testing.T) {
	repo := newFakePlaylistRepo()
	provider := &stubProvider{playlists: map[string]models.ProviderPlaylist{
		"pl1": {ID: "pl1", Name: "Provider Name", Origin: "stub"},
	}}
	importer := newTestImporter(repo, provider)

	result, err := importer.ImportPlaylist(context.Background(), bson.NewObjectID(), ImportRequest{
		SourceID:  "pl1",
		Name:      "My Copy",
		IsPrivate: true,
	})
	if err != nil {
		t.Fatalf("ImportPlaylist: %v", err)
	}
	if result.Playlist.Name != "My Copy" {
		t.Errorf("playlist name = %q, want override", result.Playlist.Name)
	}
	if !result.Playlist.IsPrivate {
		t.Error("imported playlist should be private")
	}
}

func TestImportUnknownSourceFails(t *testing.T) {
	repo := newFakePlaylistRepo()
	importer := newTestImporter(repo, &stubProvider{})

	result, err := importer.ImportPlaylist(context.Background(), bson.NewObjectID(), ImportRequest{SourceID: "missing"})
	if !errors.Is(err, models.ErrPlaylistNotFound) {
		t.Fatalf("ImportPlaylist: got %v, want ErrPlaylistNotFound", err)
	}
	if result.Status != ImportStatusFailed {
		t.Errorf("status = %q, want failed", result.Status)
	}
	if len(repo.playlists) != 0 {
		t.Error("failed import must not store a playlist")
	}
}
