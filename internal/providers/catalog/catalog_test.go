package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tuneport/backend/internal/utils"
)

func newTestAdapter(baseURL string) *Adapter {
	return New(Config{
		BaseURL:         baseURL,
		Timeout:         time.Second,
		DefaultLanguage: "english",
	}, utils.NewLogger())
}

func TestSongMapsCatalogFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/songs" || r.URL.Query().Get("id") != "abc" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"success":true,"data":[{
			"id":"abc","name":"One More Time","primaryArtists":"Daft Punk",
			"album":{"id":"alb1","name":"Discovery"},
			"duration":"320","year":2001,"playCount":"12345",
			"explicitContent":false,"language":"english",
			"image":[{"quality":"500x500","url":"http://img/500.jpg"}],
			"downloadUrl":[{"quality":"320kbps","url":"http://cdn/320.mp4"}]
		}]}`)
	}))
	defer srv.Close()

	song, err := newTestAdapter(srv.URL).Song(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Song() error = %v, catalog must never error", err)
	}
	if song.Name != "One More Time" || song.Artist != "Daft Punk" {
		t.Errorf("song = %q by %q", song.Name, song.Artist)
	}
	// Duration and play count arrive as quoted strings on some endpoint
	// versions and must still decode.
	if song.Duration != 320 {
		t.Errorf("duration = %d, want 320", song.Duration)
	}
	if song.PlayCount != 12345 {
		t.Errorf("play count = %d, want 12345", song.PlayCount)
	}
	if song.AlbumID != "alb1" || song.AlbumName != "Discovery" {
		t.Errorf("album ref = %q / %q", song.AlbumID, song.AlbumName)
	}
	if len(song.Images) != 1 || len(song.Streams) != 1 {
		t.Errorf("got %d images, %d streams", len(song.Images), len(song.Streams))
	}
}

func TestFailuresYieldEmptyShapes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success":true,"data":{not json`)
		}},
		{"api-level failure", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success":false,"data":null}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			a := newTestAdapter(srv.URL)
			ctx := context.Background()

			home, err := a.Home(ctx, "english")
			if err != nil {
				t.Errorf("Home() error = %v, want nil", err)
			}
			if home == nil || home.Trending.Songs == nil || home.Albums == nil {
				t.Error("Home() must return a well-formed empty feed")
			}

			song, err := a.Song(ctx, "x")
			if err != nil || song == nil || song.Streams == nil {
				t.Errorf("Song() = %v, %v; want empty song, nil error", song, err)
			}

			res, err := a.Search(ctx, "daft", 1)
			if err != nil || res == nil || res.Query != "daft" || res.Songs == nil {
				t.Errorf("Search() = %v, %v; want empty results, nil error", res, err)
			}

			pls, err := a.Playlists(ctx)
			if err != nil || pls == nil {
				t.Errorf("Playlists() = %v, %v; want empty slice, nil error", pls, err)
			}
		})
	}
}

func TestUnreachableCatalogYieldsEmptyShapes(t *testing.T) {
	// Point at a closed port so the transport itself fails.
	a := newTestAdapter("http://127.0.0.1:1")

	home, err := a.Home(context.Background(), "english")
	if err != nil {
		t.Errorf("Home() error = %v, want nil", err)
	}
	if home == nil || home.Playlists == nil {
		t.Error("Home() must return a well-formed empty feed")
	}
}

func TestSearchCountsComeFromSectionTotals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":{
			"songs":{"results":[{"id":"s1","name":"Hit"}],"total":42},
			"albums":{"results":[],"total":0},
			"artists":{"results":[],"total":"7"},
			"playlists":{"results":[],"total":0},
			"lastPage":false
		}}`)
	}))
	defer srv.Close()

	res, err := newTestAdapter(srv.URL).Search(context.Background(), "hit", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.SongCount != 42 || res.ArtistCount != 7 {
		t.Errorf("counts = %d songs, %d artists; want 42, 7", res.SongCount, res.ArtistCount)
	}
	if res.LastPage {
		t.Error("lastPage must pass through as false")
	}
}

func TestPlaylistOriginIsStamped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":{"id":"p1","name":"Weekly","songCount":"30"}}`)
	}))
	defer srv.Close()

	pl, err := newTestAdapter(srv.URL).Playlist(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Playlist() error = %v", err)
	}
	if pl.Origin != Name {
		t.Errorf("origin = %q, want %q", pl.Origin, Name)
	}
	if pl.SongCount != 30 {
		t.Errorf("song count = %d, want 30", pl.SongCount)
	}
}
