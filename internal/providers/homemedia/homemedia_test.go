package homemedia

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tuneport/backend/internal/providers"
	"github.com/tuneport/backend/internal/utils"
)

func newTestAdapter(baseURL string) *Adapter {
	return New(Config{
		BaseURL:         baseURL,
		Token:           "tok123",
		FallbackSection: "9",
		Timeout:         time.Second,
	}, utils.NewLogger())
}

const trackJSON = `{
	"ratingKey":"101","key":"/library/metadata/101","type":"track",
	"title":"Digital Love","parentTitle":"Discovery","grandparentTitle":"Daft Punk",
	"parentRatingKey":"42","index":3,"year":2001,"duration":185000,"viewCount":7,
	"thumb":"/library/metadata/101/thumb",
	"Media":[{"Part":[{"key":"/library/parts/555/file.mp3"}]}]
}`

func TestSongMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("X-Plex-Token") != "tok123" {
			t.Errorf("request %s missing auth token", r.URL.Path)
		}
		if r.URL.Path != "/library/metadata/101" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"MediaContainer":{"size":1,"Metadata":[%s]}}`, trackJSON)
	}))
	defer srv.Close()

	song, err := newTestAdapter(srv.URL).Song(context.Background(), "101")
	if err != nil {
		t.Fatalf("Song() error = %v", err)
	}

	if song.ID != "101" || song.Name != "Digital Love" {
		t.Errorf("song = %q (%q)", song.Name, song.ID)
	}
	if song.Artist != "Daft Punk" || song.AlbumName != "Discovery" || song.AlbumID != "42" {
		t.Errorf("hierarchy fields = %q / %q / %q", song.Artist, song.AlbumName, song.AlbumID)
	}
	// Millisecond durations divide down to whole seconds.
	if song.Duration != 185 {
		t.Errorf("duration = %d, want 185", song.Duration)
	}
	if song.TrackNumber != 3 || song.PlayCount != 7 {
		t.Errorf("track=%d playCount=%d", song.TrackNumber, song.PlayCount)
	}

	// Every URL handed to the browser carries the token.
	if len(song.Streams) != 1 || !strings.Contains(song.Streams[0].URL, "X-Plex-Token=tok123") {
		t.Errorf("stream URLs = %v, want token-suffixed", song.Streams)
	}
	if len(song.Images) != 1 || !strings.Contains(song.Images[0].URL, "X-Plex-Token=tok123") {
		t.Errorf("image URLs = %v, want token-suffixed", song.Images)
	}
}

func TestSectionDiscovery(t *testing.T) {
	var sectionRequests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/library/sections":
			fmt.Fprint(w, `{"MediaContainer":{"Directory":[
				{"key":"1","type":"movie","title":"Movies"},
				{"key":"5","type":"artist","title":"Music"}
			]}}`)
		case strings.HasPrefix(r.URL.Path, "/library/sections/"):
			sectionRequests = append(sectionRequests, r.URL.Path)
			fmt.Fprint(w, `{"MediaContainer":{"Metadata":[]}}`)
		case r.URL.Path == "/playlists":
			fmt.Fprint(w, `{"MediaContainer":{"Metadata":[]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	if _, err := newTestAdapter(srv.URL).Home(context.Background(), "en"); err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	for _, p := range sectionRequests {
		if !strings.HasPrefix(p, "/library/sections/5/") {
			t.Errorf("request went to %s, want the discovered music section 5", p)
		}
	}
}

func TestSectionDiscoveryFallback(t *testing.T) {
	var sectionRequests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/library/sections":
			w.WriteHeader(http.StatusInternalServerError)
		case strings.HasPrefix(r.URL.Path, "/library/sections/"):
			sectionRequests = append(sectionRequests, r.URL.Path)
			fmt.Fprint(w, `{"MediaContainer":{"Metadata":[]}}`)
		case r.URL.Path == "/playlists":
			fmt.Fprint(w, `{"MediaContainer":{"Metadata":[]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	if _, err := newTestAdapter(srv.URL).Home(context.Background(), "en"); err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	if len(sectionRequests) == 0 {
		t.Fatal("no section requests made")
	}
	for _, p := range sectionRequests {
		if !strings.HasPrefix(p, "/library/sections/9/") {
			t.Errorf("request went to %s, want the configured fallback section 9", p)
		}
	}
}

func TestErrorsPropagate(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, providers.ErrBadCredentials},
		{"missing", http.StatusNotFound, providers.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestAdapter(srv.URL).Song(context.Background(), "101")
			if !errors.Is(err, tt.want) {
				t.Errorf("Song() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEmptyMetadataIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"MediaContainer":{"size":0,"Metadata":[]}}`)
	}))
	defer srv.Close()

	_, err := newTestAdapter(srv.URL).Song(context.Background(), "101")
	if !errors.Is(err, providers.ErrNotFound) {
		t.Errorf("Song() error = %v, want ErrNotFound", err)
	}
}

func TestSearchPartitionsByType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"MediaContainer":{"Metadata":[
			%s,
			{"ratingKey":"42","type":"album","title":"Discovery","parentTitle":"Daft Punk"},
			{"ratingKey":"7","type":"artist","title":"Daft Punk"}
		]}}`, trackJSON)
	}))
	defer srv.Close()

	res, err := newTestAdapter(srv.URL).Search(context.Background(), "daft", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(res.Songs) != 1 || len(res.Albums) != 1 || len(res.Artists) != 1 {
		t.Errorf("partition = %d songs, %d albums, %d artists; want 1 of each",
			len(res.Songs), len(res.Albums), len(res.Artists))
	}
}

func TestTokenURLSeparator(t *testing.T) {
	a := newTestAdapter("http://nas.local:32400")
	if got := a.tokenURL("/thumb"); got != "http://nas.local:32400/thumb?X-Plex-Token=tok123" {
		t.Errorf("tokenURL = %q", got)
	}
	if got := a.tokenURL("/thumb?w=100"); got != "http://nas.local:32400/thumb?w=100&X-Plex-Token=tok123" {
		t.Errorf("tokenURL with query = %q", got)
	}
	if got := a.tokenURL(""); got != "" {
		t.Errorf("tokenURL(\"\") = %q, want empty", got)
	}
}
