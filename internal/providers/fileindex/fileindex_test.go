package fileindex

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tuneport/backend/internal/providers"
	"github.com/tuneport/backend/internal/providers/idcodec"
	"github.com/tuneport/backend/internal/utils"
)

// fakeFileServer emulates the file server web API: session login plus
// folder listing and ranged download.
type fakeFileServer struct {
	// tree maps folder paths to their entries.
	tree map[string][]fileEntry

	// content maps file paths to their raw bytes. Paths without content
	// serve garbage that no tag reader accepts.
	content map[string][]byte

	// loginCode, when non-zero, makes every login fail with that code.
	loginCode int

	logins    int
	downloads int
}

func (f *fakeFileServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("api") {
		case "SYNO.API.Auth":
			f.logins++
			if f.loginCode != 0 {
				fmt.Fprintf(w, `{"success":false,"error":{"code":%d}}`, f.loginCode)
				return
			}
			fmt.Fprint(w, `{"success":true,"data":{"sid":"test-sid"}}`)

		case "SYNO.FileStation.List":
			if r.URL.Query().Get("_sid") != "test-sid" {
				fmt.Fprintf(w, `{"success":false,"error":{"code":%d}}`, codeSessionExpired)
				return
			}
			entries, ok := f.tree[r.URL.Query().Get("folder_path")]
			if !ok {
				fmt.Fprint(w, `{"success":false,"error":{"code":408}}`)
				return
			}
			resp := listResponse{Success: true}
			resp.Data.Files = entries
			json.NewEncoder(w).Encode(resp)

		case "SYNO.FileStation.Download":
			f.downloads++
			if data, ok := f.content[r.URL.Query().Get("path")]; ok {
				w.WriteHeader(http.StatusPartialContent)
				w.Write(data)
				return
			}
			// Not a real audio file; tag parsing fails and the adapter
			// must fall back to filename heuristics.
			w.WriteHeader(http.StatusPartialContent)
			w.Write([]byte("not an audio file"))

		default:
			http.NotFound(w, r)
		}
	}
}

func dir(p, name string) fileEntry {
	e := fileEntry{Path: p, Name: name, IsDir: true}
	return e
}

func file(p, name string, mtime int64) fileEntry {
	e := fileEntry{Path: p, Name: name}
	e.Additional.Time.Mtime = mtime
	return e
}

func newTestAdapter(t *testing.T, srv *httptest.Server) *Adapter {
	t.Helper()
	return New(Config{
		BaseURL:         srv.URL,
		Account:         "music",
		Password:        "secret",
		RootPath:        "/music",
		SessionTTL:      time.Minute,
		Timeout:         2 * time.Second,
		TagParseLimit:   2,
		TagFetchBytes:   1024,
		ScanConcurrency: 2,
	}, utils.NewLogger())
}

func TestLoginErrors(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{"bad credentials", codeBadCredentials, providers.ErrBadCredentials},
		{"two factor required", codeTwoFactorNeeded, providers.ErrTwoFactorRequired},
		{"two factor failed", codeTwoFactorFailed, providers.ErrTwoFactorRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeFileServer{loginCode: tt.code}
			srv := httptest.NewServer(fake.handler())
			defer srv.Close()

			_, err := newTestAdapter(t, srv).Home(context.Background(), "en")
			if !errors.Is(err, tt.want) {
				t.Errorf("Home() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestScanGroupsLibrary(t *testing.T) {
	fake := &fakeFileServer{tree: map[string][]fileEntry{
		"/music": {
			dir("/music/Queen", "Queen"),
			dir("/music/@eaDir", "@eaDir"),
			file("/music/readme.txt", "readme.txt", 50),
		},
		"/music/Queen": {
			dir("/music/Queen/A Night at the Opera", "A Night at the Opera"),
		},
		"/music/Queen/A Night at the Opera": {
			file("/music/Queen/A Night at the Opera/11 - Bohemian Rhapsody.mp3", "11 - Bohemian Rhapsody.mp3", 300),
			file("/music/Queen/A Night at the Opera/01 - Death on Two Legs.mp3", "01 - Death on Two Legs.mp3", 200),
			file("/music/Queen/A Night at the Opera/cover.jpg", "cover.jpg", 400),
		},
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	a := newTestAdapter(t, srv)
	home, err := a.Home(context.Background(), "en")
	if err != nil {
		t.Fatalf("Home() error = %v", err)
	}

	if len(home.Trending.Songs) != 2 {
		t.Fatalf("got %d songs, want 2 (non-audio and system entries must be skipped)", len(home.Trending.Songs))
	}

	// Newest file first.
	first := home.Trending.Songs[0]
	if first.Name != "Bohemian Rhapsody" {
		t.Errorf("first song name = %q, want %q", first.Name, "Bohemian Rhapsody")
	}
	if first.Artist != "Queen" || first.AlbumName != "A Night at the Opera" {
		t.Errorf("folder-derived fields = %q / %q", first.Artist, first.AlbumName)
	}
	if first.TrackNumber != 11 {
		t.Errorf("track number = %d, want 11", first.TrackNumber)
	}
	if first.ID != idcodec.Encode("/music/Queen/A Night at the Opera/11 - Bohemian Rhapsody.mp3") {
		t.Errorf("song id is not the encoded file path: %q", first.ID)
	}
	if len(first.Streams) != 1 {
		t.Fatalf("got %d streams, want 1", len(first.Streams))
	}

	if len(home.Albums) != 1 {
		t.Fatalf("got %d albums, want 1", len(home.Albums))
	}
	alb := home.Albums[0]
	if alb.ID != idcodec.Encode("Queen-A Night at the Opera") {
		t.Errorf("album id is not the encoded artist-album key: %q", alb.ID)
	}
	if alb.SongCount != 2 {
		t.Errorf("album song count = %d, want 2", alb.SongCount)
	}
	// Album track list is ordered by track number even though the scan
	// orders songs by modification time.
	if alb.Songs[0].TrackNumber != 1 || alb.Songs[1].TrackNumber != 11 {
		t.Errorf("album track order = %d, %d", alb.Songs[0].TrackNumber, alb.Songs[1].TrackNumber)
	}

	if fake.logins != 1 {
		t.Errorf("login called %d times, want 1 (session must be cached)", fake.logins)
	}
}

func TestUnreadableSubfolderIsIsolated(t *testing.T) {
	fake := &fakeFileServer{tree: map[string][]fileEntry{
		"/music": {
			dir("/music/Good", "Good"),
			dir("/music/Broken", "Broken"),
		},
		"/music/Good": {
			file("/music/Good/song.mp3", "song.mp3", 100),
		},
		// "/music/Broken" is missing, so listing it fails.
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	home, err := newTestAdapter(t, srv).Home(context.Background(), "en")
	if err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	if len(home.Trending.Songs) != 1 {
		t.Errorf("got %d songs, want 1 from the readable folder", len(home.Trending.Songs))
	}
}

func TestArtistLookup(t *testing.T) {
	fake := &fakeFileServer{tree: map[string][]fileEntry{
		"/music": {dir("/music/Nina Simone", "Nina Simone")},
		"/music/Nina Simone": {
			dir("/music/Nina Simone/Pastel Blues", "Pastel Blues"),
		},
		"/music/Nina Simone/Pastel Blues": {
			file("/music/Nina Simone/Pastel Blues/01 - Be My Husband.flac", "01 - Be My Husband.flac", 10),
		},
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	a := newTestAdapter(t, srv)
	art, err := a.Artist(context.Background(), idcodec.Encode("Nina Simone"))
	if err != nil {
		t.Fatalf("Artist() error = %v", err)
	}
	if art.Name != "Nina Simone" || len(art.Albums) != 1 || len(art.TopSongs) != 1 {
		t.Errorf("artist = %q with %d albums, %d songs", art.Name, len(art.Albums), len(art.TopSongs))
	}

	if _, err := a.Artist(context.Background(), idcodec.Encode("Nobody")); !errors.Is(err, providers.ErrNotFound) {
		t.Errorf("unknown artist error = %v, want ErrNotFound", err)
	}
}

// id3v2 builds a minimal ID3v2.3 tag holding the given text frames.
func id3v2(frames ...[2]string) []byte {
	var body []byte
	for _, f := range frames {
		payload := append([]byte{0}, f[1]...) // ISO-8859-1 text
		header := make([]byte, 10)
		copy(header, f[0])
		binary.BigEndian.PutUint32(header[4:8], uint32(len(payload)))
		body = append(body, header...)
		body = append(body, payload...)
	}

	tag := make([]byte, 10, 10+len(body))
	copy(tag, "ID3")
	tag[3] = 3
	// Tag size is stored as four 7-bit bytes.
	size := len(body)
	tag[6] = byte(size >> 21 & 0x7f)
	tag[7] = byte(size >> 14 & 0x7f)
	tag[8] = byte(size >> 7 & 0x7f)
	tag[9] = byte(size & 0x7f)
	return append(tag, body...)
}

func TestTagEnrichmentCappedToNewest(t *testing.T) {
	tagged := id3v2(
		[2]string{"TIT2", "Golden Brown"},
		[2]string{"TPE1", "The Stranglers"},
		[2]string{"TALB", "La Folie"},
		[2]string{"TRCK", "3"},
		[2]string{"TYER", "1981"},
	)
	fake := &fakeFileServer{
		tree: map[string][]fileEntry{
			"/music": {dir("/music/Mix", "Mix")},
			"/music/Mix": {
				file("/music/Mix/a.mp3", "a.mp3", 300),
				file("/music/Mix/b.mp3", "b.mp3", 200),
				file("/music/Mix/c.mp3", "c.mp3", 100),
			},
		},
		content: map[string][]byte{
			"/music/Mix/a.mp3": tagged,
			"/music/Mix/b.mp3": tagged,
			"/music/Mix/c.mp3": tagged,
		},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	home, err := newTestAdapter(t, srv).Home(context.Background(), "en")
	if err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	if len(home.Trending.Songs) != 3 {
		t.Fatalf("got %d songs, want 3", len(home.Trending.Songs))
	}

	// The two newest files fall inside the parse cap and carry tag data.
	first := home.Trending.Songs[0]
	if first.Name != "Golden Brown" {
		t.Errorf("first song name = %q, want the tag title", first.Name)
	}
	if first.TrackNumber != 3 || first.Year != 1981 {
		t.Errorf("first song track/year = %d/%d, want 3/1981", first.TrackNumber, first.Year)
	}
	if first.Artist != "The Stranglers" {
		t.Errorf("first song artist = %q, want the tag artist to fill the unknown slot", first.Artist)
	}
	if first.AlbumName != "Mix" {
		t.Errorf("first song album = %q, want the folder-derived album kept", first.AlbumName)
	}

	// The oldest file is past the cap and keeps heuristic metadata even
	// though its bytes are perfectly parseable.
	last := home.Trending.Songs[2]
	if last.Name != "c" || last.Year != 0 || last.Artist != unknownArtist {
		t.Errorf("capped song = %q / %q / %d, want heuristic-only metadata", last.Name, last.Artist, last.Year)
	}

	if fake.downloads != 2 {
		t.Errorf("downloaded %d file heads, want 2 (the parse cap)", fake.downloads)
	}
}

func TestSongAcceptsLiteralPathID(t *testing.T) {
	fake := &fakeFileServer{tree: map[string][]fileEntry{
		"/music/Somewhere": {
			file("/music/Somewhere/song.mp3", "song.mp3", 100),
		},
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	// A raw file path is not valid base64, but it must still resolve.
	s, err := newTestAdapter(t, srv).Song(context.Background(), "/music/Somewhere/song.mp3")
	if err != nil {
		t.Fatalf("Song() error = %v", err)
	}
	if s.ID != idcodec.Encode("/music/Somewhere/song.mp3") {
		t.Errorf("song id = %q, want the encoded file path", s.ID)
	}
	if s.Name != "song" {
		t.Errorf("song name = %q, want %q", s.Name, "song")
	}
}

func TestSongNotFound(t *testing.T) {
	fake := &fakeFileServer{tree: map[string][]fileEntry{
		"/music/Somewhere": {},
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	a := newTestAdapter(t, srv)
	_, err := a.Song(context.Background(), idcodec.Encode("/music/Somewhere/gone.mp3"))
	if !errors.Is(err, providers.ErrNotFound) {
		t.Errorf("Song() error = %v, want ErrNotFound", err)
	}
}

func TestSearchMatchesAllFields(t *testing.T) {
	fake := &fakeFileServer{tree: map[string][]fileEntry{
		"/music": {dir("/music/Kraftwerk", "Kraftwerk")},
		"/music/Kraftwerk": {
			dir("/music/Kraftwerk/Autobahn", "Autobahn"),
		},
		"/music/Kraftwerk/Autobahn": {
			file("/music/Kraftwerk/Autobahn/01 - Autobahn.mp3", "01 - Autobahn.mp3", 10),
		},
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	a := newTestAdapter(t, srv)
	res, err := a.Search(context.Background(), "kraft", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.SongCount != 1 || res.AlbumCount != 1 || res.ArtistCount != 1 {
		t.Errorf("counts = %d songs, %d albums, %d artists; want 1 of each",
			res.SongCount, res.AlbumCount, res.ArtistCount)
	}
	if !res.LastPage {
		t.Error("file tree search must always report the last page")
	}
}
