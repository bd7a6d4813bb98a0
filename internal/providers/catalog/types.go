// Package catalog implements the default song-catalog API provider.
package catalog

import (
	"encoding/json"
	"strconv"
)

// The catalog API wraps every payload in a success envelope.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// flexInt decodes numbers the catalog serves either as JSON numbers or
// as quoted strings, which varies by endpoint version.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*f = flexInt(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

type imageResource struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

type urlResource struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

type songResource struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Subtitle        string          `json:"subtitle"`
	PrimaryArtists  string          `json:"primaryArtists"`
	Language        string          `json:"language"`
	Year            flexInt         `json:"year"`
	Duration        flexInt         `json:"duration"`
	ExplicitContent bool            `json:"explicitContent"`
	PlayCount       flexInt         `json:"playCount"`
	Album           albumRefResource `json:"album"`
	Image           []imageResource `json:"image"`
	DownloadURL     []urlResource   `json:"downloadUrl"`
}

type albumRefResource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type albumResource struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Subtitle  string          `json:"subtitle"`
	Artist    string          `json:"primaryArtists"`
	Year      flexInt         `json:"year"`
	SongCount flexInt         `json:"songCount"`
	Image     []imageResource `json:"image"`
	Songs     []songResource  `json:"songs"`
}

type artistResource struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Image    []imageResource `json:"image"`
	TopSongs []songResource  `json:"topSongs"`
	Albums   []albumResource `json:"topAlbums"`
}

type playlistResource struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Subtitle  string          `json:"subtitle"`
	SongCount flexInt         `json:"songCount"`
	Image     []imageResource `json:"image"`
	Songs     []songResource  `json:"songs"`
}

type homeResource struct {
	Trending struct {
		Songs  []songResource  `json:"songs"`
		Albums []albumResource `json:"albums"`
	} `json:"trending"`
	Albums    []albumResource    `json:"albums"`
	Playlists []playlistResource `json:"playlists"`
	Charts    []playlistResource `json:"charts"`
}

type searchSection[T any] struct {
	Results []T     `json:"results"`
	Total   flexInt `json:"total"`
}

type searchResource struct {
	Songs     searchSection[songResource]     `json:"songs"`
	Albums    searchSection[albumResource]    `json:"albums"`
	Artists   searchSection[artistResource]   `json:"artists"`
	Playlists searchSection[playlistResource] `json:"playlists"`
	LastPage  bool                            `json:"lastPage"`
}

type topSearchResource struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Type     string          `json:"type"`
	Subtitle string          `json:"subtitle"`
	Image    []imageResource `json:"image"`
}
