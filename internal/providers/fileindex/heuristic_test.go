package fileindex

import "testing"

func TestGuessFromPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want guess
	}{
		{
			name: "artist and album folders with dashed name",
			path: "/music/Daft Punk/Discovery/Daft Punk - 03 - Digital Love.mp3",
			want: guess{Title: "Digital Love", Artist: "Daft Punk", Album: "Discovery", Track: 3},
		},
		{
			name: "leading track number without dashes",
			path: "/music/Daft Punk/Discovery/04 Superheroes.flac",
			want: guess{Title: "Superheroes", Artist: "Daft Punk", Album: "Discovery", Track: 4},
		},
		{
			name: "single dash separator",
			path: "/music/Queen/Greatest Hits/Queen - Bohemian Rhapsody.mp3",
			want: guess{Title: "Bohemian Rhapsody", Artist: "Queen", Album: "Greatest Hits"},
		},
		{
			name: "file directly under root",
			path: "/music/track.mp3",
			want: guess{Title: "track", Artist: "Unknown Artist", Album: "Unknown Album"},
		},
		{
			name: "album folder only",
			path: "/music/Mixtape/intro.ogg",
			want: guess{Title: "intro", Artist: "Unknown Artist", Album: "Mixtape"},
		},
		{
			name: "track number as first segment",
			path: "/music/Artist/Album/01 - Opener.m4a",
			want: guess{Title: "Opener", Artist: "Artist", Album: "Album", Track: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := guessFromPath("/music", tt.path)
			if got != tt.want {
				t.Errorf("guessFromPath(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseTrack(t *testing.T) {
	if n, ok := parseTrack(" 07 "); !ok || n != 7 {
		t.Errorf("parseTrack(\" 07 \") = %d, %t", n, ok)
	}
	if _, ok := parseTrack("1998 Remaster"); ok {
		t.Error("parseTrack should reject non-numeric segments")
	}
	if _, ok := parseTrack("1998"); ok {
		t.Error("parseTrack should reject values that look like years")
	}
	if _, ok := parseTrack("0"); ok {
		t.Error("parseTrack should reject zero")
	}
}
