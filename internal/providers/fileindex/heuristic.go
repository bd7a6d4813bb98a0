package fileindex

import (
	"path"
	"strconv"
	"strings"
)

const (
	unknownArtist = "Unknown Artist"
	unknownAlbum  = "Unknown Album"
)

// guess holds metadata inferred from a file path alone, before any tag
// data is available.
type guess struct {
	Title  string
	Artist string
	Album  string
	Track  int
}

// guessFromPath derives song metadata from the file's path relative to
// the library root. Directory structure is the primary signal: the
// parent folder names the album and the grandparent names the artist.
// The file name itself is split on " - " separators, with the last
// segment as the title and a leading or second-to-last numeric segment
// as the track number.
func guessFromPath(root, filePath string) guess {
	g := guess{Artist: unknownArtist, Album: unknownAlbum}

	rel := strings.TrimPrefix(filePath, strings.TrimSuffix(root, "/"))
	rel = strings.Trim(rel, "/")
	dirs := strings.Split(path.Dir(rel), "/")
	if len(dirs) >= 1 && dirs[0] != "." && dirs[len(dirs)-1] != "" {
		g.Album = dirs[len(dirs)-1]
	}
	if len(dirs) >= 2 && dirs[len(dirs)-2] != "" {
		g.Artist = dirs[len(dirs)-2]
	}

	base := path.Base(rel)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	g.Title = base

	segs := strings.Split(base, " - ")
	if len(segs) >= 2 {
		g.Title = strings.TrimSpace(segs[len(segs)-1])
		if n, ok := parseTrack(segs[len(segs)-2]); ok {
			g.Track = n
		} else if n, ok := parseTrack(segs[0]); ok {
			g.Track = n
		}
	} else if before, after, found := strings.Cut(base, " "); found {
		// "01 Title" style names with no dash separator.
		if n, ok := parseTrack(before); ok {
			g.Track = n
			g.Title = strings.TrimSpace(after)
		}
	}
	return g
}

func parseTrack(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 || n > 999 {
		return 0, false
	}
	return n, true
}
