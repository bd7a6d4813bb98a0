// Package homemedia implements the home media server provider.
package homemedia

// The media server wraps every response in a MediaContainer.
type container struct {
	MediaContainer struct {
		Size      int         `json:"size"`
		Directory []directory `json:"Directory"`
		Metadata  []metadata  `json:"Metadata"`
	} `json:"MediaContainer"`
}

// directory describes one library section.
type directory struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// metadata is the server's uniform record for tracks, albums, artists
// and playlists; Type tells them apart.
type metadata struct {
	RatingKey        string `json:"ratingKey"`
	Key              string `json:"key"`
	Type             string `json:"type"`
	Title            string `json:"title"`
	ParentTitle      string `json:"parentTitle"`
	GrandparentTitle string `json:"grandparentTitle"`
	ParentRatingKey  string `json:"parentRatingKey"`
	Thumb            string `json:"thumb"`
	Art              string `json:"art"`
	Index            int    `json:"index"`
	Year             int    `json:"year"`

	// Duration is reported in milliseconds.
	Duration int64 `json:"duration"`

	ViewCount int64 `json:"viewCount"`
	LeafCount int   `json:"leafCount"`

	Media []media `json:"Media"`
}

type media struct {
	Part []part `json:"Part"`
}

type part struct {
	Key string `json:"key"`
}

// Metadata type codes used by listing endpoints.
const (
	typeCodeAlbum = 9
	typeCodeTrack = 10
)
