// Package fileindex implements the file-server (NAS) provider.
package fileindex

// The file server wraps every JSON payload in a success envelope with a
// numeric error code on failure.
type apiError struct {
	Code int `json:"code"`
}

type loginResponse struct {
	Success bool `json:"success"`
	Data    struct {
		SID string `json:"sid"`
	} `json:"data"`
	Error apiError `json:"error"`
}

type listResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Files []fileEntry `json:"files"`
	} `json:"data"`
	Error apiError `json:"error"`
}

// fileEntry is one file or directory in a listing.
type fileEntry struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	IsDir bool   `json:"isdir"`

	Additional struct {
		Size int64 `json:"size"`
		Time struct {
			// Mtime is the modification time as a Unix timestamp.
			Mtime int64 `json:"mtime"`
		} `json:"time"`
	} `json:"additional"`
}

// Authentication error codes reported by the login endpoint.
const (
	codeBadCredentials  = 400
	codeTwoFactorNeeded = 403
	codeTwoFactorFailed = 404

	// codeSessionExpired is returned by data endpoints when the session
	// id is no longer valid.
	codeSessionExpired = 119
)

// audioExtensions are the file extensions treated as playable audio.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
	".wav":  true,
	".opus": true,
}
