// Package handlers contains HTTP handlers for the API.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuneport/backend/internal/services/library"
	"github.com/tuneport/backend/internal/services/system"
	"github.com/tuneport/backend/internal/utils"
)

// MusicHandler serves the aggregated music catalog. The provider chain
// behind the library manager guarantees a well-formed payload for each
// operation, so these handlers never return a provider error to the client.
type MusicHandler struct {
	library *library.Manager
	metrics *system.MetricsService
	logger  *utils.Logger
}

// NewMusicHandler creates a new music handler.
func NewMusicHandler(libraryManager *library.Manager, metrics *system.MetricsService, logger *utils.Logger) *MusicHandler {
	return &MusicHandler{
		library: libraryManager,
		metrics: metrics,
		logger:  logger.Named("music_handler"),
	}
}

// Home returns the home page modules.
func (h *MusicHandler) Home(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	utils.RespondWithJSON(w, http.StatusOK, h.library.Home(r.Context(), language))
}

// GetSong returns a single song.
func (h *MusicHandler) GetSong(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Song ID is required")
		return
	}

	h.metrics.IncSongLookups()
	utils.RespondWithJSON(w, http.StatusOK, h.library.Song(r.Context(), id))
}

// GetAlbum returns an album with its track list.
func (h *MusicHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Album ID is required")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, h.library.Album(r.Context(), id))
}

// GetArtist returns an artist with their discography.
func (h *MusicHandler) GetArtist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Artist ID is required")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, h.library.Artist(r.Context(), id))
}

// Search returns the parallel match collections for a query.
func (h *MusicHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := utils.SanitizeSearchQuery(r.URL.Query().Get("query"))
	if query == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}

	h.metrics.IncLibrarySearches()
	utils.RespondWithJSON(w, http.StatusOK, h.library.Search(r.Context(), query, page))
}

// GetPlaylists returns the provider-curated playlists.
func (h *MusicHandler) GetPlaylists(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, h.library.Playlists(r.Context()))
}

// GetPlaylist returns one provider-curated playlist with its songs.
func (h *MusicHandler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Playlist ID is required")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, h.library.Playlist(r.Context(), id))
}

// TopSearches returns the trending search entries.
func (h *MusicHandler) TopSearches(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, h.library.TopSearches(r.Context()))
}

// MegaMenu returns the navigation mega menu.
func (h *MusicHandler) MegaMenu(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	utils.RespondWithJSON(w, http.StatusOK, h.library.MegaMenu(r.Context(), language))
}

// Footer returns the footer link sections.
func (h *MusicHandler) Footer(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, h.library.Footer(r.Context()))
}

// Providers lists the configured providers in selection order.
func (h *MusicHandler) Providers(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string][]string{"providers": h.library.Providers()})
}
