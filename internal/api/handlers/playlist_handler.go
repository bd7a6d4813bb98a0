// Package handlers contains HTTP handlers for the API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/services/playlist"
	"github.com/tuneport/backend/internal/services/system"
	"github.com/tuneport/backend/internal/utils"
)

// PlaylistHandler handles HTTP requests related to playlist operations.
type PlaylistHandler struct {
	playlistManager *playlist.Manager
	importer        *playlist.ImporterService
	metrics         *system.MetricsService
	logger          *utils.Logger
}

// NewPlaylistHandler creates a new playlist handler.
func NewPlaylistHandler(
	playlistManager *playlist.Manager,
	importer *playlist.ImporterService,
	metrics *system.MetricsService,
	logger *utils.Logger,
) *PlaylistHandler {
	return &PlaylistHandler{
		playlistManager: playlistManager,
		importer:        importer,
		metrics:         metrics,
		logger:          logger.Named("playlist_handler"),
	}
}

// GetPlaylists handles requests to get the user's playlists.
func (h *PlaylistHandler) GetPlaylists(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(w, r)
	if userID.IsZero() {
		return
	}

	playlists, err := h.playlistManager.GetUserPlaylists(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get playlists", err, "userId", userID.Hex())
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get playlists")
		return
	}

	infos := make([]models.PlaylistInfo, 0, len(playlists))
	for _, p := range playlists {
		infos = append(infos, p.ToPlaylistInfo())
	}

	utils.RespondWithJSON(w, http.StatusOK, infos)
}

// CreatePlaylist handles requests to create a new playlist.
func (h *PlaylistHandler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(w, r)
	if userID.IsZero() {
		return
	}

	var req models.PlaylistCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.Validate(req); err != nil {
		utils.RespondWithValidationError(w, err)
		return
	}

	created, err := h.playlistManager.CreatePlaylist(r.Context(), userID, req)
	if err != nil {
		h.respondPlaylistError(w, err, "Failed to create playlist")
		return
	}

	h.metrics.IncPlaylistsCreated()
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// GetPlaylist handles requests to get a playlist by ID.
func (h *PlaylistHandler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(w, r)
	if userID.IsZero() {
		return
	}

	playlistID, ok := h.playlistIDParam(w, r)
	if !ok {
		return
	}

	found, err := h.playlistManager.GetPlaylist(r.Context(), playlistID, userID)
	if err != nil {
		h.respondPlaylistError(w, err, "Failed to get playlist")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, found)
}

// UpdatePlaylist handles requests to update a playlist.
func (h *PlaylistHandler) UpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(w, r)
	if userID.IsZero() {
		return
	}

	playlistID, ok := h.playlistIDParam(w, r)
	if !ok {
		return
	}

	var req models.PlaylistUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.Validate(req); err != nil {
		utils.RespondWithValidationError(w, err)
		return
	}

	updated, err := h.playlistManager.UpdatePlaylist(r.Context(), playlistID, userID, req)
	if err != nil {
		h.respondPlaylistError(w, err, "Failed to update playlist")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DeletePlaylist handles requests to delete a playlist.
func (h *PlaylistHandler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(w, r)
	if userID.IsZero() {
		return
	}

	playlistID, ok := h.playlistIDParam(w, r)
	if !ok {
		return
	}

	if err := h.playlistManager.DeletePlaylist(r.Context(), playlistID, userID); err != nil {
		h.respondPlaylistError(w, err, "Failed to delete playlist")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Playlist deleted"})
}

// AddPlaylistItem handles requests to add a song to a playlist.
func (h *PlaylistHandler) AddPlaylistItem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(w, r)
	if userID.IsZero() {
		return
	}

	playlistID, ok := h.playlistIDParam(w, r)
	if !ok {
		return
	}

	var req models.PlaylistAddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.Validate(req); err != nil {
		utils.RespondWithValidationError(w, err)
		return
	}

	updated, err := h.playlistManager.AddItem(r.Context(), playlistID, userID, req)
	if err != nil {
		if errors.Is(err, models.ErrSongNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Song not found")
			return
		}
		h.respondPlaylistError(w, err, "Failed to add playlist item")
		return
	}

	h.metrics.IncPlaylistItemsAdded()
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// RemovePlaylistItem handles requests to remove a song from a playlist.
func (h *PlaylistHandler) RemovePlaylistItem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(w, r)
	if userID.IsZero() {
		return
	}

	playlistID, ok := h.playlistIDParam(w, r)
	if !ok {
		return
	}

	itemID, err := bson.ObjectIDFromHex(chi.URLParam(r, "itemId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	updated, err := h.playlistManager.RemoveItem(r.Context(), playlistID, userID, itemID)
	if err != nil {
		h.respondPlaylistError(w, err, "Failed to remove playlist item")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// MoveItemRequest is the payload for reordering a playlist item.
type MoveItemRequest struct {
	Position int `json:"position" validate:"min=0"`
}

// MovePlaylistItem handles requests to reorder a song within a playlist.
func (h *PlaylistHandler) MovePlaylistItem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(w, r)
	if userID.IsZero() {
		return
	}

	playlistID, ok := h.playlistIDParam(w, r)
	if !ok {
		return
	}

	itemID, err := bson.ObjectIDFromHex(chi.URLParam(r, "itemId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req MoveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.Validate(req); err != nil {
		utils.RespondWithValidationError(w, err)
		return
	}

	updated, err := h.playlistManager.MoveItem(r.Context(), playlistID, userID, itemID, req.Position)
	if err != nil {
		h.respondPlaylistError(w, err, "Failed to move playlist item")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// ImportPlaylist handles requests to copy a provider playlist into the
// user's library.
func (h *PlaylistHandler) ImportPlaylist(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(w, r)
	if userID.IsZero() {
		return
	}

	var req playlist.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.Validate(req); err != nil {
		utils.RespondWithValidationError(w, err)
		return
	}

	result, err := h.importer.ImportPlaylist(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, models.ErrPlaylistNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Source playlist not found")
			return
		}
		h.respondPlaylistError(w, err, "Failed to import playlist")
		return
	}

	h.metrics.IncPlaylistsImported()
	utils.RespondWithJSON(w, http.StatusCreated, result)
}

// playlistIDParam parses the {id} route parameter.
func (h *PlaylistHandler) playlistIDParam(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid playlist ID")
		return bson.NilObjectID, false
	}
	return id, true
}

// respondPlaylistError maps playlist service errors onto HTTP statuses.
func (h *PlaylistHandler) respondPlaylistError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrPlaylistNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Playlist not found")
	case errors.Is(err, models.ErrPlaylistItemNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Playlist item not found")
	default:
		var domainErr *models.DomainError
		if errors.As(err, &domainErr) {
			utils.RespondWithError(w, domainErr.Code, domainErr.Message)
			return
		}
		h.logger.Error(fallback, err)
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
