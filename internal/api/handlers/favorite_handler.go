// Package handlers contains HTTP handlers for the API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/services/library"
	"github.com/tuneport/backend/internal/services/system"
	"github.com/tuneport/backend/internal/utils"
)

// FavoriteHandler handles favorite-song requests.
type FavoriteHandler struct {
	library *library.Manager
	metrics *system.MetricsService
	logger  *utils.Logger
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(libraryManager *library.Manager, metrics *system.MetricsService, logger *utils.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		library: libraryManager,
		metrics: metrics,
		logger:  logger.Named("favorite_handler"),
	}
}

// FavoriteListResponse is the paged favorites payload.
type FavoriteListResponse struct {
	Favorites []*models.Favorite `json:"favorites"`
	Total     int64              `json:"total"`
	Skip      int                `json:"skip"`
	Limit     int                `json:"limit"`
}

// List returns a page of the user's favorites, newest first.
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(w, r)
	if userID.IsZero() {
		return
	}

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 50)
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	favorites, total, err := h.library.ListFavorites(r.Context(), userID, skip, limit)
	if err != nil {
		h.logger.Error("Failed to list favorites", err, "userId", userID.Hex())
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list favorites")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, FavoriteListResponse{
		Favorites: favorites,
		Total:     total,
		Skip:      skip,
		Limit:     limit,
	})
}

// Add favorites a song for the user.
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(w, r)
	if userID.IsZero() {
		return
	}

	var req models.FavoriteAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.Validate(req); err != nil {
		utils.RespondWithValidationError(w, err)
		return
	}

	favorite, err := h.library.FavoriteSong(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSongNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Song not found")
		case errors.Is(err, models.ErrAlreadyFavorited):
			utils.RespondWithError(w, http.StatusConflict, "Song is already favorited")
		default:
			h.logger.Error("Failed to add favorite", err, "userId", userID.Hex(), "songId", req.SongID)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add favorite")
		}
		return
	}

	h.metrics.IncFavoritesAdded()
	utils.RespondWithJSON(w, http.StatusCreated, favorite)
}

// Remove unfavorites a song for the user.
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(w, r)
	if userID.IsZero() {
		return
	}

	provider := chi.URLParam(r, "provider")
	songID := chi.URLParam(r, "songId")
	if provider == "" || songID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Provider and song ID are required")
		return
	}

	if err := h.library.UnfavoriteSong(r.Context(), userID, provider, songID); err != nil {
		if errors.Is(err, models.ErrFavoriteNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Favorite not found")
			return
		}
		h.logger.Error("Failed to remove favorite", err, "userId", userID.Hex(), "songId", songID)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove favorite")
		return
	}

	h.metrics.IncFavoritesRemoved()
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Favorite removed"})
}

// Check reports whether the user has favorited the given song.
func (h *FavoriteHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(w, r)
	if userID.IsZero() {
		return
	}

	provider := chi.URLParam(r, "provider")
	songID := chi.URLParam(r, "songId")
	if provider == "" || songID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Provider and song ID are required")
		return
	}

	isFavorite, err := h.library.IsFavorite(r.Context(), userID, provider, songID)
	if err != nil {
		h.logger.Error("Failed to check favorite", err, "userId", userID.Hex(), "songId", songID)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check favorite")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"isFavorite": isFavorite})
}
