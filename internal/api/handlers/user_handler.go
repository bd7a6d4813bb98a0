// Package handlers contains HTTP handlers for the API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/services/user"
	"github.com/tuneport/backend/internal/utils"
)

// UserHandler handles HTTP requests related to user operations.
type UserHandler struct {
	userManager *user.Manager
	logger      *utils.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userManager *user.Manager, logger *utils.Logger) *UserHandler {
	return &UserHandler{
		userManager: userManager,
		logger:      logger.Named("user_handler"),
	}
}

// GetUser handles requests to get a user's public profile by ID.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	publicUser, err := h.userManager.GetPublicUserByID(r.Context(), idStr)
	if err != nil {
		h.respondUserError(w, err, "Failed to get user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, publicUser)
}

// GetUserByUsername handles requests to get a user's public profile by username.
func (h *UserHandler) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username is required")
		return
	}

	publicUser, err := h.userManager.GetPublicUserByUsername(r.Context(), username)
	if err != nil {
		h.respondUserError(w, err, "Failed to get user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, publicUser)
}

// UpdateUser handles requests to update the current user's profile.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.Validate(req); err != nil {
		utils.RespondWithValidationError(w, err)
		return
	}

	updated, err := h.userManager.UpdateUser(r.Context(), userIDStr, req)
	if err != nil {
		if errors.Is(err, models.ErrUsernameAlreadyExists) {
			utils.RespondWithError(w, http.StatusConflict, "Username already in use")
			return
		}
		h.respondUserError(w, err, "Failed to update user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated.ToPersonalUser())
}

// ChangePassword handles requests to change the current user's password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.UserPasswordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.Validate(req); err != nil {
		utils.RespondWithValidationError(w, err)
		return
	}

	if err := h.userManager.ChangePassword(r.Context(), userIDStr, req); err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		h.respondUserError(w, err, "Failed to change password")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Password changed, please log in again"})
}

// DeactivateUser handles requests to deactivate the current user's account.
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.userManager.DeactivateAccount(r.Context(), userIDStr); err != nil {
		h.respondUserError(w, err, "Failed to deactivate account")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Account deactivated"})
}

// DeleteUser handles requests to permanently delete the current user's account.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.userManager.DeleteAccount(r.Context(), userIDStr); err != nil {
		h.respondUserError(w, err, "Failed to delete account")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

// respondUserError maps user service errors onto HTTP statuses.
func (h *UserHandler) respondUserError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, models.ErrInvalidID):
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
	default:
		h.logger.Error(fallback, err)
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
