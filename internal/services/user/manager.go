// Package user provides services for user management and operations.
package user

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tuneport/backend/internal/auth"
	"github.com/tuneport/backend/internal/db/mongo/repositories"
	"github.com/tuneport/backend/internal/db/redis/managers"
	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/utils"
)

// SessionStore is the session persistence surface the manager depends on.
// *managers.SessionManager implements it.
type SessionStore interface {
	CreateSession(ctx context.Context, user *models.User, token, ip, userAgent string) (*managers.SessionData, error)
	GetUserSession(ctx context.Context, userID bson.ObjectID) (*managers.SessionData, string, error)
	DestroySession(ctx context.Context, token string) error
	DestroyUserSessions(ctx context.Context, userID bson.ObjectID) error
	RotateSession(ctx context.Context, oldToken, newToken string) (*managers.SessionData, error)
}

// Manager provides user management functionality.
type Manager struct {
	userRepo     repositories.UserRepository
	sessionMgr   SessionStore
	authProvider auth.Provider
	logger       *utils.Logger
}

// NewManager creates a new user manager.
func NewManager(
	userRepo repositories.UserRepository,
	sessionMgr SessionStore,
	authProvider auth.Provider,
	logger *utils.Logger,
) *Manager {
	return &Manager{
		userRepo:     userRepo,
		sessionMgr:   sessionMgr,
		authProvider: authProvider,
		logger:       logger.Named("user_manager"),
	}
}

// Register creates a new user account.
func (m *Manager) Register(ctx context.Context, req models.UserRegisterRequest) (*models.User, string, error) {
	// Check if email already exists
	_, err := m.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, "", models.ErrEmailAlreadyExists
	} else if !errors.Is(err, models.ErrUserNotFound) {
		m.logger.Error("Error checking email existence", err, "email", req.Email)
		return nil, "", err
	}

	// Check if username already exists
	_, err = m.userRepo.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, "", models.ErrUsernameAlreadyExists
	} else if !errors.Is(err, models.ErrUserNotFound) {
		m.logger.Error("Error checking username existence", err, "username", req.Username)
		return nil, "", err
	}

	// Hash password
	hashedPassword, err := m.authProvider.HashPassword(req.Password)
	if err != nil {
		m.logger.Error("Failed to hash password", err)
		return nil, "", models.NewInternalError(err, "Failed to process password")
	}

	// Create user
	now := time.Now()
	user := &models.User{
		BaseUser: models.BaseUser{
			ID:       bson.NewObjectID(),
			Username: req.Username,
			Profile: models.UserProfile{
				JoinDate: now,
				Language: "english", // Default catalog language
			},
			Roles: []string{"user"}, // Default role
		},
		Email:     req.Email,
		Password:  hashedPassword,
		IsActive:  true,
		LastLogin: now,
		Settings: models.UserSettings{
			Theme:         "dark",
			Volume:        50,
			StreamQuality: "320kbps",
			Autoplay:      true,
		},
	}

	// Save user to database
	if err := m.userRepo.Create(ctx, user); err != nil {
		m.logger.Error("Failed to create user", err, "email", req.Email)
		return nil, "", err
	}

	// Generate JWT token
	token, err := m.authProvider.GenerateToken(user.ID.Hex(), user.Username, user.Roles)
	if err != nil {
		m.logger.Error("Failed to generate token", err, "userId", user.ID.Hex())
		return nil, "", models.NewInternalError(err, "Failed to generate authentication token")
	}

	// Create session
	_, err = m.sessionMgr.CreateSession(ctx, user, token, "unknown", "unknown") // IP and user agent not available here
	if err != nil {
		m.logger.Error("Failed to create session", err, "userId", user.ID.Hex())
		// Continue anyway, user can log in again
	}

	return user, token, nil
}

// Login authenticates a user and returns a JWT token.
func (m *Manager) Login(ctx context.Context, req models.UserLoginRequest) (*models.User, string, error) {
	// Find user by email
	user, err := m.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		m.logger.Error("Failed to find user by email", err, "email", req.Email)
		return nil, "", err
	}

	// Check if user is active
	if !user.IsActive {
		return nil, "", models.ErrAccountDisabled
	}

	// Verify password
	if !m.authProvider.VerifyPassword(req.Password, user.Password) {
		return nil, "", models.ErrInvalidCredentials
	}

	// Update last login
	if err := m.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		m.logger.Error("Failed to update last login", err, "userId", user.ID.Hex())
		// Continue anyway, not critical
	}

	// Generate JWT token
	token, err := m.authProvider.GenerateToken(user.ID.Hex(), user.Username, user.Roles)
	if err != nil {
		m.logger.Error("Failed to generate token", err, "userId", user.ID.Hex())
		return nil, "", models.NewInternalError(err, "Failed to generate authentication token")
	}

	// Create session
	_, err = m.sessionMgr.CreateSession(ctx, user, token, "unknown", "unknown") // IP and user agent not available here
	if err != nil {
		m.logger.Error("Failed to create session", err, "userId", user.ID.Hex())
		// Continue anyway, user can log in again
	}

	return user, token, nil
}

// Logout invalidates a user's session.
func (m *Manager) Logout(ctx context.Context, userID string) error {
	objectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return models.ErrInvalidID
	}

	// Get user session (we need the token to destroy the session)
	_, token, err := m.sessionMgr.GetUserSession(ctx, objectID)
	if err != nil {
		m.logger.Error("Failed to get user session", err, "userId", userID)
		return models.NewInternalError(err, "Failed to logout")
	}

	// Destroy session
	if err := m.sessionMgr.DestroySession(ctx, token); err != nil {
		m.logger.Error("Failed to destroy session", err, "userId", userID)
		return models.NewInternalError(err, "Failed to logout")
	}

	return nil
}

// RefreshToken issues a new access token for a valid session and moves the
// session to the new token. Sessions are keyed by token, so without the
// rotation the refreshed token would be rejected on the next request.
func (m *Manager) RefreshToken(ctx context.Context, token string) (string, error) {
	newToken, err := m.authProvider.RefreshToken(token)
	if err != nil {
		return "", err
	}

	if _, err := m.sessionMgr.RotateSession(ctx, token, newToken); err != nil {
		if errors.Is(err, managers.ErrSessionNotFound) {
			return "", err
		}
		m.logger.Error("Failed to rotate session", err)
		return "", models.NewInternalError(err, "Failed to refresh token")
	}

	return newToken, nil
}

// GetUserByID retrieves a user by their ID.
func (m *Manager) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	user, err := m.userRepo.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrUserNotFound
		}
		m.logger.Error("Failed to get user by ID", err, "userId", id)
		return nil, models.NewInternalError(err, "Failed to retrieve user")
	}

	return user, nil
}

// GetUserByUsername retrieves a user by their username.
func (m *Manager) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := m.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrUserNotFound
		}
		m.logger.Error("Failed to get user by username", err, "username", username)
		return nil, models.NewInternalError(err, "Failed to retrieve user")
	}

	return user, nil
}

// GetPublicUserByID retrieves a public user profile by ID.
func (m *Manager) GetPublicUserByID(ctx context.Context, id string) (*models.PublicUser, error) {
	user, err := m.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	publicUser := user.ToPublicUser()
	return &publicUser, nil
}

// GetPublicUserByUsername retrieves a public user profile by username.
func (m *Manager) GetPublicUserByUsername(ctx context.Context, username string) (*models.PublicUser, error) {
	user, err := m.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	publicUser := user.ToPublicUser()
	return &publicUser, nil
}

// UpdateUser updates a user's profile information.
func (m *Manager) UpdateUser(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error) {
	objectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	// Get current user
	user, err := m.userRepo.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrUserNotFound
		}
		m.logger.Error("Failed to get user for update", err, "userId", userID)
		return nil, models.NewInternalError(err, "Failed to retrieve user")
	}

	// Update username if provided
	if req.Username != "" && req.Username != user.Username {
		// Check if username already exists
		_, err = m.userRepo.FindByUsername(ctx, req.Username)
		if err == nil {
			return nil, models.ErrUsernameAlreadyExists
		} else if !errors.Is(err, models.ErrUserNotFound) {
			m.logger.Error("Error checking username existence", err, "username", req.Username)
			return nil, err
		}

		user.Username = utils.SanitizeUsername(req.Username)
	}

	// Update profile if provided
	if req.Profile != nil {
		// Preserve join date
		joinDate := user.Profile.JoinDate
		user.Profile = *req.Profile
		user.Profile.JoinDate = joinDate
		user.Profile.DisplayName = utils.SanitizeString(user.Profile.DisplayName)
	}

	// Update settings if provided
	if req.Settings != nil {
		user.Settings = *req.Settings
	}

	// Save changes
	if err := m.userRepo.Update(ctx, user); err != nil {
		m.logger.Error("Failed to update user", err, "userId", userID)
		return nil, err
	}

	return user, nil
}

// ChangePassword changes a user's password.
func (m *Manager) ChangePassword(ctx context.Context, userID string, req models.UserPasswordChangeRequest) error {
	objectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return models.ErrInvalidID
	}

	// Get current user
	user, err := m.userRepo.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.ErrUserNotFound
		}
		m.logger.Error("Failed to get user for password change", err, "userId", userID)
		return models.NewInternalError(err, "Failed to retrieve user")
	}

	// Verify current password
	if !m.authProvider.VerifyPassword(req.CurrentPassword, user.Password) {
		return models.ErrInvalidCredentials
	}

	// Hash new password
	hashedPassword, err := m.authProvider.HashPassword(req.NewPassword)
	if err != nil {
		m.logger.Error("Failed to hash new password", err, "userId", userID)
		return models.NewInternalError(err, "Failed to process password")
	}

	// Update password
	if err := m.userRepo.UpdatePassword(ctx, objectID, hashedPassword); err != nil {
		m.logger.Error("Failed to update password", err, "userId", userID)
		return err
	}

	// Invalidate all sessions
	if err := m.sessionMgr.DestroyUserSessions(ctx, objectID); err != nil {
		m.logger.Error("Failed to invalidate sessions after password change", err, "userId", userID)
		// Continue anyway, not critical
	}

	return nil
}

// DeactivateAccount deactivates a user's account.
func (m *Manager) DeactivateAccount(ctx context.Context, userID string) error {
	objectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return models.ErrInvalidID
	}

	// Set user as inactive
	if err := m.userRepo.SetActive(ctx, objectID, false); err != nil {
		m.logger.Error("Failed to deactivate account", err, "userId", userID)
		return err
	}

	// Invalidate all sessions
	if err := m.sessionMgr.DestroyUserSessions(ctx, objectID); err != nil {
		m.logger.Error("Failed to invalidate sessions after account deactivation", err, "userId", userID)
		// Continue anyway, not critical
	}

	return nil
}

// DeleteAccount permanently deletes a user's account.
func (m *Manager) DeleteAccount(ctx context.Context, userID string) error {
	objectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return models.ErrInvalidID
	}

	// Delete user
	if err := m.userRepo.Delete(ctx, objectID); err != nil {
		m.logger.Error("Failed to delete account", err, "userId", userID)
		return err
	}

	// Invalidate all sessions
	if err := m.sessionMgr.DestroyUserSessions(ctx, objectID); err != nil {
		m.logger.Error("Failed to invalidate sessions after account deletion", err, "userId", userID)
		// Continue anyway, not critical
	}

	return nil
}

// GetUserCount gets the total number of active users.
func (m *Manager) GetUserCount(ctx context.Context) (int64, error) {
	return m.userRepo.CountUsers(ctx, bson.M{"isActive": true})
}
