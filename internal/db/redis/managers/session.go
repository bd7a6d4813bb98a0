// Package managers contains stateful Redis-backed managers built on the
// shared client.
package managers

import (
	"context"
	"errors"
	"time"

	r "github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tuneport/backend/internal/db/redis"
	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/utils"
)

const (
	// SessionKeyPrefix is the prefix for session keys
	SessionKeyPrefix = "session"

	// DefaultSessionExpiry is the default session expiration time
	DefaultSessionExpiry = 24 * time.Hour

	// TokenKeyPrefix is the prefix for token-to-session mappings
	TokenKeyPrefix = "token"
)

// ErrSessionNotFound is returned when no session exists for a token.
var ErrSessionNotFound = errors.New("session not found")

// SessionManager handles Redis operations for user sessions
type SessionManager struct {
	client *redis.Client
	expiry time.Duration
}

// SessionData represents a user session
type SessionData struct {
	// UserID is the ID of the user
	UserID bson.ObjectID `json:"userId"`

	// Username is the username of the user
	Username string `json:"username"`

	// Roles contains the user's roles
	Roles []string `json:"roles"`

	// IP is the user's IP address
	IP string `json:"ip"`

	// UserAgent is the user's browser/client information
	UserAgent string `json:"userAgent"`

	// CreatedAt is when the session was created
	CreatedAt time.Time `json:"createdAt"`

	// ExpiresAt is when the session expires
	ExpiresAt time.Time `json:"expiresAt"`

	// LastActivity is when the user was last active
	LastActivity time.Time `json:"lastActivity"`
}

// NewSessionManager creates a new session manager
func NewSessionManager(client *redis.Client, expiry time.Duration) *SessionManager {
	if expiry <= 0 {
		expiry = DefaultSessionExpiry
	}

	return &SessionManager{
		client: client,
		expiry: expiry,
	}
}

// CreateSession creates a new session for a user
func (m *SessionManager) CreateSession(ctx context.Context, user *models.User, token, ip, userAgent string) (*SessionData, error) {
	logger := m.client.Logger()

	now := time.Now()
	session := &SessionData{
		UserID:       user.ID,
		Username:     user.Username,
		Roles:        user.Roles,
		IP:           ip,
		UserAgent:    userAgent,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.expiry),
		LastActivity: now,
	}

	sessionKey := redis.FormatKey(SessionKeyPrefix, token)
	if err := m.client.SetObject(ctx, sessionKey, session, m.expiry); err != nil {
		logger.Error("Failed to store session in Redis", err, "userId", user.ID.Hex())
		return nil, err
	}

	// Store the token-to-session mapping so sessions can be found by user.
	tokenKey := redis.FormatKey(TokenKeyPrefix, user.ID.Hex())
	if err := m.client.Set(ctx, tokenKey, token, m.expiry); err != nil {
		logger.Error("Failed to store token mapping in Redis", err, "userId", user.ID.Hex())

		// Try to clean up session
		_ = m.client.Del(ctx, sessionKey)

		return nil, err
	}

	logger.Info("Created session", "userId", user.ID.Hex(), "token", utils.TruncateString(token, 8)+"...")
	return session, nil
}

// GetSession retrieves a session by token. A missing or expired session
// yields (nil, nil).
func (m *SessionManager) GetSession(ctx context.Context, token string) (*SessionData, error) {
	logger := m.client.Logger()

	sessionKey := redis.FormatKey(SessionKeyPrefix, token)

	var session SessionData
	err := m.client.GetObject(ctx, sessionKey, &session)
	if err != nil {
		if err == r.Nil {
			logger.Debug("Session not found", "token", utils.TruncateString(token, 8)+"...")
			return nil, nil
		}
		logger.Error("Failed to get session from Redis", err, "token", utils.TruncateString(token, 8)+"...")
		return nil, err
	}

	// The key TTL should handle expiry, but guard against clock drift in
	// the stored timestamps too.
	if time.Now().After(session.ExpiresAt) {
		logger.Debug("Session expired", "userId", session.UserID.Hex(), "token", utils.TruncateString(token, 8)+"...")
		_ = m.client.Del(ctx, sessionKey)
		return nil, nil
	}

	return &session, nil
}

// RotateSession moves a session from its current token to a freshly issued
// one and extends its lifetime. Called when an access token is refreshed,
// because sessions are keyed by token and the old token stops being
// presented after refresh.
func (m *SessionManager) RotateSession(ctx context.Context, oldToken, newToken string) (*SessionData, error) {
	logger := m.client.Logger()

	session, err := m.GetSession(ctx, oldToken)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	now := time.Now()
	session.LastActivity = now
	session.ExpiresAt = now.Add(m.expiry)

	newKey := redis.FormatKey(SessionKeyPrefix, newToken)
	if err := m.client.SetObject(ctx, newKey, session, m.expiry); err != nil {
		logger.Error("Failed to store rotated session in Redis", err, "userId", session.UserID.Hex())
		return nil, err
	}

	// Point the user's token mapping at the new token and drop the old
	// session key. Failures here leave a stale key that the TTL or the
	// maintenance sweep will collect.
	tokenKey := redis.FormatKey(TokenKeyPrefix, session.UserID.Hex())
	if err := m.client.Set(ctx, tokenKey, newToken, m.expiry); err != nil {
		logger.Error("Failed to update token mapping in Redis", err, "userId", session.UserID.Hex())
	}
	if err := m.client.Del(ctx, redis.FormatKey(SessionKeyPrefix, oldToken)); err != nil {
		logger.Error("Failed to remove rotated session key", err, "userId", session.UserID.Hex())
	}

	logger.Debug("Rotated session", "userId", session.UserID.Hex(), "token", utils.TruncateString(newToken, 8)+"...")
	return session, nil
}

// DestroySession removes a session
func (m *SessionManager) DestroySession(ctx context.Context, token string) error {
	logger := m.client.Logger()

	sessionKey := redis.FormatKey(SessionKeyPrefix, token)

	// Get session to find user ID
	var session SessionData
	err := m.client.GetObject(ctx, sessionKey, &session)
	if err != nil && err != r.Nil {
		logger.Error("Failed to get session for destruction", err, "token", utils.TruncateString(token, 8)+"...")
		return err
	}

	if err := m.client.Del(ctx, sessionKey); err != nil {
		logger.Error("Failed to destroy session in Redis", err, "token", utils.TruncateString(token, 8)+"...")
		return err
	}

	// If we have the user ID, also clean up token mapping
	if session.UserID != bson.NilObjectID {
		tokenKey := redis.FormatKey(TokenKeyPrefix, session.UserID.Hex())
		if err := m.client.Del(ctx, tokenKey); err != nil {
			logger.Error("Failed to remove token mapping", err, "userId", session.UserID.Hex())
		}

		logger.Info("Destroyed session", "userId", session.UserID.Hex(), "token", utils.TruncateString(token, 8)+"...")
	} else {
		logger.Info("Destroyed session", "token", utils.TruncateString(token, 8)+"...")
	}

	return nil
}

// DestroyUserSessions removes all sessions for a user
func (m *SessionManager) DestroyUserSessions(ctx context.Context, userID bson.ObjectID) error {
	logger := m.client.Logger()

	// Get token for user
	tokenKey := redis.FormatKey(TokenKeyPrefix, userID.Hex())
	token, err := m.client.Get(ctx, tokenKey)
	if err != nil {
		if err == r.Nil {
			// No sessions found
			return nil
		}
		logger.Error("Failed to get token for user sessions", err, "userId", userID.Hex())
		return err
	}
	if token == "" {
		return nil
	}

	sessionKey := redis.FormatKey(SessionKeyPrefix, token)
	if err := m.client.Del(ctx, sessionKey); err != nil {
		logger.Error("Failed to destroy user session", err, "userId", userID.Hex())
		return err
	}

	if err := m.client.Del(ctx, tokenKey); err != nil {
		logger.Error("Failed to remove token mapping", err, "userId", userID.Hex())
		return err
	}

	logger.Info("Destroyed all sessions for user", "userId", userID.Hex())
	return nil
}

// GetUserSession gets the current session for a user
func (m *SessionManager) GetUserSession(ctx context.Context, userID bson.ObjectID) (*SessionData, string, error) {
	logger := m.client.Logger()

	// Get token for user
	tokenKey := redis.FormatKey(TokenKeyPrefix, userID.Hex())
	token, err := m.client.Get(ctx, tokenKey)
	if err != nil {
		if err == r.Nil {
			// No session found
			return nil, "", nil
		}
		logger.Error("Failed to get token for user session", err, "userId", userID.Hex())
		return nil, "", err
	}
	if token == "" {
		return nil, "", nil
	}

	session, err := m.GetSession(ctx, token)
	if err != nil {
		return nil, "", err
	}

	return session, token, nil
}

// CleanupExpiredSessions removes expired sessions
// This is typically called by a background task
func (m *SessionManager) CleanupExpiredSessions(ctx context.Context) (int, error) {
	logger := m.client.Logger()

	// Redis evicts session keys by TTL; this sweep collects sessions whose
	// stored expiry passed before the key TTL fired.
	sessionKeys, err := m.client.Keys(ctx, redis.FormatKey(SessionKeyPrefix, "*"))
	if err != nil {
		logger.Error("Failed to get session keys for cleanup", err)
		return 0, err
	}

	cleanedCount := 0
	now := time.Now()

	for _, key := range sessionKeys {
		var session SessionData
		err := m.client.GetObject(ctx, key, &session)
		if err != nil {
			if err != r.Nil {
				logger.Error("Failed to get session for cleanup check", err, "key", key)
			}
			continue
		}

		if now.After(session.ExpiresAt) {
			// Extract token from key
			token := key[len(redis.FormatKey(SessionKeyPrefix, "")):]

			if err := m.DestroySession(ctx, token); err != nil {
				logger.Error("Failed to destroy expired session", err, "userId", session.UserID.Hex())
				continue
			}

			cleanedCount++
		}
	}

	logger.Info("Cleaned up expired sessions", "count", cleanedCount)
	return cleanedCount, nil
}
