package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tuneport/backend/internal/auth"
	"github.com/tuneport/backend/internal/db/redis/managers"
	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/utils"
)

// fakeSessionStore is an in-memory SessionStore for manager tests.
type fakeSessionStore struct {
	sessions   map[string]*managers.SessionData
	userTokens map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions:   make(map[string]*managers.SessionData),
		userTokens: make(map[string]string),
	}
}

func (s *fakeSessionStore) CreateSession(ctx context.Context, user *models.User, token, ip, userAgent string) (*managers.SessionData, error) {
	now := time.Now()
	session := &managers.SessionData{
		UserID:       user.ID,
		Username:     user.Username,
		Roles:        user.Roles,
		IP:           ip,
		UserAgent:    userAgent,
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Hour),
		LastActivity: now,
	}
	s.sessions[token] = session
	s.userTokens[user.ID.Hex()] = token
	return session, nil
}

func (s *fakeSessionStore) GetUserSession(ctx context.Context, userID bson.ObjectID) (*managers.SessionData, string, error) {
	token, ok := s.userTokens[userID.Hex()]
	if !ok {
		return nil, "", nil
	}
	return s.sessions[token], token, nil
}

func (s *fakeSessionStore) DestroySession(ctx context.Context, token string) error {
	if session, ok := s.sessions[token]; ok {
		delete(s.userTokens, session.UserID.Hex())
	}
	delete(s.sessions, token)
	return nil
}

func (s *fakeSessionStore) DestroyUserSessions(ctx context.Context, userID bson.ObjectID) error {
	token, ok := s.userTokens[userID.Hex()]
	if !ok {
		return nil
	}
	delete(s.sessions, token)
	delete(s.userTokens, userID.Hex())
	return nil
}

func (s *fakeSessionStore) RotateSession(ctx context.Context, oldToken, newToken string) (*managers.SessionData, error) {
	session, ok := s.sessions[oldToken]
	if !ok {
		return nil, managers.ErrSessionNotFound
	}
	now := time.Now()
	session.LastActivity = now
	session.ExpiresAt = now.Add(time.Hour)
	s.sessions[newToken] = session
	delete(s.sessions, oldToken)
	s.userTokens[session.UserID.Hex()] = newToken
	return session, nil
}

// stubAuthProvider overrides token refresh; the remaining Provider methods
// are not exercised by these tests.
type stubAuthProvider struct {
	auth.Provider
	refresh func(token string) (string, error)
}

func (p *stubAuthProvider) RefreshToken(token string) (string, error) {
	return p.refresh(token)
}

func TestRefreshTokenRotatesSession(t *testing.T) {
	store := newFakeSessionStore()
	provider := &stubAuthProvider{refresh: func(token string) (string, error) {
		return "token-2", nil
	}}
	mgr := NewManager(nil, store, provider, utils.NewLogger())

	user := &models.User{BaseUser: models.BaseUser{ID: bson.NewObjectID(), Username: "dax", Roles: []string{"user"}}}
	if _, err := store.CreateSession(context.Background(), user, "token-1", "10.0.0.1", "test"); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	newToken, err := mgr.RefreshToken(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if newToken != "token-2" {
		t.Fatalf("newToken = %q, want token-2", newToken)
	}

	if _, ok := store.sessions["token-1"]; ok {
		t.Error("session still reachable under the old token")
	}
	session, ok := store.sessions["token-2"]
	if !ok {
		t.Fatal("session not reachable under the new token")
	}
	if session.UserID != user.ID {
		t.Errorf("session userID = %s, want %s", session.UserID.Hex(), user.ID.Hex())
	}
	if store.userTokens[user.ID.Hex()] != "token-2" {
		t.Errorf("user token mapping = %q, want token-2", store.userTokens[user.ID.Hex()])
	}
}

func TestRefreshTokenWithoutSessionFails(t *testing.T) {
	store := newFakeSessionStore()
	provider := &stubAuthProvider{refresh: func(token string) (string, error) {
		return "token-2", nil
	}}
	mgr := NewManager(nil, store, provider, utils.NewLogger())

	_, err := mgr.RefreshToken(context.Background(), "token-1")
	if !errors.Is(err, managers.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestRefreshTokenInvalidTokenFails(t *testing.T) {
	store := newFakeSessionStore()
	provider := &stubAuthProvider{refresh: func(token string) (string, error) {
		return "", auth.ErrInvalidToken
	}}
	mgr := NewManager(nil, store, provider, utils.NewLogger())

	_, err := mgr.RefreshToken(context.Background(), "garbage")
	if !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
	if len(store.sessions) != 0 {
		t.Error("no session should have been written")
	}
}
