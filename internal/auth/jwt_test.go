package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tuneport/backend/internal/utils"
)

func newTestProvider(accessDuration time.Duration) *JWTProvider {
	return NewJWTProvider(JWTConfig{
		Secret:               "test-secret",
		Issuer:               "tuneport",
		Audience:             "tuneport-users",
		AccessTokenDuration:  accessDuration,
		RefreshTokenDuration: 24 * time.Hour,
	}, utils.NewLogger())
}

func TestGenerateAndValidateToken(t *testing.T) {
	p := newTestProvider(time.Hour)

	token, err := p.GenerateToken("user-1", "alice", []string{"user", "admin"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := p.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "alice" {
		t.Errorf("claims = %s/%s, want user-1/alice", claims.UserID, claims.Username)
	}
	if len(claims.Roles) != 2 {
		t.Errorf("roles = %v, want two roles", claims.Roles)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	p := newTestProvider(time.Hour)
	other := NewJWTProvider(JWTConfig{
		Secret:               "different-secret",
		Issuer:               "tuneport",
		Audience:             "tuneport-users",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
	}, utils.NewLogger())

	token, err := p.GenerateToken("user-1", "alice", nil)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken with wrong secret: got %v, want ErrInvalidToken", err)
	}
}

func TestValidateGarbageToken(t *testing.T) {
	p := newTestProvider(time.Hour)
	if _, err := p.ValidateToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken on garbage: got %v, want ErrInvalidToken", err)
	}
}

func TestExpiredTokenStillYieldsClaims(t *testing.T) {
	p := newTestProvider(-time.Hour)

	token, err := p.GenerateToken("user-1", "alice", []string{"user"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := p.ValidateToken(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("ValidateToken on expired token: got %v, want ErrExpiredToken", err)
	}
	if claims == nil || claims.UserID != "user-1" {
		t.Error("expired token must still surface its claims for refresh handling")
	}
}

func TestRoleChecks(t *testing.T) {
	p := newTestProvider(time.Hour)
	ctx := context.Background()

	token, err := p.GenerateToken("user-1", "alice", []string{"user", "moderator"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if !p.HasRole(ctx, token, "user") {
		t.Error("HasRole(user) = false, want true")
	}
	if p.HasRole(ctx, token, "admin") {
		t.Error("HasRole(admin) = true, want false")
	}
	if !p.HasAnyRole(ctx, token, "admin", "moderator") {
		t.Error("HasAnyRole(admin, moderator) = false, want true")
	}
	if p.HasAllRoles(ctx, token, "user", "admin") {
		t.Error("HasAllRoles(user, admin) = true, want false")
	}
	if !p.HasAllRoles(ctx, token, "user", "moderator") {
		t.Error("HasAllRoles(user, moderator) = false, want true")
	}
}

func TestRefreshTokenIssuesNewToken(t *testing.T) {
	p := newTestProvider(time.Hour)

	token, err := p.GenerateToken("user-1", "alice", []string{"user"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	refreshed, err := p.RefreshToken(token)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}

	claims, err := p.ValidateToken(refreshed)
	if err != nil {
		t.Fatalf("ValidateToken on refreshed token: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "alice" {
		t.Errorf("refreshed claims = %s/%s, want user-1/alice", claims.UserID, claims.Username)
	}
}
