package psession

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestTokenIsCachedUntilExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	calls := 0
	s := New(func(ctx context.Context) (string, error) {
		calls++
		return fmt.Sprintf("token-%d", calls), nil
	}, time.Minute, WithClock(func() time.Time { return now }))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		tok, err := s.Token(ctx)
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if tok != "token-1" {
			t.Fatalf("Token() = %q, want cached token-1", tok)
		}
	}
	if calls != 1 {
		t.Fatalf("refresh called %d times, want 1", calls)
	}

	now = now.Add(time.Minute + time.Second)
	tok, err := s.Token(ctx)
	if err != nil {
		t.Fatalf("Token() after expiry error = %v", err)
	}
	if tok != "token-2" {
		t.Errorf("Token() after expiry = %q, want token-2", tok)
	}
}

func TestInvalidateForcesRefresh(t *testing.T) {
	calls := 0
	s := New(func(ctx context.Context) (string, error) {
		calls++
		return "t", nil
	}, time.Hour)

	ctx := context.Background()
	s.Token(ctx)
	s.Invalidate()
	s.Token(ctx)
	if calls != 2 {
		t.Errorf("refresh called %d times, want 2", calls)
	}
}

func TestRefreshErrorIsNotCached(t *testing.T) {
	fail := true
	s := New(func(ctx context.Context) (string, error) {
		if fail {
			return "", errors.New("down")
		}
		return "up", nil
	}, time.Hour)

	ctx := context.Background()
	if _, err := s.Token(ctx); err == nil {
		t.Fatal("expected refresh error")
	}

	fail = false
	tok, err := s.Token(ctx)
	if err != nil || tok != "up" {
		t.Errorf("Token() after recovery = %q, %v", tok, err)
	}
}
