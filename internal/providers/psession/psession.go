// Package psession caches provider session tokens with a TTL. Both the
// home-media and file-index adapters keep one process-wide session; any
// caller may read or invalidate it, and the worst case of concurrent
// refreshes is a redundant re-authentication, which providers treat as
// idempotent.
package psession

import (
	"context"
	"sync"
	"time"
)

// RefreshFunc obtains a fresh token from the provider.
type RefreshFunc func(ctx context.Context) (string, error)

// Session is an injectable get-or-refresh token cache.
type Session struct {
	refresh RefreshFunc
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session cache. A non-positive ttl disables caching and
// makes every Token call refresh.
func New(refresh RefreshFunc, ttl time.Duration, opts ...Option) *Session {
	s := &Session{
		refresh: refresh,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns the cached token while it is fresh, refreshing otherwise.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expires) {
		return s.token, nil
	}

	token, err := s.refresh(ctx)
	if err != nil {
		s.token = ""
		return "", err
	}

	s.token = token
	s.expires = s.now().Add(s.ttl)
	return token, nil
}

// Invalidate drops the cached token so the next Token call refreshes.
// Safe to call at any time, including when the token was never set.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
