// Package middleware contains HTTP middleware for the API.
package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/tuneport/backend/internal/db/redis"
	"github.com/tuneport/backend/internal/utils"
)

// RateLimitMiddleware applies Redis-backed rate limits to routes. Requests
// are keyed by client IP (RealIP middleware runs earlier in the chain).
type RateLimitMiddleware struct {
	limiter *redis.RateLimiter
	logger  *utils.Logger
}

// NewRateLimitMiddleware creates a new rate limit middleware.
func NewRateLimitMiddleware(limiter *redis.RateLimiter, logger *utils.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger.Named("ratelimit_middleware"),
	}
}

// Limit enforces the given rate limit on the wrapped handler. When the
// limiter itself errors the request is allowed through.
func (m *RateLimitMiddleware) Limit(limit redis.RateLimit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := m.limiter.Allow(r.Context(), limit, r.RemoteAddr)
			if err != nil {
				m.logger.Error("Rate limit check failed", err, "key", limit.Key)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

			if !result.Allowed {
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", result.RetryAfter.Seconds()))
				utils.RespondWithError(w, http.StatusTooManyRequests, "Too many requests, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
