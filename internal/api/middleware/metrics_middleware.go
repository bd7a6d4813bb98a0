// Package middleware contains HTTP middleware for the API.
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tuneport/backend/internal/services/system"
)

// MetricsMiddleware records request counters and latency histograms.
type MetricsMiddleware struct {
	metrics *system.MetricsService
}

// NewMetricsMiddleware creates a new metrics middleware.
func NewMetricsMiddleware(metrics *system.MetricsService) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: metrics}
}

// Collect wraps a handler with request metrics collection. The route
// pattern, not the raw URL, is used as the path label to keep cardinality
// bounded.
func (m *MetricsMiddleware) Collect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		m.metrics.IncHTTPRequestsInProgress(r.Method, r.URL.Path)
		defer m.metrics.DecHTTPRequestsInProgress(r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		m.metrics.ObserveHTTPRequest(r.Method, path, ww.Status(), time.Since(start))
	})
}
