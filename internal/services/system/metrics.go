// Package system provides system-level services for monitoring and maintenance.
package system

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tuneport/backend/internal/utils"
)

// MetricsService provides application metrics collection functionality.
type MetricsService struct {
	logger *utils.Logger

	// HTTP metrics
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec
	httpRequestsInProgress *prometheus.GaugeVec

	// User metrics
	usersTotal        prometheus.Gauge
	userRegistrations prometheus.Counter
	userLogins        prometheus.Counter

	// Library metrics
	librarySearchesTotal prometheus.Counter
	songLookupsTotal     prometheus.Counter

	// Playlist and favorite metrics
	playlistsCreated  prometheus.Counter
	playlistsImported prometheus.Counter
	playlistItemsAdded prometheus.Counter
	favoritesAdded    prometheus.Counter
	favoritesRemoved  prometheus.Counter

	// System metrics
	systemMemoryUsage  prometheus.Gauge
	systemGoroutines   prometheus.Gauge
	databaseOperations *prometheus.CounterVec
	databaseErrors     *prometheus.CounterVec
	databaseLatency    *prometheus.HistogramVec
}

// NewMetricsService creates a new metrics service.
func NewMetricsService(logger *utils.Logger) *MetricsService {
	m := &MetricsService{
		logger: logger.Named("metrics_service"),
	}

	m.initHTTPMetrics()
	m.initUserMetrics()
	m.initLibraryMetrics()
	m.initSystemMetrics()

	return m
}

// Handler returns an HTTP handler for exposing metrics.
func (m *MetricsService) Handler() http.Handler {
	return promhttp.Handler()
}

// initHTTPMetrics initializes HTTP-related metrics.
func (m *MetricsService) initHTTPMetrics() {
	m.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuneport_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tuneport_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.httpRequestsInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tuneport_http_requests_in_progress",
			Help: "Number of HTTP requests currently in progress",
		},
		[]string{"method", "path"},
	)
}

// initUserMetrics initializes user-related metrics.
func (m *MetricsService) initUserMetrics() {
	m.usersTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tuneport_users_total",
			Help: "Total number of registered users",
		},
	)

	m.userRegistrations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tuneport_user_registrations_total",
			Help: "Total number of user registrations",
		},
	)

	m.userLogins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tuneport_user_logins_total",
			Help: "Total number of user logins",
		},
	)
}

// initLibraryMetrics initializes catalog and playlist metrics.
func (m *MetricsService) initLibraryMetrics() {
	m.librarySearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tuneport_library_searches_total",
			Help: "Total number of catalog searches",
		},
	)

	m.songLookupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tuneport_song_lookups_total",
			Help: "Total number of single-song lookups",
		},
	)

	m.playlistsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tuneport_playlists_created_total",
			Help: "Total number of playlists created",
		},
	)

	m.playlistsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tuneport_playlists_imported_total",
			Help: "Total number of playlists imported from providers",
		},
	)

	m.playlistItemsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tuneport_playlist_items_added_total",
			Help: "Total number of songs added to playlists",
		},
	)

	m.favoritesAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tuneport_favorites_added_total",
			Help: "Total number of songs favorited",
		},
	)

	m.favoritesRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tuneport_favorites_removed_total",
			Help: "Total number of songs unfavorited",
		},
	)
}

// initSystemMetrics initializes system-related metrics.
func (m *MetricsService) initSystemMetrics() {
	m.systemMemoryUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tuneport_system_memory_usage_bytes",
			Help: "Memory usage in bytes",
		},
	)

	m.systemGoroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tuneport_system_goroutines",
			Help: "Number of goroutines",
		},
	)

	m.databaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuneport_database_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"database", "operation"},
	)

	m.databaseErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuneport_database_errors_total",
			Help: "Total number of database errors",
		},
		[]string{"database", "operation"},
	)

	m.databaseLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tuneport_database_latency_seconds",
			Help:    "Database operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"database", "operation"},
	)
}

// ObserveHTTPRequest records metrics for an HTTP request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, http.StatusText(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncHTTPRequestsInProgress increments the in-progress HTTP requests counter.
func (m *MetricsService) IncHTTPRequestsInProgress(method, path string) {
	m.httpRequestsInProgress.WithLabelValues(method, path).Inc()
}

// DecHTTPRequestsInProgress decrements the in-progress HTTP requests counter.
func (m *MetricsService) DecHTTPRequestsInProgress(method, path string) {
	m.httpRequestsInProgress.WithLabelValues(method, path).Dec()
}

// SetUsersTotal sets the total number of registered users.
func (m *MetricsService) SetUsersTotal(count int64) {
	m.usersTotal.Set(float64(count))
}

// IncUserRegistrations increments the user registrations counter.
func (m *MetricsService) IncUserRegistrations() {
	m.userRegistrations.Inc()
}

// IncUserLogins increments the user logins counter.
func (m *MetricsService) IncUserLogins() {
	m.userLogins.Inc()
}

// IncLibrarySearches increments the catalog searches counter.
func (m *MetricsService) IncLibrarySearches() {
	m.librarySearchesTotal.Inc()
}

// IncSongLookups increments the single-song lookups counter.
func (m *MetricsService) IncSongLookups() {
	m.songLookupsTotal.Inc()
}

// IncPlaylistsCreated increments the playlists created counter.
func (m *MetricsService) IncPlaylistsCreated() {
	m.playlistsCreated.Inc()
}

// IncPlaylistsImported increments the playlists imported counter.
func (m *MetricsService) IncPlaylistsImported() {
	m.playlistsImported.Inc()
}

// IncPlaylistItemsAdded increments the playlist items added counter.
func (m *MetricsService) IncPlaylistItemsAdded() {
	m.playlistItemsAdded.Inc()
}

// IncFavoritesAdded increments the favorites added counter.
func (m *MetricsService) IncFavoritesAdded() {
	m.favoritesAdded.Inc()
}

// IncFavoritesRemoved increments the favorites removed counter.
func (m *MetricsService) IncFavoritesRemoved() {
	m.favoritesRemoved.Inc()
}

// SetSystemMemoryUsage sets the system memory usage.
func (m *MetricsService) SetSystemMemoryUsage(bytes uint64) {
	m.systemMemoryUsage.Set(float64(bytes))
}

// SetSystemGoroutines sets the number of goroutines.
func (m *MetricsService) SetSystemGoroutines(count int) {
	m.systemGoroutines.Set(float64(count))
}

// ObserveDatabaseOperation records metrics for a database operation.
func (m *MetricsService) ObserveDatabaseOperation(database, operation string, duration time.Duration, err error) {
	m.databaseOperations.WithLabelValues(database, operation).Inc()
	m.databaseLatency.WithLabelValues(database, operation).Observe(duration.Seconds())

	if err != nil {
		m.databaseErrors.WithLabelValues(database, operation).Inc()
	}
}
