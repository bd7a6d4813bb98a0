// Package api provides the HTTP API for the application.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tuneport/backend/internal/api/handlers"
	appMiddleware "github.com/tuneport/backend/internal/api/middleware"
	"github.com/tuneport/backend/internal/auth"
	"github.com/tuneport/backend/internal/config"
	"github.com/tuneport/backend/internal/db/redis"
	"github.com/tuneport/backend/internal/db/redis/managers"
	"github.com/tuneport/backend/internal/services/library"
	"github.com/tuneport/backend/internal/services/playlist"
	"github.com/tuneport/backend/internal/services/system"
	"github.com/tuneport/backend/internal/services/user"
	"github.com/tuneport/backend/internal/utils"
)

// Router is the main HTTP router for the API.
type Router struct {
	*chi.Mux
	logger *utils.Logger
}

// NewRouter creates a new API router.
func NewRouter(
	authProvider auth.Provider,
	sessionMgr *managers.SessionManager,
	rateLimiter *redis.RateLimiter,
	userManager *user.Manager,
	libraryManager *library.Manager,
	playlistManager *playlist.Manager,
	playlistImporter *playlist.ImporterService,
	healthService *system.HealthService,
	metricsService *system.MetricsService,
	cfg *config.Config,
	logger *utils.Logger,
) *Router {
	r := chi.NewRouter()
	apiLogger := logger.Named("api")

	// Create middleware
	recoveryMiddleware := appMiddleware.NewRecoveryMiddleware(apiLogger)
	loggerMiddleware := appMiddleware.NewLoggerMiddleware(apiLogger)
	corsMiddleware := appMiddleware.NewCORSMiddleware(appMiddleware.DefaultCORSConfig(), apiLogger)
	authMiddleware := appMiddleware.NewAuthMiddleware(authProvider, sessionMgr, apiLogger)
	metricsMiddleware := appMiddleware.NewMetricsMiddleware(metricsService)
	rateLimitMiddleware := appMiddleware.NewRateLimitMiddleware(rateLimiter, apiLogger)

	authLimits := redis.RateLimitAuth()
	apiLimits := redis.RateLimitAPI()

	// Create handlers
	authHandler := handlers.NewAuthHandler(userManager, authProvider, metricsService, apiLogger)
	userHandler := handlers.NewUserHandler(userManager, apiLogger)
	musicHandler := handlers.NewMusicHandler(libraryManager, metricsService, apiLogger)
	playlistHandler := handlers.NewPlaylistHandler(playlistManager, playlistImporter, metricsService, apiLogger)
	favoriteHandler := handlers.NewFavoriteHandler(libraryManager, metricsService, apiLogger)
	healthHandler := handlers.NewHealthHandler(apiLogger, healthService, cfg)

	// Apply global middleware
	r.Use(recoveryMiddleware.Recovery)
	r.Use(loggerMiddleware.Logger)
	r.Use(corsMiddleware.CORS)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(metricsMiddleware.Collect)

	// Public routes
	r.Group(func(r chi.Router) {
		// Health check and metrics
		r.Get("/health", healthHandler.Check)
		if cfg.Features.EnableMetrics {
			r.Handle("/metrics", metricsService.Handler())
		}

		// Auth routes
		r.Route("/auth", func(r chi.Router) {
			if cfg.Features.EnableRegistration {
				r.With(rateLimitMiddleware.Limit(authLimits["register"])).Post("/register", authHandler.Register)
			}
			r.With(rateLimitMiddleware.Limit(authLimits["login"])).Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		// Aggregated catalog routes: always answer with a well-formed
		// payload, falling back through the provider chain on failure.
		r.Route("/music", func(r chi.Router) {
			r.Get("/home", musicHandler.Home)
			r.Get("/songs/{id}", musicHandler.GetSong)
			r.Get("/albums/{id}", musicHandler.GetAlbum)
			r.Get("/artists/{id}", musicHandler.GetArtist)
			r.With(rateLimitMiddleware.Limit(apiLimits["catalog_search"])).Get("/search", musicHandler.Search)
			r.Get("/playlists", musicHandler.GetPlaylists)
			r.Get("/playlists/{id}", musicHandler.GetPlaylist)
			r.Get("/top-searches", musicHandler.TopSearches)
			r.Get("/providers", musicHandler.Providers)
		})

		// Navigation menus
		r.Route("/menus", func(r chi.Router) {
			r.Get("/mega", musicHandler.MegaMenu)
			r.Get("/footer", musicHandler.Footer)
		})
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		// User routes
		r.Route("/users", func(r chi.Router) {
			r.Get("/me", authHandler.Me)
			r.Put("/me", userHandler.UpdateUser)
			r.Put("/me/password", userHandler.ChangePassword)
			r.Post("/me/deactivate", userHandler.DeactivateUser)
			r.Delete("/me", userHandler.DeleteUser)
			r.Get("/{id}", userHandler.GetUser)
			r.Get("/by-username/{username}", userHandler.GetUserByUsername)
		})

		// Playlist routes
		r.Route("/playlists", func(r chi.Router) {
			r.Get("/", playlistHandler.GetPlaylists)
			r.Post("/", playlistHandler.CreatePlaylist)
			r.With(rateLimitMiddleware.Limit(apiLimits["playlist_import"])).Post("/import", playlistHandler.ImportPlaylist)
			r.Get("/{id}", playlistHandler.GetPlaylist)
			r.Put("/{id}", playlistHandler.UpdatePlaylist)
			r.Delete("/{id}", playlistHandler.DeletePlaylist)
			r.Post("/{id}/items", playlistHandler.AddPlaylistItem)
			r.Delete("/{id}/items/{itemId}", playlistHandler.RemovePlaylistItem)
			r.Put("/{id}/items/{itemId}/position", playlistHandler.MovePlaylistItem)
		})

		// Favorite routes
		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", favoriteHandler.List)
			r.Post("/", favoriteHandler.Add)
			r.Get("/{provider}/{songId}", favoriteHandler.Check)
			r.Delete("/{provider}/{songId}", favoriteHandler.Remove)
		})
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Use(authMiddleware.RequireRole("admin"))

		r.Route("/admin", func(r chi.Router) {
			r.Get("/health", healthHandler.DetailedCheck)
		})
	})

	return &Router{
		Mux:    r,
		logger: apiLogger,
	}
}
