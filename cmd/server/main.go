package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/tuneport/backend/internal/api"
	"github.com/tuneport/backend/internal/auth"
	"github.com/tuneport/backend/internal/config"
	"github.com/tuneport/backend/internal/db/mongo"
	"github.com/tuneport/backend/internal/db/mongo/repositories"
	"github.com/tuneport/backend/internal/db/redis"
	"github.com/tuneport/backend/internal/db/redis/managers"
	"github.com/tuneport/backend/internal/providers"
	"github.com/tuneport/backend/internal/providers/catalog"
	"github.com/tuneport/backend/internal/providers/fileindex"
	"github.com/tuneport/backend/internal/providers/homemedia"
	"github.com/tuneport/backend/internal/services/library"
	"github.com/tuneport/backend/internal/services/playlist"
	"github.com/tuneport/backend/internal/services/system"
	"github.com/tuneport/backend/internal/services/user"
	"github.com/tuneport/backend/internal/utils"
)

// CombinedAuthProvider combines JWT and password providers to implement the full auth.Provider interface
type CombinedAuthProvider struct {
	*auth.JWTProvider
	*auth.PasswordProvider
}

// convert logger level to zapcore.Level
func hLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	case "panic":
		return zapcore.PanicLevel
	default:
		return zapcore.InfoLevel
	}
}

func main() {
	// Create a context that will be canceled on interrupt signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("Received shutdown signal")
		cancel()
	}()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	loggerOptions := utils.LoggerOptions{
		Development: cfg.Environment == "development",
		Level:       hLevel(cfg.Logging.Level),
		OutputPaths: cfg.Logging.OutputPaths,
	}
	logger := utils.NewLogger(loggerOptions)
	logger.Info("Starting Tuneport server", "environment", cfg.Environment)

	// Initialize MongoDB client
	mongoClient, err := mongo.NewClient(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect from MongoDB", err)
		}
	}()

	// Ensure database indexes
	if err := mongo.EnsureIndexes(ctx, mongoClient); err != nil {
		logger.Fatal("Failed to ensure database indexes", err)
	}

	// Initialize Redis client
	redisClient, err := redis.NewClient(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()

	// Initialize MongoDB repositories
	userRepo := repositories.NewUserRepository(mongoClient.Database(), logger)
	playlistRepo := repositories.NewPlaylistRepository(mongoClient.Database(), logger)
	favoriteRepo := repositories.NewFavoriteRepository(mongoClient.Database(), logger)

	// Initialize Redis managers
	sessionMgr := managers.NewSessionManager(redisClient, cfg.Auth.AccessTokenExpiry)
	rateLimiter := redis.NewRateLimiter(redisClient)

	// Initialize authentication provider
	jwtConfig := auth.JWTConfig{
		Secret:               cfg.Auth.JWTSecret,
		Issuer:               "tuneport",
		Audience:             "tuneport-users",
		AccessTokenDuration:  cfg.Auth.AccessTokenExpiry,
		RefreshTokenDuration: cfg.Auth.RefreshTokenExpiry,
	}
	jwtProvider := auth.NewJWTProvider(jwtConfig, logger)
	passwordProvider := auth.NewPasswordProvider(logger)
	authProvider := &CombinedAuthProvider{
		JWTProvider:      jwtProvider,
		PasswordProvider: passwordProvider,
	}

	// Initialize music providers. The chain order is fixed: the file index
	// wins when configured, then the home media server, then the public
	// catalog, which always answers.
	fileIndexAdapter := fileindex.New(fileindex.Config{
		BaseURL:         cfg.Providers.FileIndex.BaseURL,
		Account:         cfg.Providers.FileIndex.Account,
		Password:        cfg.Providers.FileIndex.Password,
		RootPath:        cfg.Providers.FileIndex.RootPath,
		SessionTTL:      cfg.Providers.FileIndex.SessionTTL,
		Timeout:         cfg.Providers.FileIndex.Timeout,
		TagParseLimit:   cfg.Providers.FileIndex.TagParseLimit,
		TagFetchBytes:   cfg.Providers.FileIndex.TagFetchBytes,
		ScanConcurrency: cfg.Providers.FileIndex.ScanConcurrency,
		Configured:      cfg.FileIndexConfigured,
	}, logger)

	homeMediaAdapter := homemedia.New(homemedia.Config{
		BaseURL:         cfg.Providers.HomeMedia.BaseURL,
		Token:           cfg.Providers.HomeMedia.Token,
		FallbackSection: cfg.Providers.HomeMedia.FallbackSection,
		Timeout:         cfg.Providers.HomeMedia.Timeout,
		Configured:      cfg.HomeMediaConfigured,
	}, logger)

	catalogAdapter := catalog.New(catalog.Config{
		BaseURL:         cfg.Providers.Catalog.BaseURL,
		Timeout:         cfg.Providers.Catalog.Timeout,
		DefaultLanguage: cfg.Providers.DefaultLanguage,
	}, logger)

	providerMetrics := providers.NewMetrics()
	providerRouter := providers.NewRouter(logger, providerMetrics,
		fileIndexAdapter, homeMediaAdapter, catalogAdapter)

	// Initialize services
	userManager := user.NewManager(userRepo, sessionMgr, authProvider, logger)
	libraryManager := library.NewManager(providerRouter, favoriteRepo, logger)
	playlistManager := playlist.NewManager(playlistRepo, providerRouter, logger)
	playlistImporter := playlist.NewImporterService(playlistRepo, providerRouter, logger)

	// Initialize system services
	metricsService := system.NewMetricsService(logger)
	healthConfig := system.HealthServiceConfig{
		Version:     "1.0.0",
		Environment: cfg.Environment,
	}
	healthService := system.NewHealthService(mongoClient.Client(), redisClient, providerRouter, logger, healthConfig)

	// Initialize maintenance service
	maintenanceConfig := system.DefaultMaintenanceConfig()
	maintenanceService := system.NewMaintenanceService(
		maintenanceConfig,
		sessionMgr,
		userRepo,
		metricsService,
		logger,
	)

	// Initialize API router
	router := api.NewRouter(
		authProvider,
		sessionMgr,
		rateLimiter,
		userManager,
		libraryManager,
		playlistManager,
		playlistImporter,
		healthService,
		metricsService,
		cfg,
		logger,
	)

	// Start maintenance service
	if err := maintenanceService.Start(ctx); err != nil {
		logger.Error("Failed to start maintenance service", err)
	}

	// Start health service
	healthService.Start(ctx)

	// Create HTTP server
	apiAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         apiAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", "address", apiAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("Shutting down server")

	// Create a context with timeout for shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", err)
	}

	// Stop maintenance service
	maintenanceService.Stop()

	logger.Info("Server shutdown complete")
}
