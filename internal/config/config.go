// Package config provides functionality for loading and accessing application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Environment is the current running environment (development, staging, production)
	Environment string `mapstructure:"environment"`

	// Server configuration
	Server struct {
		// Port is the HTTP server port
		Port int `mapstructure:"port"`
		// Host is the HTTP server host
		Host string `mapstructure:"host"`
		// ReadTimeout is the maximum duration for reading the entire request
		ReadTimeout time.Duration `mapstructure:"read_timeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request
		IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	} `mapstructure:"server"`

	// Database configuration
	Database struct {
		// MongoDB configuration
		MongoDB struct {
			// URI is the MongoDB connection URI
			URI string `mapstructure:"uri"`
			// Database is the MongoDB database name
			Database string `mapstructure:"database"`
			// Timeout is the MongoDB operation timeout
			Timeout time.Duration `mapstructure:"timeout"`
			// MaxPoolSize is the maximum number of connections in the connection pool
			MaxPoolSize uint64 `mapstructure:"max_pool_size"`
			// MinPoolSize is the minimum number of connections in the connection pool
			MinPoolSize uint64 `mapstructure:"min_pool_size"`
			// MaxIdleTime is the maximum idle time for a connection
			MaxIdleTime time.Duration `mapstructure:"max_idle_time"`
		} `mapstructure:"mongodb"`

		// Redis configuration
		Redis struct {
			// Addresses is the list of Redis server addresses
			Addresses []string `mapstructure:"addresses"`
			// Username is the Redis username
			Username string `mapstructure:"username"`
			// Password is the Redis password
			Password string `mapstructure:"password"`
			// Database is the Redis database index
			Database int `mapstructure:"database"`
			// MaxRetries is the maximum number of retries for Redis operations
			MaxRetries int `mapstructure:"max_retries"`
			// PoolSize is the Redis connection pool size
			PoolSize int `mapstructure:"pool_size"`
			// MinIdleConns is the minimum number of idle connections
			MinIdleConns int `mapstructure:"min_idle_conns"`
			// DialTimeout is the timeout for establishing new connections
			DialTimeout time.Duration `mapstructure:"dial_timeout"`
			// ReadTimeout is the timeout for Redis reads
			ReadTimeout time.Duration `mapstructure:"read_timeout"`
			// WriteTimeout is the timeout for Redis writes
			WriteTimeout time.Duration `mapstructure:"write_timeout"`
			// IdleTimeout is the timeout for idle connections
			IdleTimeout time.Duration `mapstructure:"idle_timeout"`
		} `mapstructure:"redis"`
	} `mapstructure:"database"`

	// Authentication configuration
	Auth struct {
		// JWTSecret is the secret key for signing JWTs
		JWTSecret string `mapstructure:"jwt_secret"`
		// AccessTokenExpiry is the expiry time for access tokens
		AccessTokenExpiry time.Duration `mapstructure:"access_token_expiry"`
		// RefreshTokenExpiry is the expiry time for refresh tokens
		RefreshTokenExpiry time.Duration `mapstructure:"refresh_token_expiry"`
		// PasswordMinLength is the minimum password length
		PasswordMinLength int `mapstructure:"password_min_length"`
		// PasswordMaxLength is the maximum password length
		PasswordMaxLength int `mapstructure:"password_max_length"`
		// AllowedOrigins is the list of allowed CORS origins
		AllowedOrigins []string `mapstructure:"allowed_origins"`
		// LoginRateLimit is the number of login attempts allowed per window
		LoginRateLimit int `mapstructure:"login_rate_limit"`
		// LoginRateWindow is the login rate limiting window
		LoginRateWindow time.Duration `mapstructure:"login_rate_window"`
	} `mapstructure:"auth"`

	// Providers configures the music metadata backends. The router prefers
	// file-index, then home-media, then the catalog API; a provider only
	// participates when its section is fully configured with
	// non-placeholder values.
	Providers struct {
		// DefaultLanguage is the catalog language hint used when a request
		// carries none.
		DefaultLanguage string `mapstructure:"default_language"`

		// Catalog is the default song-catalog HTTP API.
		Catalog struct {
			// BaseURL is the catalog API base URL.
			BaseURL string `mapstructure:"base_url"`
			// Timeout bounds each outbound catalog call.
			Timeout time.Duration `mapstructure:"timeout"`
		} `mapstructure:"catalog"`

		// HomeMedia is a self-hosted media server (token-authenticated).
		HomeMedia struct {
			// BaseURL is the media server base URL.
			BaseURL string `mapstructure:"base_url"`
			// Token is the server auth token, appended to every call.
			Token string `mapstructure:"token"`
			// FallbackSection is the library section id used when music
			// section discovery fails.
			FallbackSection string `mapstructure:"fallback_section"`
			// Timeout bounds each outbound media server call.
			Timeout time.Duration `mapstructure:"timeout"`
		} `mapstructure:"homemedia"`

		// FileIndex is a NAS file-browsing API (session-authenticated).
		FileIndex struct {
			// BaseURL is the file server base URL.
			BaseURL string `mapstructure:"base_url"`
			// Account is the file server account name.
			Account string `mapstructure:"account"`
			// Password is the file server account password.
			Password string `mapstructure:"password"`
			// RootPath is the shared-folder path holding the music library.
			RootPath string `mapstructure:"root_path"`
			// SessionTTL is how long a login session id is reused.
			SessionTTL time.Duration `mapstructure:"session_ttl"`
			// Timeout bounds each outbound file server call.
			Timeout time.Duration `mapstructure:"timeout"`
			// TagParseLimit caps how many recently-changed files get full
			// tag extraction per scan; the rest use filename heuristics.
			TagParseLimit int `mapstructure:"tag_parse_limit"`
			// TagFetchBytes is the byte-range prefix downloaded per file
			// for tag parsing.
			TagFetchBytes int64 `mapstructure:"tag_fetch_bytes"`
			// ScanConcurrency is the tag extraction batch size.
			ScanConcurrency int `mapstructure:"scan_concurrency"`
		} `mapstructure:"fileindex"`
	} `mapstructure:"providers"`

	// Logging configuration
	Logging struct {
		// Level is the logging level
		Level string `mapstructure:"level"`
		// Format is the logging format (json or console)
		Format string `mapstructure:"format"`
		// OutputPaths is the list of output paths for logs
		OutputPaths []string `mapstructure:"output_paths"`
		// ErrorOutputPaths is the list of output paths for error logs
		ErrorOutputPaths []string `mapstructure:"error_output_paths"`
	} `mapstructure:"logging"`

	// Feature flags
	Features struct {
		// EnableRegistration determines whether new user registration is enabled
		EnableRegistration bool `mapstructure:"enable_registration"`
		// EnableMetrics determines whether the /metrics endpoint is exposed
		EnableMetrics bool `mapstructure:"enable_metrics"`
	} `mapstructure:"features"`
}

// LoadConfig loads the configuration from file and environment variables.
// It looks for a configuration file in the following locations:
// 1. Path specified in the CONFIG_FILE environment variable
// 2. ./configs directory
// 3. ../configs directory
// 4. /etc/tuneport directory
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Configuration file name and type
	v.SetConfigName("app")
	v.SetConfigType("yaml")

	// Add configuration paths
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		// Use configuration file from environment variable
		v.SetConfigFile(configFile)
	} else {
		// Search for configuration in common directories
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("/etc/tuneport")
	}

	// Read the configuration file
	if err := v.ReadInConfig(); err != nil {
		// If the configuration file is not found, use environment variables and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Check for environment-specific configuration file
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development" // Default environment
	}

	v.SetConfigName(fmt.Sprintf("app.%s", env))
	// Try to merge the environment-specific configuration file
	if err := v.MergeInConfig(); err != nil {
		// Ignore file not found error for environment config
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to merge environment config file: %w", err)
		}
	}

	// Override with environment variables
	v.SetEnvPrefix("APP") // Prefix for environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load the configuration into the Config struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set the environment
	config.Environment = env

	// Validate the configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets the default values for the configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")

	// Database defaults
	v.SetDefault("database.mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("database.mongodb.database", "tuneport")
	v.SetDefault("database.mongodb.timeout", "10s")
	v.SetDefault("database.mongodb.max_pool_size", 100)
	v.SetDefault("database.mongodb.min_pool_size", 10)
	v.SetDefault("database.mongodb.max_idle_time", "60s")

	v.SetDefault("database.redis.addresses", []string{"localhost:6379"})
	v.SetDefault("database.redis.database", 0)
	v.SetDefault("database.redis.max_retries", 3)
	v.SetDefault("database.redis.pool_size", 100)
	v.SetDefault("database.redis.min_idle_conns", 10)
	v.SetDefault("database.redis.dial_timeout", "5s")
	v.SetDefault("database.redis.read_timeout", "3s")
	v.SetDefault("database.redis.write_timeout", "3s")
	v.SetDefault("database.redis.idle_timeout", "300s")

	// Authentication defaults
	v.SetDefault("auth.access_token_expiry", "15m")
	v.SetDefault("auth.refresh_token_expiry", "168h") // 7 days
	v.SetDefault("auth.password_min_length", 8)
	v.SetDefault("auth.password_max_length", 72)
	v.SetDefault("auth.allowed_origins", []string{"*"})
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_rate_window", "1m")

	// Provider defaults
	v.SetDefault("providers.default_language", "english")
	v.SetDefault("providers.catalog.base_url", "https://saavn.dev/api")
	v.SetDefault("providers.catalog.timeout", "8s")
	v.SetDefault("providers.homemedia.timeout", "5s")
	v.SetDefault("providers.homemedia.fallback_section", "1")
	v.SetDefault("providers.fileindex.session_ttl", "10m")
	v.SetDefault("providers.fileindex.timeout", "5s")
	v.SetDefault("providers.fileindex.tag_parse_limit", 20)
	v.SetDefault("providers.fileindex.tag_fetch_bytes", 262144)
	v.SetDefault("providers.fileindex.scan_concurrency", 4)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_paths", []string{"stdout"})
	v.SetDefault("logging.error_output_paths", []string{"stderr"})

	// Feature flags defaults
	v.SetDefault("features.enable_registration", true)
	v.SetDefault("features.enable_metrics", true)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return errors.New("server port must be between 1 and 65535")
	}

	// Validate JWT Secret
	if config.Auth.JWTSecret == "" {
		return errors.New("JWT secret must be set")
	}

	// Validate MongoDB configuration
	if config.Database.MongoDB.URI == "" {
		return errors.New("MongoDB URI must be set")
	}

	// Validate Redis configuration
	if len(config.Database.Redis.Addresses) == 0 {
		return errors.New("at least one Redis address must be provided")
	}

	// The catalog adapter is the terminal fallback and must always have
	// somewhere to point.
	if config.Providers.Catalog.BaseURL == "" {
		return errors.New("catalog provider base URL must be set")
	}

	return nil
}

// GetConfigString returns a formatted string with the current configuration
func GetConfigString(config *Config) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Environment: %s\n", config.Environment))
	sb.WriteString(fmt.Sprintf("Server: %s:%d\n", config.Server.Host, config.Server.Port))
	sb.WriteString(fmt.Sprintf("MongoDB Database: %s\n", config.Database.MongoDB.Database))
	sb.WriteString(fmt.Sprintf("Redis Database: %d\n", config.Database.Redis.Database))
	sb.WriteString(fmt.Sprintf("Catalog Base URL: %s\n", config.Providers.Catalog.BaseURL))
	sb.WriteString(fmt.Sprintf("Home-Media Configured: %t\n", config.HomeMediaConfigured()))
	sb.WriteString(fmt.Sprintf("File-Index Configured: %t\n", config.FileIndexConfigured()))
	sb.WriteString("Features:\n")
	sb.WriteString(fmt.Sprintf("  Registration Enabled: %t\n", config.Features.EnableRegistration))
	sb.WriteString(fmt.Sprintf("  Metrics Enabled: %t\n", config.Features.EnableMetrics))

	return sb.String()
}
