// Package config provides functionality for loading and accessing application configuration.
package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// ValidateAndFixConfig validates the configuration and fixes any issues
func ValidateAndFixConfig(config *Config) []string {
	var warnings []string

	// Check JWT secret
	if config.Auth.JWTSecret == "" {
		warnings = append(warnings, "JWT secret is not set, generating a random one")
		secret, err := generateRandomSecret(32)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to generate JWT secret: %v", err))
		} else {
			config.Auth.JWTSecret = secret
		}
	} else if len(config.Auth.JWTSecret) < 16 {
		warnings = append(warnings, "JWT secret is too short, should be at least 16 characters")
	}

	// Check server timeouts
	minTimeout := 1 * time.Second
	maxTimeout := 5 * time.Minute

	if config.Server.ReadTimeout < minTimeout {
		warnings = append(warnings, fmt.Sprintf("Server read timeout is too short (%v), setting to %v", config.Server.ReadTimeout, minTimeout))
		config.Server.ReadTimeout = minTimeout
	} else if config.Server.ReadTimeout > maxTimeout {
		warnings = append(warnings, fmt.Sprintf("Server read timeout is too long (%v), setting to %v", config.Server.ReadTimeout, maxTimeout))
		config.Server.ReadTimeout = maxTimeout
	}

	if config.Server.WriteTimeout < minTimeout {
		warnings = append(warnings, fmt.Sprintf("Server write timeout is too short (%v), setting to %v", config.Server.WriteTimeout, minTimeout))
		config.Server.WriteTimeout = minTimeout
	} else if config.Server.WriteTimeout > maxTimeout {
		warnings = append(warnings, fmt.Sprintf("Server write timeout is too long (%v), setting to %v", config.Server.WriteTimeout, maxTimeout))
		config.Server.WriteTimeout = maxTimeout
	}

	// Provider timeouts must stay under the hosting platform's request
	// deadline; clamp anything unreasonable.
	maxProviderTimeout := 30 * time.Second
	if config.Providers.Catalog.Timeout <= 0 || config.Providers.Catalog.Timeout > maxProviderTimeout {
		warnings = append(warnings, fmt.Sprintf("Catalog timeout out of range (%v), setting to 8s", config.Providers.Catalog.Timeout))
		config.Providers.Catalog.Timeout = 8 * time.Second
	}
	if config.Providers.HomeMedia.Timeout <= 0 || config.Providers.HomeMedia.Timeout > maxProviderTimeout {
		warnings = append(warnings, fmt.Sprintf("Home-media timeout out of range (%v), setting to 5s", config.Providers.HomeMedia.Timeout))
		config.Providers.HomeMedia.Timeout = 5 * time.Second
	}
	if config.Providers.FileIndex.Timeout <= 0 || config.Providers.FileIndex.Timeout > maxProviderTimeout {
		warnings = append(warnings, fmt.Sprintf("File-index timeout out of range (%v), setting to 5s", config.Providers.FileIndex.Timeout))
		config.Providers.FileIndex.Timeout = 5 * time.Second
	}

	if config.Providers.FileIndex.TagParseLimit < 0 {
		warnings = append(warnings, "File-index tag parse limit is negative, disabling tag extraction")
		config.Providers.FileIndex.TagParseLimit = 0
	}
	if config.Providers.FileIndex.ScanConcurrency <= 0 {
		warnings = append(warnings, "File-index scan concurrency must be positive, setting to 4")
		config.Providers.FileIndex.ScanConcurrency = 4
	}

	return warnings
}

// generateRandomSecret generates a random secret string of the specified length
func generateRandomSecret(length int) (string, error) {
	bytes := make([]byte, length)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}

// GetLogLevel converts a string log level to a zap log level
func GetLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "dpanic":
		return zapcore.DPanicLevel
	case "panic":
		return zapcore.PanicLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
