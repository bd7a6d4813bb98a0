// Package config provides functionality for loading and accessing application configuration.
package config

import "strings"

// placeholderMarkers are substrings that mark a setting as "left over
// from the sample config". A value containing one of them counts as not
// configured, so the router skips the provider instead of attempting a
// call that cannot succeed.
var placeholderMarkers = []string{
	"your_",
	"your-",
	"changeme",
	"change_me",
	"example.com",
	"url_here",
	"token_here",
	"xxx",
}

// IsPlaceholder reports whether a connection setting is missing or still
// an obvious sample value.
func IsPlaceholder(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return true
	}
	for _, marker := range placeholderMarkers {
		if strings.Contains(v, marker) {
			return true
		}
	}
	return false
}

// HomeMediaConfigured reports whether the home-media provider has every
// required connection setting.
func (c *Config) HomeMediaConfigured() bool {
	hm := c.Providers.HomeMedia
	return !IsPlaceholder(hm.BaseURL) && !IsPlaceholder(hm.Token)
}

// FileIndexConfigured reports whether the file-index provider has every
// required connection setting.
func (c *Config) FileIndexConfigured() bool {
	fi := c.Providers.FileIndex
	return !IsPlaceholder(fi.BaseURL) &&
		!IsPlaceholder(fi.Account) &&
		!IsPlaceholder(fi.Password) &&
		!IsPlaceholder(fi.RootPath)
}
