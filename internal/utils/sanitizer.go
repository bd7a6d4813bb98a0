// Package utils provides utility functions used throughout the application.
package utils

import (
	"regexp"
	"strings"
)

var (
	// scriptTagsRegex matches script tags
	scriptTagsRegex = regexp.MustCompile(`(?i)<script[\s\S]*?>[\s\S]*?</script>`)

	// htmlTagsRegex matches HTML tags
	htmlTagsRegex = regexp.MustCompile(`<[^>]*>`)

	// multipleSpacesRegex matches multiple spaces
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// SanitizeString removes HTML tags and normalizes whitespace
func SanitizeString(s string) string {
	// Remove script tags first for security
	s = scriptTagsRegex.ReplaceAllString(s, "")

	// Remove HTML tags
	s = htmlTagsRegex.ReplaceAllString(s, "")

	// Normalize whitespace
	s = multipleSpacesRegex.ReplaceAllString(s, " ")

	// Trim spaces
	return strings.TrimSpace(s)
}

// SanitizeUsername ensures a username is valid
func SanitizeUsername(username string) string {
	// Trim whitespace
	username = strings.TrimSpace(username)

	// Replace spaces with underscores
	username = strings.ReplaceAll(username, " ", "_")

	// Remove special characters
	reg := regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	username = reg.ReplaceAllString(username, "")

	// Ensure it's not too long
	if len(username) > 30 {
		username = username[:30]
	}

	return username
}

// SanitizePlaylistName ensures a playlist name is valid
func SanitizePlaylistName(name string) string {
	// Trim whitespace
	name = strings.TrimSpace(name)

	// Remove excessive whitespace
	name = multipleSpacesRegex.ReplaceAllString(name, " ")

	// Limit length
	if len(name) > 50 {
		name = name[:50]
	}

	return name
}

// SanitizeSearchQuery sanitizes a search query
func SanitizeSearchQuery(query string) string {
	// Trim whitespace
	query = strings.TrimSpace(query)

	// Remove special characters
	reg := regexp.MustCompile(`[^\w\s]`)
	query = reg.ReplaceAllString(query, " ")

	// Normalize whitespace
	query = multipleSpacesRegex.ReplaceAllString(query, " ")

	return strings.TrimSpace(query)
}
