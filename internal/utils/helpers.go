// Package utils provides utility functions used throughout the application.
package utils

import (
	"net/http"
	"strings"
)

// TruncateString truncates a string to the specified max length with ellipsis
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	return s[:maxLen-3] + "..."
}

// GetRequestIP gets the client IP address from the request
func GetRequestIP(r *http.Request) string {
	// Check X-Forwarded-For header first (for proxies)
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		// If no proxy, get the remote address
		ip = r.RemoteAddr
	}

	// If there are multiple IPs in X-Forwarded-For, get the first one
	if strings.Contains(ip, ",") {
		ip = strings.TrimSpace(strings.Split(ip, ",")[0])
	}

	// Remove port number if present
	if strings.Contains(ip, ":") {
		ip = strings.Split(ip, ":")[0]
	}

	return ip
}
