// Package models contains the data structures used throughout the application.
package models

import (
	"errors"
	"maps"
	"net/http"
)

// Common error types for domain-specific errors
var (
	// User errors
	ErrUserNotFound          = errors.New("user not found")
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailAlreadyExists    = errors.New("email already taken")
	ErrUsernameAlreadyExists = errors.New("username already taken")
	ErrAccountDisabled       = errors.New("account is disabled")
	ErrPasswordTooWeak       = errors.New("password does not meet security requirements")
	ErrInvalidUsername       = errors.New("invalid username format")
	ErrUnauthorizedAction    = errors.New("unauthorized action")
	ErrInvalidID             = errors.New("invalid ID format")

	// Music/provider errors
	ErrSongNotFound       = errors.New("song not found")
	ErrAlbumNotFound      = errors.New("album not found")
	ErrArtistNotFound     = errors.New("artist not found")
	ErrProviderUnavailable = errors.New("music provider is unavailable")

	// Playlist/favorite errors
	ErrPlaylistNotFound     = errors.New("playlist not found")
	ErrPlaylistItemNotFound = errors.New("playlist item not found")
	ErrPlaylistPrivate      = errors.New("playlist is private")
	ErrFavoriteNotFound     = errors.New("favorite not found")
	ErrAlreadyFavorited     = errors.New("song is already in favorites")

	// Validation errors
	ErrInvalidInput         = errors.New("invalid input")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidFormat        = errors.New("invalid format")

	// Authentication/authorization errors
	ErrAccessDenied    = errors.New("access denied")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrSessionExpired  = errors.New("session expired")
	ErrTooManyRequests = errors.New("too many requests")

	// System errors
	ErrInternalServer     = errors.New("internal server error")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrDatabaseError      = errors.New("database error")
)

// DomainError represents an error that occurs in the application domain.
type DomainError struct {
	// Original is the underlying error
	Original error

	// Message is a human-readable error message
	Message string

	// Code is the HTTP status code
	Code int

	// Domain is the area of the application where the error occurred
	Domain string

	// Details contains additional context for the error
	Details map[string]any
}

// Error returns the error message
func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Original.Error()
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Original
}

// NewDomainError creates a new DomainError
func NewDomainError(err error, message string, code int, domain string) *DomainError {
	if message == "" && err != nil {
		message = err.Error()
	}

	return &DomainError{
		Original: err,
		Message:  message,
		Code:     code,
		Domain:   domain,
		Details:  make(map[string]any),
	}
}

// WithDetails adds details to the error
func (e *DomainError) WithDetails(details map[string]any) *DomainError {
	maps.Copy(e.Details, details)
	return e
}

// AddDetail adds a single detail to the error
func (e *DomainError) AddDetail(key string, value any) *DomainError {
	e.Details[key] = value
	return e
}

// NewUserError creates a user-related domain error
func NewUserError(err error, message string, code int) *DomainError {
	return NewDomainError(err, message, code, "user")
}

// NewMusicError creates a music/provider-related domain error
func NewMusicError(err error, message string, code int) *DomainError {
	return NewDomainError(err, message, code, "music")
}

// NewPlaylistError creates a playlist-related domain error
func NewPlaylistError(err error, message string, code int) *DomainError {
	return NewDomainError(err, message, code, "playlist")
}

// NewAuthError creates an authentication-related domain error
func NewAuthError(err error, message string, code int) *DomainError {
	return NewDomainError(err, message, code, "auth")
}

// NewValidationError creates a validation-related domain error
func NewValidationError(err error, message string) *DomainError {
	return NewDomainError(err, message, http.StatusUnprocessableEntity, "validation")
}

// NewInternalError creates an internal server error
func NewInternalError(err error, message string) *DomainError {
	if message == "" {
		message = "An internal server error occurred"
	}
	return NewDomainError(err, message, http.StatusInternalServerError, "system")
}

// ErrorResponse represents the standard error response format for APIs
type ErrorResponse struct {
	// Success is always false for error responses
	Success bool `json:"success"`

	// Error contains information about the error
	Error struct {
		// Code is the HTTP status code
		Code int `json:"code"`

		// Message is a human-readable error message
		Message string `json:"message"`

		// Domain is the area of the application where the error occurred
		Domain string `json:"domain,omitempty"`

		// Details contains additional context for the error
		Details map[string]any `json:"details,omitempty"`
	} `json:"error"`
}

// NewErrorResponse creates an ErrorResponse from an error
func NewErrorResponse(err error) ErrorResponse {
	response := ErrorResponse{Success: false}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		response.Error.Code = domainErr.Code
		response.Error.Message = domainErr.Message
		response.Error.Domain = domainErr.Domain
		if len(domainErr.Details) > 0 {
			response.Error.Details = domainErr.Details
		}
		return response
	}

	response.Error.Code = MapErrorToHTTPStatus(err)
	response.Error.Message = err.Error()
	return response
}

// MapErrorToHTTPStatus maps common errors to HTTP status codes
func MapErrorToHTTPStatus(err error) int {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrSongNotFound),
		errors.Is(err, ErrAlbumNotFound),
		errors.Is(err, ErrArtistNotFound),
		errors.Is(err, ErrPlaylistNotFound),
		errors.Is(err, ErrPlaylistItemNotFound),
		errors.Is(err, ErrFavoriteNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrSessionExpired):
		return http.StatusUnauthorized

	case errors.Is(err, ErrAccessDenied),
		errors.Is(err, ErrUnauthorizedAction),
		errors.Is(err, ErrPlaylistPrivate):
		return http.StatusForbidden

	case errors.Is(err, ErrUserAlreadyExists),
		errors.Is(err, ErrEmailAlreadyExists),
		errors.Is(err, ErrUsernameAlreadyExists),
		errors.Is(err, ErrAlreadyFavorited):
		return http.StatusConflict

	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrMissingRequiredField),
		errors.Is(err, ErrInvalidFormat),
		errors.Is(err, ErrPasswordTooWeak),
		errors.Is(err, ErrInvalidUsername),
		errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest

	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests

	case errors.Is(err, ErrProviderUnavailable),
		errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
