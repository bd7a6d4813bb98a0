package providers

import "errors"

// Sentinel errors shared by the adapters. The router treats them all as
// "advance to the next provider"; they exist so logs and operator-facing
// diagnostics can tell remediation apart.
var (
	// ErrNotConfigured means a required connection setting is missing or
	// still a placeholder. Detected before any network call.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrUnavailable covers transport failures, timeouts and non-2xx
	// responses.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrNotFound means the provider answered but has no such entity.
	ErrNotFound = errors.New("entity not found")

	// ErrBadCredentials means the provider rejected the configured
	// account or token.
	ErrBadCredentials = errors.New("provider rejected credentials")

	// ErrTwoFactorRequired means the account requires a second factor
	// the adapter cannot supply. Operators must disable 2FA for the
	// account or issue an application credential.
	ErrTwoFactorRequired = errors.New("provider account requires two-factor authentication")
)
