package auth

import "errors"

// Sentinel errors for auth flow operations.
var (
	// ErrNoToken is the AuthError raised when login succeeds at the transport
	// level but the response carries no token.
	ErrNoToken = errors.New("login failed - no token received")

	// ErrSessionExpired is the SessionExpiredError raised when a code is
	// verified with no pending registration in memory or storage.
	ErrSessionExpired = errors.New("verification session expired, please register again")

	ErrNotAuthenticated = errors.New("not logged in")
)
