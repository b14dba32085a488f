package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the email or password does not match.
	ErrInvalidCredentials = errors.New("auth: invalid email or password")

	// ErrSessionsDisabled is returned when no signing secret is configured.
	ErrSessionsDisabled = errors.New("auth: session signing secret not configured")

	// ErrInvalidToken is returned for a session token that does not verify.
	ErrInvalidToken = errors.New("auth: invalid session token")
)
