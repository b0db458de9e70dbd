package auth

import "errors"

// Sentinel errors for authentication.
var (
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrTokenExpired       = errors.New("auth: token expired")
	ErrTokenMalformed     = errors.New("auth: token malformed")
	ErrUntrustedPeer      = errors.New("auth: peer certificate not trusted")

	// Configuration errors
	ErrUnknownAuthenticator = errors.New("auth: unknown authenticator")
	ErrInvalidConfig        = errors.New("auth: invalid config")
)
