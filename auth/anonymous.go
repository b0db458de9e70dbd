package auth

import (
	"context"

	"github.com/jonwraymond/idmodel/claims"
)

// AnonymousAuthenticator accepts every request as the anonymous
// principal. Place it last in a CompositeAuthenticator to make
// authentication optional.
type AnonymousAuthenticator struct{}

// Name returns "anonymous".
func (AnonymousAuthenticator) Name() string {
	return string(AuthMethodAnonymous)
}

// Supports always returns true.
func (AnonymousAuthenticator) Supports(context.Context, *AuthRequest) bool {
	return true
}

// Authenticate returns claims.Anonymous().
func (AnonymousAuthenticator) Authenticate(context.Context, *AuthRequest) (*AuthResult, error) {
	return AuthSuccess(claims.Anonymous(), AuthMethodAnonymous), nil
}

var _ Authenticator = AnonymousAuthenticator{}
