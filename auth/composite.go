package auth

import "context"

// CompositeAuthenticator tries multiple authenticators in order and
// returns the first principal produced.
type CompositeAuthenticator struct {
	// Authenticators is the ordered list of authenticators to try.
	Authenticators []Authenticator

	// StopOnFirst stops on the first successful authentication.
	// Default: true
	StopOnFirst bool
}

// NewCompositeAuthenticator creates a composite authenticator.
func NewCompositeAuthenticator(auths ...Authenticator) *CompositeAuthenticator {
	return &CompositeAuthenticator{
		Authenticators: auths,
		StopOnFirst:    true,
	}
}

// Name returns "composite".
func (c *CompositeAuthenticator) Name() string {
	return string(AuthMethodComposite)
}

// Supports returns true if any authenticator supports the request.
func (c *CompositeAuthenticator) Supports(ctx context.Context, req *AuthRequest) bool {
	for _, a := range c.Authenticators {
		if a.Supports(ctx, req) {
			return true
		}
	}
	return false
}

// Authenticate tries each supporting authenticator in sequence.
// Internal errors and context cancellation stop the chain immediately.
func (c *CompositeAuthenticator) Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error) {
	var lastResult, firstSuccess *AuthResult

	for _, a := range c.Authenticators {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !a.Supports(ctx, req) {
			continue
		}

		result, err := a.Authenticate(ctx, req)
		if err != nil {
			return nil, err
		}
		lastResult = result

		if !result.Authenticated {
			continue
		}
		if c.StopOnFirst {
			return result, nil
		}
		if firstSuccess == nil {
			firstSuccess = result
		}
	}

	if firstSuccess != nil {
		return firstSuccess, nil
	}
	if lastResult != nil {
		return lastResult, nil
	}
	return AuthFailure(ErrMissingCredentials, AuthMethodComposite), nil
}

// Ensure CompositeAuthenticator implements Authenticator
var _ Authenticator = (*CompositeAuthenticator)(nil)
