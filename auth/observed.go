package auth

import (
	"context"

	"github.com/jonwraymond/idmodel/observe"
)

// ObservedAuthenticator wraps an Authenticator with tracing, metrics and
// logging. Rejected credentials are recorded as failed attempts; the
// result is still returned to the caller as (result, nil).
type ObservedAuthenticator struct {
	next Authenticator
	exec observe.ExecuteFunc
}

// NewObservedAuthenticator wraps next with mw.
func NewObservedAuthenticator(next Authenticator, mw *observe.Middleware) *ObservedAuthenticator {
	o := &ObservedAuthenticator{next: next}
	o.exec = mw.Wrap(o.authenticate)
	return o
}

// Name returns the wrapped authenticator's name.
func (o *ObservedAuthenticator) Name() string {
	return o.next.Name()
}

// Supports delegates to the wrapped authenticator.
func (o *ObservedAuthenticator) Supports(ctx context.Context, req *AuthRequest) bool {
	return o.next.Supports(ctx, req)
}

// Authenticate runs the wrapped authenticator inside a telemetry span.
func (o *ObservedAuthenticator) Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error) {
	meta := observe.OperationMeta{Component: o.next.Name(), Name: "authenticate"}
	out, err := o.exec(ctx, meta, req)

	result, _ := out.(*AuthResult)
	if result != nil {
		return result, nil
	}
	return nil, err
}

func (o *ObservedAuthenticator) authenticate(ctx context.Context, _ observe.OperationMeta, input any) (any, error) {
	req, _ := input.(*AuthRequest)
	result, err := o.next.Authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !result.Authenticated {
		err = result.Error
		if err == nil {
			err = ErrInvalidCredentials
		}
		return result, err
	}
	return result, nil
}

var _ Authenticator = (*ObservedAuthenticator)(nil)
