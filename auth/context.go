package auth

import (
	"context"
	"crypto/x509"

	"github.com/jonwraymond/idmodel/claims"
)

// Context keys for auth-related values.
type contextKey int

const (
	principalKey contextKey = iota
	headersKey
	peerCertificatesKey
)

// WithPrincipal returns a new context carrying the principal.
func WithPrincipal(ctx context.Context, p *claims.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the principal from the context.
// Returns nil if none is present.
func PrincipalFromContext(ctx context.Context) *claims.Principal {
	p, _ := ctx.Value(principalKey).(*claims.Principal)
	return p
}

// NameFromContext returns the principal's name claim, or "".
func NameFromContext(ctx context.Context) string {
	return PrincipalFromContext(ctx).Name()
}

// WithHeaders returns a new context with the given HTTP headers attached.
func WithHeaders(ctx context.Context, headers map[string][]string) context.Context {
	return context.WithValue(ctx, headersKey, headers)
}

// HeadersFromContext retrieves HTTP headers from the context.
func HeadersFromContext(ctx context.Context) map[string][]string {
	h, _ := ctx.Value(headersKey).(map[string][]string)
	return h
}

// GetHeader retrieves a single header value from the context.
// Returns the first value if multiple values exist, or empty string if not found.
func GetHeader(ctx context.Context, key string) string {
	values := HeadersFromContext(ctx)[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// WithPeerCertificates returns a new context carrying the verified TLS
// client chain.
func WithPeerCertificates(ctx context.Context, certs []*x509.Certificate) context.Context {
	return context.WithValue(ctx, peerCertificatesKey, certs)
}

// PeerCertificatesFromContext retrieves the TLS client chain.
func PeerCertificatesFromContext(ctx context.Context) []*x509.Certificate {
	certs, _ := ctx.Value(peerCertificatesKey).([]*x509.Certificate)
	return certs
}

// RequestFromContext assembles an AuthRequest from the headers and peer
// certificates stored in ctx.
func RequestFromContext(ctx context.Context) *AuthRequest {
	return &AuthRequest{
		Headers:          HeadersFromContext(ctx),
		PeerCertificates: PeerCertificatesFromContext(ctx),
	}
}
