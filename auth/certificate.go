package auth

import (
	"context"
	"crypto/x509"
	"fmt"
	"strings"

	"github.com/spiffe/go-spiffe/v2/spiffeid"
	"github.com/spiffe/go-spiffe/v2/svid/x509svid"

	"github.com/jonwraymond/idmodel/claims"
)

// CertificateConfig configures the X.509 authenticator.
type CertificateConfig struct {
	// IncludeAllClaims adds the extended certificate claims (serial,
	// SAN names, key value, expiration) to every principal.
	IncludeAllClaims bool

	// TrustDomain, when set, requires the leaf certificate to carry a
	// SPIFFE ID URI SAN in this trust domain (e.g. "example.org").
	TrustDomain string

	// Roles maps certificate thumbprints (hex SHA-1, case and colons
	// ignored) to role names added to the principal.
	Roles map[string][]string
}

// PrincipalBuilder turns a certificate into a principal. It is
// claims.FromX509 unless replaced, for instance by a cache.
type PrincipalBuilder func(ctx context.Context, cert *x509.Certificate, includeAllClaims bool) (*claims.Principal, error)

// CertificateAuthenticator authenticates the TLS client certificate.
//
// The chain is expected to have been verified by the TLS stack already;
// this authenticator only maps the leaf into claims.
type CertificateAuthenticator struct {
	config      CertificateConfig
	trustDomain spiffeid.TrustDomain
	roles       map[string][]string
	build       PrincipalBuilder
}

// NewCertificateAuthenticator creates an X.509 authenticator.
func NewCertificateAuthenticator(config CertificateConfig) (*CertificateAuthenticator, error) {
	a := &CertificateAuthenticator{
		config: config,
		roles:  make(map[string][]string, len(config.Roles)),
		build:  buildFromX509,
	}

	if config.TrustDomain != "" {
		td, err := spiffeid.TrustDomainFromString(config.TrustDomain)
		if err != nil {
			return nil, fmt.Errorf("%w: trust domain %q: %v", ErrInvalidConfig, config.TrustDomain, err)
		}
		a.trustDomain = td
	}

	for thumbprint, roles := range config.Roles {
		a.roles[normalizeThumbprint(thumbprint)] = roles
	}

	return a, nil
}

// WithBuilder returns a copy of the authenticator using build to create
// principals.
func (a *CertificateAuthenticator) WithBuilder(build PrincipalBuilder) *CertificateAuthenticator {
	clone := *a
	if build != nil {
		clone.build = build
	}
	return &clone
}

// Config returns the authenticator's configuration.
func (a *CertificateAuthenticator) Config() CertificateConfig {
	return a.config
}

// Name returns "x509".
func (a *CertificateAuthenticator) Name() string {
	return string(AuthMethodX509)
}

// Supports returns true if the request carries a client certificate.
func (a *CertificateAuthenticator) Supports(_ context.Context, req *AuthRequest) bool {
	return req.PeerCertificate() != nil
}

// Authenticate maps the leaf certificate to an X.509 principal.
func (a *CertificateAuthenticator) Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error) {
	cert := req.PeerCertificate()
	if cert == nil {
		return AuthFailure(ErrMissingCredentials, AuthMethodX509), nil
	}

	if !a.trustDomain.IsZero() {
		id, err := x509svid.IDFromCert(cert)
		if err != nil || !id.MemberOf(a.trustDomain) {
			return AuthFailure(ErrUntrustedPeer, AuthMethodX509), nil
		}
	}

	principal, err := a.build(ctx, cert, a.config.IncludeAllClaims)
	if err != nil {
		return nil, fmt.Errorf("x509: %w", err)
	}

	if len(a.roles) > 0 {
		thumbprint := claims.NewX509Certificate(cert).Thumbprint()
		if roles := a.roles[thumbprint]; len(roles) > 0 {
			all := append(principal.Claims(), claims.CreateRoles(roles)...)
			principal = claims.Create(principal.AuthenticationType(), all...)
		}
	}

	return AuthSuccess(principal, AuthMethodX509), nil
}

func buildFromX509(_ context.Context, cert *x509.Certificate, includeAllClaims bool) (*claims.Principal, error) {
	return claims.FromX509(cert, includeAllClaims)
}

func normalizeThumbprint(s string) string {
	return strings.ToUpper(strings.NewReplacer(":", "", " ", "").Replace(s))
}

// Ensure CertificateAuthenticator implements Authenticator
var _ Authenticator = (*CertificateAuthenticator)(nil)
