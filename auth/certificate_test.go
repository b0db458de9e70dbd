package auth

import (
	"context"
	"crypto/x509"
	"errors"
	"strings"
	"testing"

	"github.com/jonwraymond/idmodel/claims"
)

func certRequest(certs ...*x509.Certificate) *AuthRequest {
	return &AuthRequest{PeerCertificates: certs}
}

func TestNewCertificateAuthenticator_InvalidTrustDomain(t *testing.T) {
	_, err := NewCertificateAuthenticator(CertificateConfig{TrustDomain: "Not A Domain!"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewCertificateAuthenticator() error = %v, want ErrInvalidConfig", err)
	}
}

func TestCertificateAuthenticator_Supports(t *testing.T) {
	a, _ := NewCertificateAuthenticator(CertificateConfig{})
	ctx := context.Background()

	if a.Name() != "x509" {
		t.Errorf("Name() = %q, want x509", a.Name())
	}
	if a.Supports(ctx, &AuthRequest{}) {
		t.Error("Supports(no cert) = true, want false")
	}
	if !a.Supports(ctx, certRequest(newClientCert(t, "svc"))) {
		t.Error("Supports(cert) = false, want true")
	}
}

func TestCertificateAuthenticator_Authenticate(t *testing.T) {
	ctx := context.Background()
	cert := newClientCert(t, "svc", "spiffe://example.org/svc")

	t.Run("basic claims", func(t *testing.T) {
		a, _ := NewCertificateAuthenticator(CertificateConfig{})
		result, err := a.Authenticate(ctx, certRequest(cert))
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if !result.Authenticated || result.Method != "x509" {
			t.Fatalf("result = %+v", result)
		}
		want, _ := claims.FromX509(cert, false)
		if !result.Principal.Equal(want) {
			t.Errorf("principal claims = %v, want %v", result.Principal.Claims(), want.Claims())
		}
	})

	t.Run("extended claims", func(t *testing.T) {
		a, _ := NewCertificateAuthenticator(CertificateConfig{IncludeAllClaims: true})
		result, err := a.Authenticate(ctx, certRequest(cert))
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if !result.Principal.HasClaim(claims.TypeURI, "spiffe://example.org/svc") {
			t.Errorf("missing uri claim in %v", result.Principal.Claims())
		}
	})

	t.Run("no certificate", func(t *testing.T) {
		a, _ := NewCertificateAuthenticator(CertificateConfig{})
		result, err := a.Authenticate(ctx, &AuthRequest{})
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if !errors.Is(result.Error, ErrMissingCredentials) {
			t.Errorf("Error = %v, want ErrMissingCredentials", result.Error)
		}
	})

	t.Run("builder error", func(t *testing.T) {
		boom := errors.New("boom")
		a, _ := NewCertificateAuthenticator(CertificateConfig{})
		a = a.WithBuilder(func(context.Context, *x509.Certificate, bool) (*claims.Principal, error) {
			return nil, boom
		})
		_, err := a.Authenticate(ctx, certRequest(cert))
		if !errors.Is(err, boom) {
			t.Errorf("Authenticate() error = %v, want boom", err)
		}
	})
}

func TestCertificateAuthenticator_TrustDomain(t *testing.T) {
	ctx := context.Background()
	a, err := NewCertificateAuthenticator(CertificateConfig{TrustDomain: "example.org"})
	if err != nil {
		t.Fatalf("NewCertificateAuthenticator() error = %v", err)
	}

	tests := []struct {
		name string
		uris []string
		want bool
	}{
		{"member", []string{"spiffe://example.org/workload"}, true},
		{"other domain", []string{"spiffe://evil.org/workload"}, false},
		{"no uri", nil, false},
		{"not spiffe", []string{"https://example.org/workload"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := a.Authenticate(ctx, certRequest(newClientCert(t, "svc", tc.uris...)))
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if result.Authenticated != tc.want {
				t.Errorf("Authenticated = %v, want %v", result.Authenticated, tc.want)
			}
			if !tc.want && !errors.Is(result.Error, ErrUntrustedPeer) {
				t.Errorf("Error = %v, want ErrUntrustedPeer", result.Error)
			}
		})
	}
}

func TestCertificateAuthenticator_Roles(t *testing.T) {
	cert := newClientCert(t, "admin")
	other := newClientCert(t, "user")

	thumb := claims.NewX509Certificate(cert).Thumbprint()
	var pairs []string
	for i := 0; i < len(thumb); i += 2 {
		pairs = append(pairs, thumb[i:i+2])
	}
	configured := strings.ToLower(strings.Join(pairs, ":"))

	a, err := NewCertificateAuthenticator(CertificateConfig{
		Roles: map[string][]string{configured: {"admin", "operator"}},
	})
	if err != nil {
		t.Fatalf("NewCertificateAuthenticator() error = %v", err)
	}

	result, err := a.Authenticate(context.Background(), certRequest(cert))
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	p := result.Principal
	if !p.IsInRole("admin") || !p.IsInRole("operator") {
		t.Errorf("roles missing from %v", p.Claims())
	}
	if p.AuthenticationType() != claims.AuthenticationTypeX509 {
		t.Errorf("AuthenticationType() = %q, want X.509", p.AuthenticationType())
	}
	all := p.Claims()
	if all[len(all)-1].Type != claims.TypeRole {
		t.Error("role claims should follow the certificate claims")
	}

	result, _ = a.Authenticate(context.Background(), certRequest(other))
	if len(result.Principal.FindAll(claims.TypeRole)) != 0 {
		t.Error("unmapped certificate received roles")
	}
}
