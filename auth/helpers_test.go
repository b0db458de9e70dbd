package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net/url"
	"testing"
	"time"
)

// mockAuthenticator is a test authenticator with configurable behavior.
type mockAuthenticator struct {
	name     string
	supports bool
	result   *AuthResult
	err      error
	calls    int
}

func (m *mockAuthenticator) Name() string {
	return m.name
}

func (m *mockAuthenticator) Supports(context.Context, *AuthRequest) bool {
	return m.supports
}

func (m *mockAuthenticator) Authenticate(context.Context, *AuthRequest) (*AuthResult, error) {
	m.calls++
	return m.result, m.err
}

// newClientCert returns a self-signed client certificate with the given
// common name and optional URI SANs.
func newClientCert(t *testing.T, cn string, uris ...string) *x509.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject:      pkix.Name{CommonName: cn, Organization: []string{"Example"}},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	for _, raw := range uris {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("parse uri %q: %v", raw, err)
		}
		tmpl.URIs = append(tmpl.URIs, u)
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}
	return cert
}
