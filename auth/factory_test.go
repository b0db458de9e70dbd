package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	factory := func(map[string]any) (Authenticator, error) { return AnonymousAuthenticator{}, nil }

	if err := reg.RegisterAuthenticator("anon", factory); err != nil {
		t.Fatalf("RegisterAuthenticator() error = %v", err)
	}
	if err := reg.RegisterAuthenticator("anon", factory); err == nil {
		t.Error("duplicate registration should fail")
	}
	if err := reg.RegisterAuthenticator("", factory); err == nil {
		t.Error("empty name should fail")
	}
	if err := reg.RegisterAuthenticator("nil", nil); err == nil {
		t.Error("nil factory should fail")
	}

	a, err := reg.CreateAuthenticator("anon", nil)
	if err != nil || a.Name() != "anonymous" {
		t.Errorf("CreateAuthenticator(anon) = %v, %v", a, err)
	}
	if _, err := reg.CreateAuthenticator("missing", nil); !errors.Is(err, ErrUnknownAuthenticator) {
		t.Errorf("CreateAuthenticator(missing) error = %v, want ErrUnknownAuthenticator", err)
	}
}

func TestDefaultRegistry(t *testing.T) {
	names := DefaultRegistry.ListAuthenticators()
	want := []string{"anonymous", "jwt", "x509"}
	if !slices.Equal(names, want) {
		t.Errorf("ListAuthenticators() = %v, want %v", names, want)
	}
}

func TestDefaultRegistry_X509(t *testing.T) {
	a, err := DefaultRegistry.CreateAuthenticator("x509", map[string]any{
		"include_all_claims": true,
		"trust_domain":       "example.org",
		"roles":              map[string]any{"ab:cd": []any{"admin"}},
	})
	if err != nil {
		t.Fatalf("CreateAuthenticator(x509) error = %v", err)
	}
	cfg := a.(*CertificateAuthenticator).Config()
	if !cfg.IncludeAllClaims || cfg.TrustDomain != "example.org" {
		t.Errorf("Config() = %+v", cfg)
	}
	if roles := cfg.Roles["ab:cd"]; len(roles) != 1 || roles[0] != "admin" {
		t.Errorf("Roles = %v", cfg.Roles)
	}
}

func TestDefaultRegistry_JWT(t *testing.T) {
	if _, err := DefaultRegistry.CreateAuthenticator("jwt", nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("CreateAuthenticator(jwt) without secret error = %v, want ErrInvalidConfig", err)
	}

	a, err := DefaultRegistry.CreateAuthenticator("jwt", map[string]any{
		"secret":      "s3cret",
		"issuer":      "https://issuer.example",
		"roles_claim": "groups",
	})
	if err != nil {
		t.Fatalf("CreateAuthenticator(jwt) error = %v", err)
	}
	j := a.(*JWTAuthenticator)
	if j.config.Issuer != "https://issuer.example" || j.config.RolesClaim != "groups" {
		t.Errorf("config = %+v", j.config)
	}
	if j.config.HeaderName != "Authorization" || j.config.TokenPrefix != "Bearer " || j.config.PrincipalClaim != "sub" {
		t.Errorf("defaults not applied: %+v", j.config)
	}
}

func TestDefaultRegistry_JWTPublicKey(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "issuer.pem")
	if err := os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600); err != nil {
		t.Fatal(err)
	}

	a, err := DefaultRegistry.CreateAuthenticator("jwt", map[string]any{
		"public_key": "secretref:file:" + path,
	})
	if err != nil {
		t.Fatalf("CreateAuthenticator(jwt) error = %v", err)
	}
	got, _ := a.(*JWTAuthenticator).keyProvider.GetKey(t.Context(), "")
	pub, ok := got.(*ecdsa.PublicKey)
	if !ok || !pub.Equal(&key.PublicKey) {
		t.Errorf("key = %T, want the configured ECDSA key", got)
	}
}

func TestDefaultRegistry_JWTKeyErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]any
	}{
		{"both", map[string]any{"secret": "s", "public_key": "p"}},
		{"bad pem", map[string]any{"public_key": "not a pem"}},
		{"missing env", map[string]any{"secret": "${IDMODEL_DEFINITELY_UNSET}"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DefaultRegistry.CreateAuthenticator("jwt", tc.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("CreateAuthenticator() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
