package cache

import (
	"crypto/x509"
	"fmt"

	"github.com/jonwraymond/idmodel/claims"
)

// Keyer derives cache keys for certificate principals.
//
// Contract:
// - Determinism: the same certificate and mode always produce the same key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(cert *x509.Certificate, includeAllClaims bool) (string, error)
}

// CertificateKeyer keys by SHA-1 thumbprint and claim mode.
// Format: <prefix>:<THUMBPRINT>:<basic|all>
type CertificateKeyer struct {
	// Prefix defaults to "principal:x509".
	Prefix string
}

// NewCertificateKeyer creates a keyer with the default prefix.
func NewCertificateKeyer() *CertificateKeyer {
	return &CertificateKeyer{Prefix: "principal:x509"}
}

// Key returns the cache key for cert in the given mode.
func (k *CertificateKeyer) Key(cert *x509.Certificate, includeAllClaims bool) (string, error) {
	if cert == nil {
		return "", claims.ErrNilCertificate
	}
	prefix := k.Prefix
	if prefix == "" {
		prefix = "principal:x509"
	}
	key := fmt.Sprintf("%s:%s:%s", prefix, claims.NewX509Certificate(cert).Thumbprint(), modeName(includeAllClaims))
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

func modeName(includeAllClaims bool) string {
	if includeAllClaims {
		return "all"
	}
	return "basic"
}

var _ Keyer = (*CertificateKeyer)(nil)
