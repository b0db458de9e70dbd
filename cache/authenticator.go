package cache

import "github.com/jonwraymond/idmodel/auth"

// CachingAuthenticator is a CertificateAuthenticator whose principals
// come from a PrincipalCache. Trust domain checks and role mapping still
// run on every request.
type CachingAuthenticator struct {
	*auth.CertificateAuthenticator
	cache *PrincipalCache
}

// NewCachingAuthenticator wraps a so that it builds through pc.
func NewCachingAuthenticator(a *auth.CertificateAuthenticator, pc *PrincipalCache) *CachingAuthenticator {
	return &CachingAuthenticator{
		CertificateAuthenticator: a.WithBuilder(pc.FromCertificate),
		cache:                    pc,
	}
}

// Cache returns the backing principal cache.
func (c *CachingAuthenticator) Cache() *PrincipalCache {
	return c.cache
}

var _ auth.Authenticator = (*CachingAuthenticator)(nil)
