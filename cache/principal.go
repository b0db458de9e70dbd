package cache

import (
	"context"
	"crypto/x509"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/idmodel/claims"
)

// Stats counts PrincipalCache lookups.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// PrincipalCache memoizes claims.FromX509.
type PrincipalCache struct {
	cache  Cache
	keyer  Keyer
	policy Policy
	group  singleflight.Group

	build func(cert *x509.Certificate, includeAllClaims bool) (*claims.Principal, error)
	now   func() time.Time

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewPrincipalCache creates a principal cache over c. A nil keyer means
// NewCertificateKeyer().
func NewPrincipalCache(c Cache, keyer Keyer, policy Policy) (*PrincipalCache, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if keyer == nil {
		keyer = NewCertificateKeyer()
	}
	return &PrincipalCache{
		cache:  c,
		keyer:  keyer,
		policy: policy,
		build:  claims.FromX509,
		now:    time.Now,
	}, nil
}

// FromCertificate returns the principal for cert, building it on a miss.
// Concurrent misses for the same key share one build. Build errors are
// returned unchanged and never cached.
func (pc *PrincipalCache) FromCertificate(ctx context.Context, cert *x509.Certificate, includeAllClaims bool) (*claims.Principal, error) {
	if cert == nil {
		return nil, claims.ErrNilCertificate
	}
	if !pc.policy.ShouldCache() {
		return pc.build(cert, includeAllClaims)
	}

	key, err := pc.keyer.Key(cert, includeAllClaims)
	if err != nil {
		return pc.build(cert, includeAllClaims)
	}

	if data, ok := pc.cache.Get(ctx, key); ok {
		if p, err := DecodePrincipal(data); err == nil {
			pc.hits.Add(1)
			return p, nil
		}
		_ = pc.cache.Delete(ctx, key)
	}
	pc.misses.Add(1)

	v, err, _ := pc.group.Do(key, func() (any, error) {
		p, err := pc.build(cert, includeAllClaims)
		if err != nil {
			return nil, err
		}
		if ttl := pc.policy.TTLUntil(pc.now(), cert.NotAfter); ttl > 0 {
			if data, err := EncodePrincipal(p); err == nil {
				_ = pc.cache.Set(ctx, key, data, ttl)
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*claims.Principal), nil
}

// Invalidate drops both cached modes for cert.
func (pc *PrincipalCache) Invalidate(ctx context.Context, cert *x509.Certificate) error {
	for _, all := range []bool{false, true} {
		key, err := pc.keyer.Key(cert, all)
		if err != nil {
			return err
		}
		if err := pc.cache.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns hit and miss counts since creation.
func (pc *PrincipalCache) Stats() Stats {
	return Stats{Hits: pc.hits.Load(), Misses: pc.misses.Load()}
}
