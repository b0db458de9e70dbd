package cache

import "time"

// Policy configures caching behavior.
type Policy struct {
	// DefaultTTL is the TTL used when none is specified.
	// If zero, caching is disabled.
	DefaultTTL time.Duration

	// MaxTTL caps every TTL. If zero, no maximum is enforced.
	MaxTTL time.Duration

	// MaxEntries bounds MemoryCache. If zero, the cache is unbounded.
	MaxEntries int
}

// DefaultPolicy returns the default caching policy.
// DefaultTTL: 5 minutes, MaxTTL: 1 hour, MaxEntries: 10000
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: 5 * time.Minute,
		MaxTTL:     time.Hour,
		MaxEntries: 10000,
	}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL returns override, or DefaultTTL when override <= 0,
// clamped to MaxTTL.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}

// TTLUntil returns EffectiveTTL(0) clamped so the entry expires no later
// than notAfter. The result is <= 0 once notAfter has passed.
func (p Policy) TTLUntil(now, notAfter time.Time) time.Duration {
	ttl := p.EffectiveTTL(0)
	if remaining := notAfter.Sub(now); remaining < ttl {
		ttl = remaining
	}
	return ttl
}
