package cache

import (
	"context"
	"crypto/x509"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/idmodel/claims"
)

type countingBuilder struct {
	calls atomic.Int32
	err   error
	gate  chan struct{}
}

func (b *countingBuilder) build(cert *x509.Certificate, all bool) (*claims.Principal, error) {
	b.calls.Add(1)
	if b.gate != nil {
		<-b.gate
	}
	if b.err != nil {
		return nil, b.err
	}
	return claims.FromX509(cert, all)
}

func newTestPrincipalCache(t *testing.T, policy Policy) (*PrincipalCache, *MemoryCache, *countingBuilder, *fakeClock) {
	t.Helper()
	mem, clock := newTestMemoryCache(policy)
	pc, err := NewPrincipalCache(mem, nil, policy)
	if err != nil {
		t.Fatalf("NewPrincipalCache() error = %v", err)
	}
	b := &countingBuilder{}
	pc.build = b.build
	pc.now = clock.Now
	return pc, mem, b, clock
}

func TestNewPrincipalCache_NilCache(t *testing.T) {
	if _, err := NewPrincipalCache(nil, nil, DefaultPolicy()); !errors.Is(err, ErrNilCache) {
		t.Errorf("NewPrincipalCache(nil) error = %v, want ErrNilCache", err)
	}
}

func TestPrincipalCache_HitAndMiss(t *testing.T) {
	pc, _, b, clock := newTestPrincipalCache(t, DefaultPolicy())
	ctx := context.Background()
	cert := newCert(t, "svc", clock.Now().Add(24*time.Hour))

	first, err := pc.FromCertificate(ctx, cert, false)
	if err != nil {
		t.Fatalf("FromCertificate() error = %v", err)
	}
	second, err := pc.FromCertificate(ctx, cert, false)
	if err != nil {
		t.Fatalf("FromCertificate() error = %v", err)
	}

	if b.calls.Load() != 1 {
		t.Errorf("builds = %d, want 1", b.calls.Load())
	}
	if !second.Equal(first) {
		t.Errorf("cached principal = %v, want %v", second.Claims(), first.Claims())
	}
	if s := pc.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("Stats() = %+v, want 1 hit 1 miss", s)
	}

	// The extended mode is cached separately.
	all, _ := pc.FromCertificate(ctx, cert, true)
	if b.calls.Load() != 2 {
		t.Errorf("builds = %d, want 2", b.calls.Load())
	}
	if all.Equal(first) {
		t.Error("extended principal should differ from basic")
	}
}

func TestPrincipalCache_TTLClampedToCertificate(t *testing.T) {
	pc, _, b, clock := newTestPrincipalCache(t, DefaultPolicy())
	ctx := context.Background()
	cert := newCert(t, "short", clock.Now().Add(time.Minute))

	_, _ = pc.FromCertificate(ctx, cert, false)
	clock.Advance(2 * time.Minute)
	_, _ = pc.FromCertificate(ctx, cert, false)

	if b.calls.Load() != 2 {
		t.Errorf("builds = %d, want 2 after certificate expiry", b.calls.Load())
	}
}

func TestPrincipalCache_ExpiredCertificateNotStored(t *testing.T) {
	pc, mem, _, clock := newTestPrincipalCache(t, DefaultPolicy())
	cert := newCert(t, "old", clock.Now().Add(-time.Minute))

	if _, err := pc.FromCertificate(context.Background(), cert, false); err != nil {
		t.Fatalf("FromCertificate() error = %v", err)
	}
	if mem.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for an expired certificate", mem.Len())
	}
}

func TestPrincipalCache_ErrorsNotCached(t *testing.T) {
	pc, mem, b, clock := newTestPrincipalCache(t, DefaultPolicy())
	b.err = claims.ErrUnsupportedKey
	cert := newCert(t, "svc", clock.Now().Add(time.Hour))

	for i := 0; i < 2; i++ {
		if _, err := pc.FromCertificate(context.Background(), cert, true); !errors.Is(err, claims.ErrUnsupportedKey) {
			t.Fatalf("FromCertificate() error = %v, want ErrUnsupportedKey", err)
		}
	}
	if b.calls.Load() != 2 {
		t.Errorf("builds = %d, want 2", b.calls.Load())
	}
	if mem.Len() != 0 {
		t.Errorf("Len() = %d, want 0", mem.Len())
	}
}

func TestPrincipalCache_NoCachePolicy(t *testing.T) {
	pc, mem, b, clock := newTestPrincipalCache(t, NoCachePolicy())
	cert := newCert(t, "svc", clock.Now().Add(time.Hour))

	_, _ = pc.FromCertificate(context.Background(), cert, false)
	_, _ = pc.FromCertificate(context.Background(), cert, false)
	if b.calls.Load() != 2 || mem.Len() != 0 {
		t.Errorf("builds = %d, Len() = %d; want 2, 0", b.calls.Load(), mem.Len())
	}
}

func TestPrincipalCache_NilCertificate(t *testing.T) {
	pc, _, _, _ := newTestPrincipalCache(t, DefaultPolicy())
	if _, err := pc.FromCertificate(context.Background(), nil, false); !errors.Is(err, claims.ErrNilCertificate) {
		t.Errorf("FromCertificate(nil) error = %v, want ErrNilCertificate", err)
	}
}

func TestPrincipalCache_CorruptEntry(t *testing.T) {
	pc, mem, b, clock := newTestPrincipalCache(t, DefaultPolicy())
	ctx := context.Background()
	cert := newCert(t, "svc", clock.Now().Add(time.Hour))

	key, _ := NewCertificateKeyer().Key(cert, false)
	_ = mem.Set(ctx, key, []byte{0xff}, time.Hour)

	p, err := pc.FromCertificate(ctx, cert, false)
	if err != nil {
		t.Fatalf("FromCertificate() error = %v", err)
	}
	if p.AuthenticationType() != claims.AuthenticationTypeX509 || b.calls.Load() != 1 {
		t.Errorf("expected a rebuild, got %v with %d builds", p.Claims(), b.calls.Load())
	}
}

func TestPrincipalCache_Invalidate(t *testing.T) {
	pc, mem, b, clock := newTestPrincipalCache(t, DefaultPolicy())
	ctx := context.Background()
	cert := newCert(t, "svc", clock.Now().Add(time.Hour))

	_, _ = pc.FromCertificate(ctx, cert, false)
	_, _ = pc.FromCertificate(ctx, cert, true)
	if err := pc.Invalidate(ctx, cert); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if mem.Len() != 0 {
		t.Errorf("Len() = %d, want 0", mem.Len())
	}
	_, _ = pc.FromCertificate(ctx, cert, false)
	if b.calls.Load() != 3 {
		t.Errorf("builds = %d, want 3", b.calls.Load())
	}
}

func TestPrincipalCache_ConcurrentMissesShareBuild(t *testing.T) {
	pc, _, b, clock := newTestPrincipalCache(t, DefaultPolicy())
	b.gate = make(chan struct{})
	cert := newCert(t, "svc", clock.Now().Add(time.Hour))

	const workers = 8
	var started, done sync.WaitGroup
	results := make([]*claims.Principal, workers)
	started.Add(workers)
	done.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i], _ = pc.FromCertificate(context.Background(), cert, false)
		}(i)
	}
	started.Wait()
	for b.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	close(b.gate)
	done.Wait()

	if got := b.calls.Load(); got < 1 || got > workers {
		t.Fatalf("builds = %d", got)
	}
	for i, p := range results {
		if p == nil || !p.Equal(results[0]) {
			t.Errorf("result %d = %v", i, p)
		}
	}
}
