package claims

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net/url"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var testNotAfter = time.Date(2031, time.March, 4, 5, 6, 7, 0, time.UTC)

var (
	issuerOnce sync.Once
	issuerKey  *rsa.PrivateKey
	issuerErr  error
)

type certOptions struct {
	subject  pkix.Name
	serial   int64
	key      crypto.Signer
	dns      string
	email    string
	uri      string
	upn      string
	rawSANs  bool
	notAfter time.Time
}

// newTestCert issues a self-contained certificate signed by a throwaway
// RSA issuer named "CN=Test CA,O=Example".
func newTestCert(t *testing.T, opts certOptions) *x509.Certificate {
	t.Helper()

	issuerOnce.Do(func() {
		issuerKey, issuerErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	if issuerErr != nil {
		t.Fatalf("generate issuer key: %v", issuerErr)
	}
	issuer := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "Test CA", Organization: []string{"Example"}},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              testNotAfter.Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
		PublicKey:             &issuerKey.PublicKey,
	}

	var err error
	key := opts.key
	if key == nil {
		key, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			t.Fatalf("generate key: %v", err)
		}
	}

	serial := opts.serial
	if serial == 0 {
		serial = 0x1234abcd
	}
	notAfter := opts.notAfter
	if notAfter.IsZero() {
		notAfter = testNotAfter
	}

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(serial),
		Subject:      opts.subject,
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     notAfter,
	}
	if opts.rawSANs || opts.upn != "" {
		tmpl.ExtraExtensions = []pkix.Extension{sanExtension(t, opts)}
	} else {
		if opts.dns != "" {
			tmpl.DNSNames = []string{opts.dns}
		}
		if opts.email != "" {
			tmpl.EmailAddresses = []string{opts.email}
		}
		if opts.uri != "" {
			u, err := url.Parse(opts.uri)
			if err != nil {
				t.Fatalf("parse uri: %v", err)
			}
			tmpl.URIs = []*url.URL{u}
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, issuer, key.Public(), issuerKey)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}
	return cert
}

// sanExtension encodes the SAN extension by hand so it can carry a UPN
// otherName, which crypto/x509 cannot emit.
func sanExtension(t *testing.T, opts certOptions) pkix.Extension {
	t.Helper()

	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		if opts.upn != "" {
			b.AddASN1(otherNameTag, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(oidUPN)
				b.AddASN1(otherNameTag, func(b *cryptobyte.Builder) {
					b.AddASN1(cryptobyte_asn1.UTF8String, func(b *cryptobyte.Builder) {
						b.AddBytes([]byte(opts.upn))
					})
				})
			})
		}
		if opts.email != "" {
			b.AddASN1(cryptobyte_asn1.Tag(1).ContextSpecific(), func(b *cryptobyte.Builder) {
				b.AddBytes([]byte(opts.email))
			})
		}
		if opts.dns != "" {
			b.AddASN1(cryptobyte_asn1.Tag(2).ContextSpecific(), func(b *cryptobyte.Builder) {
				b.AddBytes([]byte(opts.dns))
			})
		}
		if opts.uri != "" {
			b.AddASN1(cryptobyte_asn1.Tag(6).ContextSpecific(), func(b *cryptobyte.Builder) {
				b.AddBytes([]byte(opts.uri))
			})
		}
	})

	der, err := b.Bytes()
	if err != nil {
		t.Fatalf("encode SAN extension: %v", err)
	}
	return pkix.Extension{Id: oidSubjectAltName, Value: der}
}

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate RSA key: %v", err)
	}
	return key
}

// claimTypes lists the claim types of p in order.
func claimTypes(p *Principal) []string {
	var out []string
	for _, c := range p.Claims() {
		out = append(out, c.Type)
	}
	return out
}

// fakeCertificate is a Certificate with every field set by hand.
type fakeCertificate struct {
	issuer     string
	thumbprint string
	subject    string
	serial     string
	expiration string
	keyKind    KeyKind
	keyValue   string
	keyErr     error
	names      map[NameType]string
	keyCalls   int
}

func (f *fakeCertificate) Issuer() string           { return f.issuer }
func (f *fakeCertificate) Thumbprint() string       { return f.thumbprint }
func (f *fakeCertificate) SubjectName() string      { return f.subject }
func (f *fakeCertificate) SerialNumber() string     { return f.serial }
func (f *fakeCertificate) ExpirationString() string { return f.expiration }
func (f *fakeCertificate) PublicKeyKind() KeyKind   { return f.keyKind }
func (f *fakeCertificate) NameInfo(n NameType) string {
	return f.names[n]
}
func (f *fakeCertificate) PublicKeyValue() (string, error) {
	f.keyCalls++
	return f.keyValue, f.keyErr
}
