package claims

import (
	"crypto/dsa" //nolint:staticcheck // DSA keys still appear in legacy certificates.
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // thumbprints are SHA-1 by convention, not a security boundary.
	"crypto/x509"
	"encoding/asn1"
	"encoding/hex"
	"strings"
	"time"
)

// oidEmailAddress is the PKCS #9 emailAddress subject attribute.
var oidEmailAddress = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}

// X509Certificate adapts a parsed *x509.Certificate to Certificate.
type X509Certificate struct {
	cert *x509.Certificate
}

// NewX509Certificate wraps cert. The certificate must not be modified
// while the adapter is in use. FromCertificate rejects an adapter over a
// nil certificate with ErrNilCertificate.
func NewX509Certificate(cert *x509.Certificate) *X509Certificate {
	return &X509Certificate{cert: cert}
}

// Certificate returns the wrapped certificate.
func (c *X509Certificate) Certificate() *x509.Certificate {
	return c.cert
}

// Issuer returns the issuer DN in RFC 2253 form.
func (c *X509Certificate) Issuer() string {
	return c.cert.Issuer.String()
}

// Thumbprint returns the uppercase hex SHA-1 of the DER encoding.
func (c *X509Certificate) Thumbprint() string {
	sum := sha1.Sum(c.cert.Raw) //nolint:gosec
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// SubjectName returns the subject DN in RFC 2253 form.
func (c *X509Certificate) SubjectName() string {
	return c.cert.Subject.String()
}

// SerialNumber returns the serial as uppercase big-endian hex.
func (c *X509Certificate) SerialNumber() string {
	if c.cert.SerialNumber == nil {
		return ""
	}
	b := c.cert.SerialNumber.Bytes()
	if len(b) == 0 {
		return "00"
	}
	return strings.ToUpper(hex.EncodeToString(b))
}

// ExpirationString returns NotAfter in UTC as RFC 3339.
func (c *X509Certificate) ExpirationString() string {
	if c.cert.NotAfter.IsZero() {
		return ""
	}
	return c.cert.NotAfter.UTC().Format(time.RFC3339)
}

// PublicKeyKind classifies the subject public key.
func (c *X509Certificate) PublicKeyKind() KeyKind {
	switch c.cert.PublicKey.(type) {
	case *rsa.PublicKey:
		return KeyKindRSA
	case *dsa.PublicKey:
		return KeyKindDSA
	default:
		return KeyKindOther
	}
}

// PublicKeyValue serializes the public key as an XML-DSig key value.
func (c *X509Certificate) PublicKeyValue() (string, error) {
	return MarshalKeyValue(c.cert.PublicKey)
}

// NameInfo returns the requested subject name.
//
//   - NameDNS: first DNS SAN, falling back to the subject CN.
//   - NameSimple: subject CN, then OU, then O, then the email name.
//   - NameEmail: subject emailAddress attribute, then the first email SAN.
//   - NameUPN: first Microsoft UPN otherName SAN.
//   - NameURI: first URI SAN.
func (c *X509Certificate) NameInfo(nameType NameType) string {
	switch nameType {
	case NameDNS:
		if len(c.cert.DNSNames) > 0 {
			return c.cert.DNSNames[0]
		}
		return c.cert.Subject.CommonName
	case NameSimple:
		return c.simpleName()
	case NameEmail:
		return c.emailName()
	case NameUPN:
		return upnFromExtensions(c.cert.Extensions)
	case NameURI:
		if len(c.cert.URIs) > 0 && c.cert.URIs[0] != nil {
			return c.cert.URIs[0].String()
		}
		return ""
	default:
		return ""
	}
}

func (c *X509Certificate) simpleName() string {
	subject := c.cert.Subject
	if subject.CommonName != "" {
		return subject.CommonName
	}
	if len(subject.OrganizationalUnit) > 0 {
		return subject.OrganizationalUnit[0]
	}
	if len(subject.Organization) > 0 {
		return subject.Organization[0]
	}
	return c.emailName()
}

func (c *X509Certificate) emailName() string {
	for _, attr := range c.cert.Subject.Names {
		if !attr.Type.Equal(oidEmailAddress) {
			continue
		}
		if s, ok := attr.Value.(string); ok && s != "" {
			return s
		}
	}
	if len(c.cert.EmailAddresses) > 0 {
		return c.cert.EmailAddresses[0]
	}
	return ""
}

// Ensure X509Certificate implements Certificate
var _ Certificate = (*X509Certificate)(nil)
