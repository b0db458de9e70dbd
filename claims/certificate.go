package claims

// KeyKind classifies a certificate's public key.
type KeyKind int

const (
	// KeyKindOther covers every key without a key-value claim (EC, Ed25519, ...).
	KeyKindOther KeyKind = iota
	KeyKindRSA
	KeyKindDSA
)

func (k KeyKind) String() string {
	switch k {
	case KeyKindRSA:
		return "rsa"
	case KeyKindDSA:
		return "dsa"
	default:
		return "other"
	}
}

// NameType selects a name lookup on a certificate.
type NameType int

const (
	NameDNS NameType = iota
	NameSimple
	NameEmail
	NameUPN
	NameURI
)

func (n NameType) String() string {
	switch n {
	case NameDNS:
		return "dns"
	case NameSimple:
		return "simple"
	case NameEmail:
		return "email"
	case NameUPN:
		return "upn"
	case NameURI:
		return "uri"
	default:
		return "unknown"
	}
}

// Certificate is the parsed certificate a principal is built from.
//
// Contract:
// - Lookups never fail; an absent field is reported as "".
// - PublicKeyValue is only called when PublicKeyKind is RSA or DSA and
//   its errors are returned to the caller unchanged.
// - Implementations must be safe for concurrent reads.
type Certificate interface {
	// Issuer returns the issuer distinguished name.
	Issuer() string

	// Thumbprint returns the certificate hash as uppercase hex.
	Thumbprint() string

	// SubjectName returns the subject distinguished name.
	SubjectName() string

	// SerialNumber returns the serial number as uppercase hex.
	SerialNumber() string

	// ExpirationString returns the not-after time.
	ExpirationString() string

	// PublicKeyKind classifies the subject public key.
	PublicKeyKind() KeyKind

	// PublicKeyValue serializes an RSA or DSA public key.
	PublicKeyValue() (string, error)

	// NameInfo returns the requested name, or "" if the certificate has none.
	NameInfo(nameType NameType) string
}
