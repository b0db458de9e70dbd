package claims

import "errors"

// Sentinel errors for principal construction.
var (
	// ErrNilCertificate indicates a nil certificate was passed to a factory.
	ErrNilCertificate = errors.New("claims: certificate is nil")

	// ErrUnsupportedKey indicates a public key that has no key-value encoding.
	ErrUnsupportedKey = errors.New("claims: unsupported public key")

	// ErrMalformedKeyValue indicates an RSAKeyValue/DSAKeyValue document
	// that cannot be decoded.
	ErrMalformedKeyValue = errors.New("claims: malformed key value")
)
