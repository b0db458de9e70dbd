package claims

import "crypto/x509"

// Anonymous returns an unauthenticated principal carrying a single empty
// name claim.
func Anonymous() *Principal {
	return NewPrincipal(NewIdentity("", NewClaim(TypeName, "")))
}

// Create returns a principal whose identity holds claims in the given
// order, tagged with authenticationType. Claims are not validated or
// deduplicated.
func Create(authenticationType string, claims ...Claim) *Principal {
	return NewPrincipal(NewIdentity(authenticationType, claims...))
}

// CreateRoles returns one role claim per name, in order. A nil or empty
// input yields an empty slice.
func CreateRoles(roleNames []string) []Claim {
	roles := make([]Claim, 0, len(roleNames))
	for _, name := range roleNames {
		roles = append(roles, NewClaim(TypeRole, name))
	}
	return roles
}

// optionalNames lists the name lookups added in extended mode, in order.
var optionalNames = []struct {
	nameType  NameType
	claimType string
}{
	{NameDNS, TypeDNS},
	{NameSimple, TypeName},
	{NameEmail, TypeEmail},
	{NameUPN, TypeUPN},
	{NameURI, TypeURI},
}

// FromCertificate builds an X.509 principal from a parsed certificate.
//
// The issuer and thumbprint claims are always present and the
// distinguished name claim is added when the subject is not empty. With
// includeAllClaims, every populated optional field (serial number, the
// DNS/simple/email/UPN/URI names, an RSA or DSA key, expiration) adds a
// claim as well. Every claim but the first is issued by the certificate
// issuer.
func FromCertificate(cert Certificate, includeAllClaims bool) (*Principal, error) {
	if cert == nil {
		return nil, ErrNilCertificate
	}
	if x, ok := cert.(*X509Certificate); ok && (x == nil || x.cert == nil) {
		return nil, ErrNilCertificate
	}

	issuer := cert.Issuer()
	claims := []Claim{
		NewClaim(TypeIssuer, issuer),
		NewClaimWithIssuer(TypeThumbprint, cert.Thumbprint(), ValueTypeBase64Binary, issuer),
	}

	if name := cert.SubjectName(); name != "" {
		claims = append(claims, NewClaimWithIssuer(TypeX500DistinguishedName, name, ValueTypeString, issuer))
	}

	if includeAllClaims {
		extended, err := extendedClaims(cert, issuer)
		if err != nil {
			return nil, err
		}
		claims = append(claims, extended...)
	}

	return Create(AuthenticationTypeX509, claims...), nil
}

func extendedClaims(cert Certificate, issuer string) ([]Claim, error) {
	var claims []Claim

	if serial := cert.SerialNumber(); serial != "" {
		claims = append(claims, NewClaimWithIssuer(TypeSerialNumber, serial, ValueTypeString, issuer))
	}

	for _, n := range optionalNames {
		if name := cert.NameInfo(n.nameType); name != "" {
			claims = append(claims, NewClaimWithIssuer(n.claimType, name, ValueTypeString, issuer))
		}
	}

	switch cert.PublicKeyKind() {
	case KeyKindRSA:
		key, err := cert.PublicKeyValue()
		if err != nil {
			return nil, err
		}
		claims = append(claims, NewClaimWithIssuer(TypeRSA, key, ValueTypeRSAKeyValue, issuer))
	case KeyKindDSA:
		key, err := cert.PublicKeyValue()
		if err != nil {
			return nil, err
		}
		claims = append(claims, NewClaimWithIssuer(TypeDSA, key, ValueTypeDSAKeyValue, issuer))
	}

	if expiration := cert.ExpirationString(); expiration != "" {
		claims = append(claims, NewClaimWithIssuer(TypeExpiration, expiration, ValueTypeDateTime, issuer))
	}

	return claims, nil
}

// FromX509 builds a principal from a parsed *x509.Certificate.
func FromX509(cert *x509.Certificate, includeAllClaims bool) (*Principal, error) {
	if cert == nil {
		return nil, ErrNilCertificate
	}
	return FromCertificate(NewX509Certificate(cert), includeAllClaims)
}
