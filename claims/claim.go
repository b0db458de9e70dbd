package claims

// Well-known claim types.
const (
	TypeName                  = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
	TypeRole                  = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
	TypeThumbprint            = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/thumbprint"
	TypeX500DistinguishedName = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/x500distinguishedname"
	TypeSerialNumber          = "http://schemas.microsoft.com/ws/2008/06/identity/claims/serialnumber"
	TypeDNS                   = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/dns"
	TypeEmail                 = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
	TypeUPN                   = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/upn"
	TypeURI                   = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/uri"
	TypeRSA                   = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/rsa"
	TypeDSA                   = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/dsa"
	TypeExpiration            = "http://schemas.microsoft.com/ws/2008/06/identity/claims/expiration"

	// TypeIssuer carries the issuer DN of a certificate principal.
	TypeIssuer = "issuer"
)

// Well-known claim value types.
const (
	ValueTypeString       = "http://www.w3.org/2001/XMLSchema#string"
	ValueTypeBase64Binary = "http://www.w3.org/2001/XMLSchema#base64Binary"
	ValueTypeDateTime     = "http://www.w3.org/2001/XMLSchema#dateTime"
	ValueTypeRSAKeyValue  = "http://www.w3.org/2000/09/xmldsig#RSAKeyValue"
	ValueTypeDSAKeyValue  = "http://www.w3.org/2000/09/xmldsig#DSAKeyValue"
)

// DefaultIssuer is the issuer recorded on claims created without one.
const DefaultIssuer = "LOCAL AUTHORITY"

// Claim is a single attributed assertion about a subject.
type Claim struct {
	// Type identifies what is asserted (e.g. TypeName, TypeRole).
	Type string

	// Value is the asserted value, encoded as described by ValueType.
	Value string

	// ValueType describes the encoding of Value (e.g. ValueTypeString).
	ValueType string

	// Issuer is the authority that made the assertion.
	Issuer string
}

// NewClaim creates a string claim issued by DefaultIssuer.
func NewClaim(claimType, value string) Claim {
	return Claim{
		Type:      claimType,
		Value:     value,
		ValueType: ValueTypeString,
		Issuer:    DefaultIssuer,
	}
}

// NewClaimWithIssuer creates a claim with an explicit value type and issuer.
// An empty valueType defaults to ValueTypeString.
func NewClaimWithIssuer(claimType, value, valueType, issuer string) Claim {
	if valueType == "" {
		valueType = ValueTypeString
	}
	return Claim{
		Type:      claimType,
		Value:     value,
		ValueType: valueType,
		Issuer:    issuer,
	}
}

// String returns "type: value".
func (c Claim) String() string {
	return c.Type + ": " + c.Value
}
