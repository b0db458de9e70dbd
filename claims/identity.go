package claims

// Well-known authentication types.
const (
	// AuthenticationTypeX509 tags identities built from a certificate.
	AuthenticationTypeX509 = "X.509"
)

// Identity is an ordered collection of claims plus the authentication
// type that produced them. Claims keep insertion order; claim types are
// not required to be unique.
type Identity struct {
	authenticationType string
	claims             []Claim
}

// NewIdentity creates an identity owning a copy of the given claims.
func NewIdentity(authenticationType string, claims ...Claim) *Identity {
	owned := make([]Claim, len(claims))
	copy(owned, claims)
	return &Identity{
		authenticationType: authenticationType,
		claims:             owned,
	}
}

// AuthenticationType returns how the subject was authenticated.
// Empty for unauthenticated identities.
func (id *Identity) AuthenticationType() string {
	if id == nil {
		return ""
	}
	return id.authenticationType
}

// IsAuthenticated reports whether an authentication type is set.
func (id *Identity) IsAuthenticated() bool {
	return id.AuthenticationType() != ""
}

// Claims returns a copy of the identity's claims in insertion order.
func (id *Identity) Claims() []Claim {
	if id == nil {
		return []Claim{}
	}
	out := make([]Claim, len(id.claims))
	copy(out, id.claims)
	return out
}

// Len returns the number of claims.
func (id *Identity) Len() int {
	if id == nil {
		return 0
	}
	return len(id.claims)
}

// Name returns the value of the first name claim, or "".
func (id *Identity) Name() string {
	c, ok := id.FindFirst(TypeName)
	if !ok {
		return ""
	}
	return c.Value
}

// FindFirst returns the first claim of the given type.
func (id *Identity) FindFirst(claimType string) (Claim, bool) {
	if id == nil {
		return Claim{}, false
	}
	for _, c := range id.claims {
		if c.Type == claimType {
			return c, true
		}
	}
	return Claim{}, false
}

// FindAll returns every claim of the given type in order.
func (id *Identity) FindAll(claimType string) []Claim {
	var out []Claim
	if id == nil {
		return out
	}
	for _, c := range id.claims {
		if c.Type == claimType {
			out = append(out, c)
		}
	}
	return out
}

// HasClaim reports whether a claim with the given type and value exists.
func (id *Identity) HasClaim(claimType, value string) bool {
	if id == nil {
		return false
	}
	for _, c := range id.claims {
		if c.Type == claimType && c.Value == value {
			return true
		}
	}
	return false
}

// Equal reports whether both identities carry the same authentication
// type and the same claims in the same order.
func (id *Identity) Equal(other *Identity) bool {
	if id == nil || other == nil {
		return id == other
	}
	if id.authenticationType != other.authenticationType || len(id.claims) != len(other.claims) {
		return false
	}
	for i := range id.claims {
		if id.claims[i] != other.claims[i] {
			return false
		}
	}
	return true
}

// Principal is the read-only facade handed to callers. It wraps exactly
// one primary identity.
type Principal struct {
	identity *Identity
}

// NewPrincipal wraps an identity. A nil identity is replaced by an empty
// unauthenticated one.
func NewPrincipal(identity *Identity) *Principal {
	if identity == nil {
		identity = NewIdentity("")
	}
	return &Principal{identity: identity}
}

// Identity returns the primary identity.
func (p *Principal) Identity() *Identity {
	if p == nil {
		return nil
	}
	return p.identity
}

// AuthenticationType returns the primary identity's authentication type.
func (p *Principal) AuthenticationType() string {
	return p.Identity().AuthenticationType()
}

// Claims returns a copy of the primary identity's claims.
func (p *Principal) Claims() []Claim {
	return p.Identity().Claims()
}

// Name returns the first name claim value of the primary identity.
func (p *Principal) Name() string {
	return p.Identity().Name()
}

// FindFirst returns the first claim of the given type.
func (p *Principal) FindFirst(claimType string) (Claim, bool) {
	return p.Identity().FindFirst(claimType)
}

// FindAll returns every claim of the given type.
func (p *Principal) FindAll(claimType string) []Claim {
	return p.Identity().FindAll(claimType)
}

// HasClaim reports whether the principal carries the given claim.
func (p *Principal) HasClaim(claimType, value string) bool {
	return p.Identity().HasClaim(claimType, value)
}

// IsInRole reports whether the principal carries a role claim for role.
func (p *Principal) IsInRole(role string) bool {
	return p.HasClaim(TypeRole, role)
}

// IsAnonymous reports whether the principal was not authenticated.
func (p *Principal) IsAnonymous() bool {
	return !p.Identity().IsAuthenticated()
}

// Equal reports whether two principals are structurally equal.
func (p *Principal) Equal(other *Principal) bool {
	return p.Identity().Equal(other.Identity())
}
