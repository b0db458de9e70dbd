package cache

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/jonwraymond/idmodel/claims"
)

type principalRecord struct {
	AuthenticationType string        `cbor:"1,keyasint"`
	Claims             []claimRecord `cbor:"2,keyasint"`
}

type claimRecord struct {
	Type      string `cbor:"1,keyasint"`
	Value     string `cbor:"2,keyasint"`
	ValueType string `cbor:"3,keyasint,omitempty"`
	Issuer    string `cbor:"4,keyasint,omitempty"`
}

var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// EncodePrincipal serializes p as deterministic CBOR. Claim order and
// authentication type are preserved.
func EncodePrincipal(p *claims.Principal) ([]byte, error) {
	all := p.Claims()
	rec := principalRecord{
		AuthenticationType: p.AuthenticationType(),
		Claims:             make([]claimRecord, len(all)),
	}
	for i, c := range all {
		rec.Claims[i] = claimRecord{Type: c.Type, Value: c.Value, ValueType: c.ValueType, Issuer: c.Issuer}
	}
	return encMode.Marshal(rec)
}

// DecodePrincipal reverses EncodePrincipal.
func DecodePrincipal(data []byte) (*claims.Principal, error) {
	var rec principalRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	out := make([]claims.Claim, len(rec.Claims))
	for i, c := range rec.Claims {
		out[i] = claims.Claim{Type: c.Type, Value: c.Value, ValueType: c.ValueType, Issuer: c.Issuer}
	}
	return claims.Create(rec.AuthenticationType, out...), nil
}
