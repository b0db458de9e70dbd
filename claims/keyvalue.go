package claims

import (
	"crypto"
	"crypto/dsa" //nolint:staticcheck // DSA keys still appear in legacy certificates.
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"github.com/beevik/etree"
)

const (
	rsaKeyValueTag = "RSAKeyValue"
	dsaKeyValueTag = "DSAKeyValue"
)

// MarshalKeyValue encodes an RSA or DSA public key as an XML-DSig
// RSAKeyValue or DSAKeyValue element. Integers are base64 of their
// big-endian bytes.
func MarshalKeyValue(pub crypto.PublicKey) (string, error) {
	doc := etree.NewDocument()

	switch k := pub.(type) {
	case *rsa.PublicKey:
		root := doc.CreateElement(rsaKeyValueTag)
		addInt(root, "Modulus", k.N)
		addInt(root, "Exponent", big.NewInt(int64(k.E)))
	case *dsa.PublicKey:
		root := doc.CreateElement(dsaKeyValueTag)
		addInt(root, "P", k.P)
		addInt(root, "Q", k.Q)
		addInt(root, "G", k.G)
		addInt(root, "Y", k.Y)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedKey, pub)
	}

	return doc.WriteToString()
}

// ParseKeyValue decodes a document produced by MarshalKeyValue into an
// *rsa.PublicKey or *dsa.PublicKey.
func ParseKeyValue(s string) (crypto.PublicKey, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKeyValue, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedKeyValue)
	}

	switch root.Tag {
	case rsaKeyValueTag:
		n, err := readInt(root, "Modulus")
		if err != nil {
			return nil, err
		}
		e, err := readInt(root, "Exponent")
		if err != nil {
			return nil, err
		}
		if !e.IsInt64() || e.Int64() <= 0 || e.Int64() > 1<<31-1 {
			return nil, fmt.Errorf("%w: exponent out of range", ErrMalformedKeyValue)
		}
		return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil

	case dsaKeyValueTag:
		var parts [4]*big.Int
		for i, name := range []string{"P", "Q", "G", "Y"} {
			v, err := readInt(root, name)
			if err != nil {
				return nil, err
			}
			parts[i] = v
		}
		return &dsa.PublicKey{
			Parameters: dsa.Parameters{P: parts[0], Q: parts[1], G: parts[2]},
			Y:          parts[3],
		}, nil

	default:
		return nil, fmt.Errorf("%w: unexpected element %q", ErrMalformedKeyValue, root.Tag)
	}
}

func addInt(parent *etree.Element, name string, v *big.Int) {
	parent.CreateElement(name).SetText(base64.StdEncoding.EncodeToString(v.Bytes()))
}

func readInt(parent *etree.Element, name string) (*big.Int, error) {
	el := parent.SelectElement(name)
	if el == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedKeyValue, name)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(el.Text()))
	if err != nil || len(raw) == 0 {
		return nil, fmt.Errorf("%w: invalid %s", ErrMalformedKeyValue, name)
	}
	return new(big.Int).SetBytes(raw), nil
}
