package claims

import (
	"crypto/x509/pkix"
	"encoding/asn1"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	oidSubjectAltName = asn1.ObjectIdentifier{2, 5, 29, 17}
	oidUPN            = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 20, 2, 3}
)

// otherNameTag is GeneralName's otherName: [0] IMPLICIT SEQUENCE.
var otherNameTag = cryptobyte_asn1.Tag(0).ContextSpecific().Constructed()

// upnFromExtensions returns the first UPN otherName in the subject
// alternative name extension. crypto/x509 skips otherName entries, so
// the extension is walked by hand. Malformed entries yield "".
func upnFromExtensions(exts []pkix.Extension) string {
	for _, ext := range exts {
		if ext.Id.Equal(oidSubjectAltName) {
			return parseUPN(ext.Value)
		}
	}
	return ""
}

func parseUPN(der []byte) string {
	input := cryptobyte.String(der)
	var names cryptobyte.String
	if !input.ReadASN1(&names, cryptobyte_asn1.SEQUENCE) {
		return ""
	}

	for !names.Empty() {
		var name cryptobyte.String
		var tag cryptobyte_asn1.Tag
		if !names.ReadAnyASN1(&name, &tag) {
			return ""
		}
		if tag != otherNameTag {
			continue
		}

		var typeID asn1.ObjectIdentifier
		if !name.ReadASN1ObjectIdentifier(&typeID) || !typeID.Equal(oidUPN) {
			continue
		}

		// value [0] EXPLICIT UTF8String
		var value, upn cryptobyte.String
		if !name.ReadASN1(&value, otherNameTag) {
			continue
		}
		if !value.ReadASN1(&upn, cryptobyte_asn1.UTF8String) {
			continue
		}
		return string(upn)
	}
	return ""
}
