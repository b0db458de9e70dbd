// Package claims builds claims-based principals.
//
// A Principal wraps one Identity, and an Identity is an ordered list of
// Claims tagged with the way the subject authenticated. Principals are
// produced from nothing (Anonymous), from caller supplied claims (Create),
// or from an X.509 certificate (FromCertificate, FromX509).
//
// All values are immutable once built and every constructor returns a
// fresh graph, so principals can be shared between goroutines freely.
package claims
