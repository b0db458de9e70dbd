// Package cache memoizes certificate principals.
//
// Building an X.509 principal hashes the certificate, walks its subject
// alternative names and serializes its public key. PrincipalCache keys
// that work by certificate thumbprint and claim mode, stores the encoded
// principal in a Cache, and collapses concurrent misses for the same
// certificate into one build. Entries never outlive the certificate.
package cache
