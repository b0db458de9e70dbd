// Package auth authenticates requests into claims principals.
//
// Authenticators turn request credentials (TLS peer certificates, bearer
// tokens, or nothing at all) into a *claims.Principal. They can be
// chained with CompositeAuthenticator, built by name from a Registry or a
// YAML config, and instrumented with the observe package. The package is
// transport-agnostic; WithAuthHeaders and Middleware adapt it to net/http.
package auth
