// Package secret resolves key material referenced from authenticator
// configuration.
//
// A configured value is first expanded against the environment (see
// ExpandEnvStrict). If the result is a reference of the form
//
//	secretref:<provider>:<ref>
//
// it is replaced by what the named provider returns. The built-in
// providers are "env" (ref is a variable name) and "file" (ref is a
// path, typically a mounted secret such as /run/secrets/jwt.key).
package secret
