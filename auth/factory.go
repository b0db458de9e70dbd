package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonwraymond/idmodel/secret"
)

// AuthenticatorFactory creates an authenticator from configuration.
type AuthenticatorFactory func(cfg map[string]any) (Authenticator, error)

// Registry manages authenticator factories by name.
type Registry struct {
	mu             sync.RWMutex
	authenticators map[string]AuthenticatorFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		authenticators: make(map[string]AuthenticatorFactory),
	}
}

// RegisterAuthenticator adds an authenticator factory.
func (r *Registry) RegisterAuthenticator(name string, factory AuthenticatorFactory) error {
	if name == "" || factory == nil {
		return errors.New("invalid authenticator registration")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.authenticators[name]; exists {
		return fmt.Errorf("authenticator %q already registered", name)
	}

	r.authenticators[name] = factory
	return nil
}

// CreateAuthenticator instantiates an authenticator by name.
func (r *Registry) CreateAuthenticator(name string, cfg map[string]any) (Authenticator, error) {
	r.mu.RLock()
	factory, ok := r.authenticators[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAuthenticator, name)
	}
	if cfg == nil {
		cfg = map[string]any{}
	}

	return factory(cfg)
}

// ListAuthenticators returns registered authenticator names.
func (r *Registry) ListAuthenticators() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.authenticators))
	for name := range r.authenticators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global registry with the built-in factories
// "x509", "jwt" and "anonymous".
var DefaultRegistry = NewRegistry()

func init() {
	_ = DefaultRegistry.RegisterAuthenticator(string(AuthMethodX509), newCertificateFromConfig)
	_ = DefaultRegistry.RegisterAuthenticator(string(AuthMethodJWT), newJWTFromConfig)
	_ = DefaultRegistry.RegisterAuthenticator(string(AuthMethodAnonymous), func(map[string]any) (Authenticator, error) {
		return AnonymousAuthenticator{}, nil
	})
}

func newCertificateFromConfig(cfg map[string]any) (Authenticator, error) {
	config := CertificateConfig{}

	if all, ok := cfg["include_all_claims"].(bool); ok {
		config.IncludeAllClaims = all
	}
	if td, ok := cfg["trust_domain"].(string); ok {
		config.TrustDomain = td
	}
	if roles, ok := cfg["roles"].(map[string]any); ok {
		config.Roles = make(map[string][]string, len(roles))
		for thumbprint, names := range roles {
			config.Roles[thumbprint] = stringValues(names)
		}
	}

	return NewCertificateAuthenticator(config)
}

func newJWTFromConfig(cfg map[string]any) (Authenticator, error) {
	config := JWTConfig{}

	if issuer, ok := cfg["issuer"].(string); ok {
		config.Issuer = issuer
	}
	if audience, ok := cfg["audience"].(string); ok {
		config.Audience = audience
	}
	if headerName, ok := cfg["header_name"].(string); ok {
		config.HeaderName = headerName
	}
	if tokenPrefix, ok := cfg["token_prefix"].(string); ok {
		config.TokenPrefix = tokenPrefix
	}
	if principalClaim, ok := cfg["principal_claim"].(string); ok {
		config.PrincipalClaim = principalClaim
	}
	if rolesClaim, ok := cfg["roles_claim"].(string); ok {
		config.RolesClaim = rolesClaim
	}

	key, err := jwtKeyFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewJWTAuthenticator(config, NewStaticKeyProvider(key)), nil
}

// jwtKeyFromConfig resolves either "secret" (HMAC) or "public_key" (PEM
// RSA, ECDSA or Ed25519) through secret.Default, so both accept
// ${VAR} and secretref: values.
func jwtKeyFromConfig(cfg map[string]any) (any, error) {
	hmacRef, _ := cfg["secret"].(string)
	pemRef, _ := cfg["public_key"].(string)

	switch {
	case hmacRef != "" && pemRef != "":
		return nil, fmt.Errorf("%w: jwt accepts secret or public_key, not both", ErrInvalidConfig)
	case hmacRef != "":
		v, err := secret.Default().ResolveValue(context.Background(), hmacRef)
		if err != nil {
			return nil, fmt.Errorf("%w: jwt secret: %w", ErrInvalidConfig, err)
		}
		return []byte(v), nil
	case pemRef != "":
		v, err := secret.Default().ResolveValue(context.Background(), pemRef)
		if err != nil {
			return nil, fmt.Errorf("%w: jwt public_key: %w", ErrInvalidConfig, err)
		}
		return parsePublicKeyPEM([]byte(v))
	default:
		return nil, fmt.Errorf("%w: jwt requires a secret or public_key", ErrInvalidConfig)
	}
}

func parsePublicKeyPEM(data []byte) (any, error) {
	if key, err := jwt.ParseRSAPublicKeyFromPEM(data); err == nil {
		return key, nil
	}
	if key, err := jwt.ParseECPublicKeyFromPEM(data); err == nil {
		return key, nil
	}
	key, err := jwt.ParseEdPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("%w: jwt public_key is not an RSA, ECDSA or Ed25519 PEM key", ErrInvalidConfig)
	}
	return key, nil
}
