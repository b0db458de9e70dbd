package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonwraymond/idmodel/claims"
)

// JWTConfig configures the JWT authenticator.
type JWTConfig struct {
	// Issuer is the expected token issuer (iss claim).
	Issuer string

	// Audience is the expected token audience (aud claim).
	Audience string

	// HeaderName is the header containing the token.
	// Default: "Authorization"
	HeaderName string

	// TokenPrefix is the prefix before the token in the header.
	// Default: "Bearer "
	TokenPrefix string

	// PrincipalClaim is the token claim mapped to the name claim.
	// Default: "sub"
	PrincipalClaim string

	// RolesClaim is the token claim mapped to role claims.
	RolesClaim string
}

// KeyProvider retrieves signing keys for JWT validation.
type KeyProvider interface {
	// GetKey returns the key for the given key ID.
	GetKey(ctx context.Context, keyID string) (any, error)
}

// StaticKeyProvider provides a static signing key.
type StaticKeyProvider struct {
	key any
}

// NewStaticKeyProvider creates a static key provider. key is an HMAC
// secret ([]byte) or a public key (*rsa.PublicKey, *ecdsa.PublicKey, ...).
func NewStaticKeyProvider(key any) *StaticKeyProvider {
	return &StaticKeyProvider{key: key}
}

// GetKey returns the static key.
func (p *StaticKeyProvider) GetKey(_ context.Context, _ string) (any, error) {
	return p.key, nil
}

// dateClaims are NumericDate claims rendered as xsd:dateTime.
var dateClaims = map[string]string{
	"exp": claims.TypeExpiration,
	"iat": "iat",
	"nbf": "nbf",
}

// JWTAuthenticator validates bearer JWTs and maps their claims onto a
// principal with authentication type "jwt".
type JWTAuthenticator struct {
	config      JWTConfig
	keyProvider KeyProvider
	parser      *jwt.Parser
}

// NewJWTAuthenticator creates a new JWT authenticator.
func NewJWTAuthenticator(config JWTConfig, keyProvider KeyProvider) *JWTAuthenticator {
	if config.HeaderName == "" {
		config.HeaderName = "Authorization"
	}
	if config.TokenPrefix == "" {
		config.TokenPrefix = "Bearer "
	}
	if config.PrincipalClaim == "" {
		config.PrincipalClaim = "sub"
	}

	var opts []jwt.ParserOption
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	if config.Audience != "" {
		opts = append(opts, jwt.WithAudience(config.Audience))
	}

	return &JWTAuthenticator{
		config:      config,
		keyProvider: keyProvider,
		parser:      jwt.NewParser(opts...),
	}
}

// Name returns "jwt".
func (a *JWTAuthenticator) Name() string {
	return string(AuthMethodJWT)
}

// Supports returns true if the request carries a token with the
// configured prefix.
func (a *JWTAuthenticator) Supports(_ context.Context, req *AuthRequest) bool {
	return strings.HasPrefix(req.GetHeader(a.config.HeaderName), a.config.TokenPrefix)
}

// Authenticate validates the token and builds the principal.
func (a *JWTAuthenticator) Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error) {
	header := req.GetHeader(a.config.HeaderName)
	tokenString, found := strings.CutPrefix(header, a.config.TokenPrefix)
	tokenString = strings.TrimSpace(tokenString)
	if !found || tokenString == "" {
		return AuthFailure(ErrMissingCredentials, AuthMethodJWT), nil
	}

	token, err := a.parser.Parse(tokenString, func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		return a.keyProvider.GetKey(ctx, kid)
	})
	if err != nil {
		return AuthFailure(classifyJWTError(err), AuthMethodJWT), nil
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return AuthFailure(ErrTokenMalformed, AuthMethodJWT), nil
	}

	return AuthSuccess(a.buildPrincipal(mapClaims), AuthMethodJWT), nil
}

func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	default:
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
}

// buildPrincipal emits the name claim, then role claims, then every other
// scalar token claim in key order. All claims are issued by the token
// issuer.
func (a *JWTAuthenticator) buildPrincipal(mc jwt.MapClaims) *claims.Principal {
	issuer, _ := mc["iss"].(string)
	if issuer == "" {
		issuer = claims.DefaultIssuer
	}

	var out []claims.Claim
	if name, ok := mc[a.config.PrincipalClaim].(string); ok {
		out = append(out, claims.NewClaimWithIssuer(claims.TypeName, name, claims.ValueTypeString, issuer))
	}

	if a.config.RolesClaim != "" {
		for _, role := range claims.CreateRoles(stringValues(mc[a.config.RolesClaim])) {
			role.Issuer = issuer
			out = append(out, role)
		}
	}

	keys := make([]string, 0, len(mc))
	for k := range mc {
		if k == a.config.PrincipalClaim || k == a.config.RolesClaim {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if claimType, ok := dateClaims[k]; ok {
			if secs, ok := mc[k].(float64); ok {
				value := time.Unix(int64(secs), 0).UTC().Format(time.RFC3339)
				out = append(out, claims.NewClaimWithIssuer(claimType, value, claims.ValueTypeDateTime, issuer))
			}
			continue
		}
		for _, v := range stringValues(mc[k]) {
			out = append(out, claims.NewClaimWithIssuer(k, v, claims.ValueTypeString, issuer))
		}
	}

	return claims.Create(string(AuthMethodJWT), out...)
}

// stringValues flattens a decoded JSON value into strings. Objects and
// nulls are dropped.
func stringValues(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case bool:
		return []string{strconv.FormatBool(val)}
	case float64:
		return []string{strconv.FormatFloat(val, 'f', -1, 64)}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			switch item.(type) {
			case string, bool, float64:
				out = append(out, stringValues(item)...)
			}
		}
		return out
	case []string:
		return val
	default:
		return nil
	}
}

// Ensure JWTAuthenticator implements Authenticator
var _ Authenticator = (*JWTAuthenticator)(nil)

// Ensure StaticKeyProvider implements KeyProvider
var _ KeyProvider = (*StaticKeyProvider)(nil)
