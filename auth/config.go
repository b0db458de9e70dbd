package auth

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the file form of an authenticator chain.
//
//	authenticators:
//	  - type: x509
//	    options:
//	      include_all_claims: true
//	      trust_domain: example.org
//	  - type: jwt
//	    options:
//	      secret: ${JWT_SECRET}
//	  - type: jwt
//	    options:
//	      public_key: secretref:file:/run/secrets/issuer.pem
//	  - type: anonymous
type Config struct {
	Authenticators []AuthenticatorConfig `yaml:"authenticators"`

	// StopOnFirst mirrors CompositeAuthenticator.StopOnFirst. Default: true.
	StopOnFirst *bool `yaml:"stop_on_first,omitempty"`
}

// AuthenticatorConfig names a registered authenticator and its options.
type AuthenticatorConfig struct {
	Type    string         `yaml:"type"`
	Options map[string]any `yaml:"options,omitempty"`
}

// ParseConfig decodes a YAML config. Key material options are resolved
// later, when the authenticator is built.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads and decodes a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read auth config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks that at least one authenticator is configured and every
// entry has a type.
func (c *Config) Validate() error {
	if len(c.Authenticators) == 0 {
		return fmt.Errorf("%w: no authenticators", ErrInvalidConfig)
	}
	for i, a := range c.Authenticators {
		if a.Type == "" {
			return fmt.Errorf("%w: authenticator %d has no type", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Build creates the configured chain. A nil registry means DefaultRegistry.
func (c *Config) Build(reg *Registry) (*CompositeAuthenticator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = DefaultRegistry
	}

	auths := make([]Authenticator, 0, len(c.Authenticators))
	for _, ac := range c.Authenticators {
		a, err := reg.CreateAuthenticator(ac.Type, ac.Options)
		if err != nil {
			return nil, fmt.Errorf("build %s authenticator: %w", ac.Type, err)
		}
		auths = append(auths, a)
	}

	composite := NewCompositeAuthenticator(auths...)
	if c.StopOnFirst != nil {
		composite.StopOnFirst = *c.StopOnFirst
	}
	return composite, nil
}
