package secret

import "errors"

var (
	ErrMissingEnv      = errors.New("secret: missing required environment variables")
	ErrUnknownProvider = errors.New("secret: provider not registered")
	ErrInvalidRef      = errors.New("secret: invalid reference")
	ErrEmptySecret     = errors.New("secret: resolved to an empty value")
)
