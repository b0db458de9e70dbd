package auth

import (
	"crypto/x509"
	"errors"
	"net/http"
)

// WithAuthHeaders is HTTP middleware that copies request headers and the
// verified TLS client chain into the context.
//
// Usage:
//
//	mux.Handle("/api", auth.WithAuthHeaders(apiHandler))
func WithAuthHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithHeaders(r.Context(), r.Header)
		if certs := peerCertificates(r); len(certs) > 0 {
			ctx = WithPeerCertificates(ctx, certs)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Middleware authenticates every request with a and stores the resulting
// principal in the request context. Requests no authenticator supports,
// or that fail authentication, get 401; internal errors get 500.
//
// The returned function has the func(http.Handler) http.Handler shape
// used by chi and most routers.
func Middleware(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := &AuthRequest{
				Headers:          r.Header,
				PeerCertificates: peerCertificates(r),
				Resource:         r.URL.Path,
			}

			ctx := r.Context()
			if !a.Supports(ctx, req) {
				http.Error(w, ErrMissingCredentials.Error(), http.StatusUnauthorized)
				return
			}

			result, err := a.Authenticate(ctx, req)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !result.Authenticated {
				msg := ErrInvalidCredentials.Error()
				if result.Error != nil && !errors.Is(result.Error, ErrInvalidCredentials) {
					msg = result.Error.Error()
				}
				http.Error(w, msg, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, result.Principal)))
		})
	}
}

func peerCertificates(r *http.Request) []*x509.Certificate {
	if r.TLS == nil {
		return nil
	}
	return r.TLS.PeerCertificates
}
