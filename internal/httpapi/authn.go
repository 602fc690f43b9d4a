package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"citycarbon.org/internal/authn"
	"citycarbon.org/internal/authz"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// withAuth verifies a bearer token when one is supplied and attaches the
// resulting identity to the request context. A request without an
// Authorization header proceeds anonymously; the guard decides whether the
// target resource is publicly readable.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		header := strings.TrimSpace(r.Header.Get(authHeader))
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			respondError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := authn.ParseAndValidate(token)
		if err != nil {
			respondError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := authz.ContextWithIdentity(r.Context(), claims.Identity())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFrom returns the authenticated identity, or nil for anonymous
// requests.
func identityFrom(r *http.Request) *authz.Identity {
	if identity, ok := authz.IdentityFromContext(r.Context()); ok {
		return identity
	}
	return nil
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
