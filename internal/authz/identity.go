package authz

import (
	"context"
	"strings"
)

// SystemRole is the platform-wide role carried by an authenticated identity.
// It is supplied by the authentication layer; the engine re-checks the
// persisted flag through the GrantStore on every decision.
type SystemRole string

const (
	SystemRoleUser  SystemRole = "user"
	SystemRoleAdmin SystemRole = "system_admin"
)

// Identity is an already-authenticated caller. A nil *Identity means the
// request is anonymous.
type Identity struct {
	UserID     string
	SystemRole SystemRole
}

type identityContextKey struct{}

// ContextWithIdentity attaches the authenticated identity to the context.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, &identity)
}

// IdentityFromContext extracts the authenticated identity from the context.
// The second return value is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	v, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok || v == nil || strings.TrimSpace(v.UserID) == "" {
		return nil, false
	}
	return v, true
}
