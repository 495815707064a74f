package auth

import "context"

// IdentityContextKey is the fiber locals key the middleware stores the
// authenticated identity under.
const IdentityContextKey = "auth_identity"

type contextKey int

const identityKey contextKey = iota

// WithIdentity attaches the authenticated identity to a standard context so
// non-HTTP collaborators can consume it.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext retrieves the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
