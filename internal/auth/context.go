package auth

import (
	"context"

	"github.com/oggyb/sportly/internal/db"
)

type identityContextKey string

const identityKey identityContextKey = "auth_identity"

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID string
	Role   db.Role
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (i Identity) IsAdmin() bool { return i.Role == db.RoleAdmin }

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
