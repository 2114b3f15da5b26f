package authdomain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID    uuid.UUID
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type identityKey struct{}

// WithIdentity stores the identity on the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity set by the auth middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
