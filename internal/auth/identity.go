package auth

import (
	"context"
	"strings"
)

// RoleSeller is the role allowed to manage products.
const RoleSeller = "SELLER"

// Identity is the caller resolved at the transport boundary.
type Identity struct {
	UserID string
	Role   string
}

// IsSeller reports whether the identity carries the seller role.
// A "ROLE_" prefix is accepted.
func (i Identity) IsSeller() bool {
	role := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(i.Role)), "ROLE_")
	return role == RoleSeller
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the identity.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
