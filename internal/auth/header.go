package auth

import (
	"net/http"
	"strings"

	"github.com/tuanvumaihuynh/product-service/internal/apperr"
)

var _ Resolver = (*HeaderResolver)(nil)

// HeaderResolver trusts identity headers set by an upstream gateway.
type HeaderResolver struct {
	userIDHeader string
	roleHeader   string
}

func NewHeaderResolver(userIDHeader, roleHeader string) *HeaderResolver {
	return &HeaderResolver{
		userIDHeader: userIDHeader,
		roleHeader:   roleHeader,
	}
}

func (h *HeaderResolver) Resolve(r *http.Request) (Identity, error) {
	userID := strings.TrimSpace(r.Header.Get(h.userIDHeader))
	if userID == "" {
		return Identity{}, apperr.MissingIdentityErr.WithMsg("Missing required header: " + h.userIDHeader)
	}

	return Identity{
		UserID: userID,
		Role:   strings.TrimSpace(r.Header.Get(h.roleHeader)),
	}, nil
}
