package auth

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/product-service/internal/config"
)

// Resolver reads the caller identity from an incoming request.
type Resolver interface {
	Resolve(r *http.Request) (Identity, error)
}

// NewResolver returns the resolver selected by cfg.Mode.
func NewResolver(cfg config.Auth) (Resolver, error) {
	switch cfg.Mode {
	case config.AuthModeHeader:
		return NewHeaderResolver(cfg.UserIDHeader, cfg.RoleHeader), nil
	case config.AuthModeJWT:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("jwt auth mode requires AUTH_JWT_SECRET")
		}
		return NewJWTResolver([]byte(cfg.JWTSecret), cfg.JWTIssuer), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", cfg.Mode)
	}
}
