package config

import (
	"fmt"
	"strings"
)

type Auth struct {
	Mode AuthMode `env:"AUTH_MODE" envDefault:"header"`

	UserIDHeader string `env:"AUTH_USER_ID_HEADER" envDefault:"X-User-ID"`
	RoleHeader   string `env:"AUTH_ROLE_HEADER" envDefault:"X-User-Role"`

	JWTSecret string `env:"AUTH_JWT_SECRET"`
	JWTIssuer string `env:"AUTH_JWT_ISSUER"`
}

// AuthMode selects how the caller identity is read from a request.
type AuthMode uint8

const (
	AuthModeHeader AuthMode = iota
	AuthModeJWT
)

func (m AuthMode) String() string {
	if m == AuthModeJWT {
		return "jwt"
	}
	return "header"
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *AuthMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "header":
		*m = AuthModeHeader
	case "jwt":
		*m = AuthModeJWT
	default:
		return fmt.Errorf("unknown auth mode: %s", text)
	}
	return nil
}

func (m AuthMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
