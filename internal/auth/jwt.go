package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tuanvumaihuynh/product-service/internal/apperr"
)

var _ Resolver = (*JWTResolver)(nil)

// Claims are the token claims read by JWTResolver. The subject is the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTResolver validates HS256 bearer tokens.
type JWTResolver struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTResolver(secret []byte, issuer string) *JWTResolver {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &JWTResolver{
		secret: secret,
		parser: jwt.NewParser(opts...),
	}
}

func (j *JWTResolver) Resolve(r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return Identity{}, apperr.UnauthorizedErr.WithMsg("Missing bearer token")
	}

	var claims Claims
	if _, err := j.parser.ParseWithClaims(strings.TrimSpace(token), &claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}); err != nil {
		return Identity{}, apperr.UnauthorizedErr.WrapParent(err)
	}

	if claims.Subject == "" {
		return Identity{}, apperr.UnauthorizedErr.WrapParent(errors.New("token has no subject"))
	}

	return Identity{
		UserID: claims.Subject,
		Role:   claims.Role,
	}, nil
}

// SignToken issues an HS256 token for id. Used by tooling and tests.
func SignToken(secret []byte, issuer string, id Identity) (string, error) {
	claims := Claims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: id.UserID,
			Issuer:  issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
