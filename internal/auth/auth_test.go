package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-service/internal/apperr"
	"github.com/tuanvumaihuynh/product-service/internal/auth"
	"github.com/tuanvumaihuynh/product-service/internal/config"
)

func TestIdentityIsSeller(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{role: "SELLER", want: true},
		{role: "seller", want: true},
		{role: "ROLE_SELLER", want: true},
		{role: "BUYER", want: false},
		{role: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.Identity{UserID: "u", Role: tt.role}.IsSeller())
		})
	}
}

func TestHeaderResolver(t *testing.T) {
	res := auth.NewHeaderResolver("X-User-ID", "X-User-Role")

	t.Run("Should read both headers", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-User-ID", "seller-1")
		r.Header.Set("X-User-Role", "SELLER")

		id, err := res.Resolve(r)
		require.NoError(t, err)
		assert.Equal(t, auth.Identity{UserID: "seller-1", Role: "SELLER"}, id)
	})

	t.Run("Should fail without user id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-User-Role", "SELLER")

		_, err := res.Resolve(r)
		assert.ErrorIs(t, err, apperr.MissingIdentityErr)
	})
}

func TestJWTResolver(t *testing.T) {
	secret := []byte("test-secret")
	res := auth.NewJWTResolver(secret, "product-service")

	t.Run("Should resolve a valid token", func(t *testing.T) {
		token, err := auth.SignToken(secret, "product-service", auth.Identity{UserID: "seller-1", Role: "SELLER"})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		id, err := res.Resolve(r)
		require.NoError(t, err)
		assert.Equal(t, "seller-1", id.UserID)
		assert.True(t, id.IsSeller())
	})

	t.Run("Should reject a token signed with another key", func(t *testing.T) {
		token, err := auth.SignToken([]byte("other"), "product-service", auth.Identity{UserID: "seller-1"})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		_, err = res.Resolve(r)
		assert.ErrorIs(t, err, apperr.UnauthorizedErr)
	})

	t.Run("Should reject a wrong issuer", func(t *testing.T) {
		token, err := auth.SignToken(secret, "someone-else", auth.Identity{UserID: "seller-1"})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		_, err = res.Resolve(r)
		assert.ErrorIs(t, err, apperr.UnauthorizedErr)
	})

	t.Run("Should reject a missing token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, err := res.Resolve(r)
		assert.ErrorIs(t, err, apperr.UnauthorizedErr)
	})
}

func TestNewResolver(t *testing.T) {
	_, err := auth.NewResolver(config.Auth{Mode: config.AuthModeJWT})
	assert.Error(t, err)

	res, err := auth.NewResolver(config.Auth{Mode: config.AuthModeHeader, UserIDHeader: "X-User-ID", RoleHeader: "X-User-Role"})
	require.NoError(t, err)
	assert.IsType(t, &auth.HeaderResolver{}, res)
}
