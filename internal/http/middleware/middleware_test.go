package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-service/internal/apperr"
	"github.com/tuanvumaihuynh/product-service/internal/auth"
	"github.com/tuanvumaihuynh/product-service/internal/http/apierr"
	"github.com/tuanvumaihuynh/product-service/internal/http/metric"
	"github.com/tuanvumaihuynh/product-service/internal/http/middleware"
	"github.com/tuanvumaihuynh/product-service/internal/log"
	"github.com/tuanvumaihuynh/product-service/pkg/correlationid"
)

type resolverFunc func(r *http.Request) (auth.Identity, error)

func (f resolverFunc) Resolve(r *http.Request) (auth.Identity, error) { return f(r) }

func recordError(t *testing.T) (middleware.ErrorHandlerFunc, *error) {
	t.Helper()

	var got error
	return func(w http.ResponseWriter, _ *http.Request, err error) {
		got = err
		w.WriteHeader(apierr.New(err).StatusCode)
	}, &got
}

func TestRecoverer(t *testing.T) {
	h := middleware.Recoverer(log.NewDiscardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "an unknown error occurred", body["message"])
	assert.Nil(t, body["data"])
}

func TestCorrelationID(t *testing.T) {
	var seen string
	h := middleware.CorrelationID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = correlationid.FromContext(r.Context())
	}))

	t.Run("Should reuse the caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(correlationid.Header, "abc")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc", seen)
		assert.Equal(t, "abc", rec.Header().Get(correlationid.Header))
	})

	t.Run("Should generate an id when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(correlationid.Header))
	})
}

func TestAuthenticate(t *testing.T) {
	var got auth.Identity
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
	})

	t.Run("Should store the resolved identity", func(t *testing.T) {
		onError, errp := recordError(t)
		resolver := resolverFunc(func(*http.Request) (auth.Identity, error) {
			return auth.Identity{UserID: "u1", Role: "SELLER"}, nil
		})

		middleware.Authenticate(resolver, onError)(next).
			ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NoError(t, *errp)
		assert.Equal(t, auth.Identity{UserID: "u1", Role: "SELLER"}, got)
	})

	t.Run("Should hand resolver errors to the error handler", func(t *testing.T) {
		onError, errp := recordError(t)
		resolver := resolverFunc(func(*http.Request) (auth.Identity, error) {
			return auth.Identity{}, apperr.UnauthorizedErr
		})
		rec := httptest.NewRecorder()

		middleware.Authenticate(resolver, onError)(next).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.ErrorIs(t, *errp, apperr.UnauthorizedErr)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireSeller(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

	tests := []struct {
		name    string
		id      *auth.Identity
		wantErr error
	}{
		{name: "seller", id: &auth.Identity{UserID: "u1", Role: "SELLER"}},
		{name: "prefixed seller role", id: &auth.Identity{UserID: "u1", Role: "ROLE_SELLER"}},
		{name: "client", id: &auth.Identity{UserID: "u1", Role: "CLIENT"}, wantErr: apperr.SellerRoleRequiredErr},
		{name: "no identity", wantErr: apperr.MissingIdentityErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			onError, errp := recordError(t)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.id != nil {
				req = req.WithContext(auth.NewContext(req.Context(), *tt.id))
			}

			middleware.RequireSeller(onError)(next).ServeHTTP(httptest.NewRecorder(), req)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(*errp, tt.wantErr))
				assert.False(t, called)
				return
			}
			assert.NoError(t, *errp)
			assert.True(t, called)
		})
	}
}

func TestMetricsUseRoutePattern(t *testing.T) {
	m := metric.New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(middleware.Metrics(m))
	r.Get("/api/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
	}

	assert.InDelta(t, 3, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/api/products/{id}", "204")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestsTotal))
}
