package swagger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/tuanvumaihuynh/product-service/api-contract"
	"github.com/tuanvumaihuynh/product-service/internal/http/swagger"
)

func TestSwaggerDocsRoute(t *testing.T) {
	doc, err := apicontract.Load(context.Background())
	require.NoError(t, err)

	r := chi.NewRouter()
	require.NoError(t, swagger.Register(r, doc))

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("Should serve the swagger ui", func(t *testing.T) {
		resp := get("/docs")

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, resp.Body.String(), "<title>Product Service API</title>")
	})

	t.Run("Should serve openapi.yml", func(t *testing.T) {
		resp := get("/docs/openapi.yml")

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "application/yaml")
		assert.Equal(t, apicontract.GetSpecBytes(), resp.Body.Bytes())
	})

	t.Run("Should serve openapi.json", func(t *testing.T) {
		resp := get("/docs/openapi.json")

		assert.Equal(t, http.StatusOK, resp.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "3.0.3", body["openapi"])
		assert.Contains(t, body["paths"], "/api/products")
	})
}
