package middleware

import (
	"net/http"

	"github.com/tuanvumaihuynh/product-service/internal/apperr"
	"github.com/tuanvumaihuynh/product-service/internal/auth"
)

// ErrorHandlerFunc writes err as the response.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// Authenticate resolves the caller identity and stores it in the request context.
func Authenticate(resolver auth.Resolver, onError ErrorHandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolver.Resolve(r)
			if err != nil {
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), id)))
		})
	}
}

// RequireSeller rejects callers without the seller role. It must run after Authenticate.
func RequireSeller(onError ErrorHandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.FromContext(r.Context())
			if !ok {
				onError(w, r, apperr.MissingIdentityErr)
				return
			}
			if !id.IsSeller() {
				onError(w, r, apperr.SellerRoleRequiredErr)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
