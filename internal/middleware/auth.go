package middleware

import (
	"net/http"
	"strings"

	"github.com/moviehub-app/backend/internal/auth"
)

// RequireAuth validates the bearer token against the session records and
// injects the owner's email into the request context.
func RequireAuth(authn *auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			email, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				http.Error(w, `{"error":"invalid or expired session"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithEmail(r.Context(), email)))
		})
	}
}
