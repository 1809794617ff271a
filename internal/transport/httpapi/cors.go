package httpapi

import (
	"net/http"

	"github.com/learnia-cloud/course-search/internal/cors"
)

// CORSMiddleware stamps CORS headers on every response and short-circuits
// preflight requests with 204 before they reach the router.
func CORSMiddleware(policy cors.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for k, v := range policy.Headers(r.Header.Get("Origin")) {
				w.Header().Set(k, v)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
