package middleware

import (
	"crypto/subtle"
	"net/http"
)

// RequireAdmin gates admin-only routes on a shared token carried in the
// X-Admin-Token header. The storefront core performs no authorization itself;
// this is the externally enforced administrator check in front of it.
func RequireAdmin(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Admin-Token")
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, "administrator access required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
