package middleware

import (
	"net/http"
	"strings"

	"github.com/ayres-originals/originals-api/internal/auth"
)

var accessExemptPrefixes = []string{"/access", "/health", "/swagger"}

// AccessGate requires the access cookie on every route except the gate itself.
// With an empty password the gate is open.
func AccessGate(password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if password == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isAccessExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(auth.AccessCookieName)
			if err != nil || !auth.ValidateAccessPass(cookie.Value) {
				http.Error(w, "access password required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isAccessExempt(path string) bool {
	for _, prefix := range accessExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
