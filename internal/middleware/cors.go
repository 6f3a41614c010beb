package middleware

import (
	"net/http"
	"strings"
)

// Cors sets permissive headers on the JSON API responses only: the
// catalog is personal data behind the session cookie anyway, so the
// API allows any origin.
func Cors() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			}

			next.ServeHTTP(w, r)
		})
	}
}
