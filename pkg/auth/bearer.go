// Package auth implements the shared-secret perimeter: a single bearer
// token authorizes every core operation, human callers and the queue's
// dispatch callback alike. One trust domain, one capability; a per-caller
// credential split is future scope.
package auth

import (
	"crypto/subtle"
	"net/http"
)

type Config struct {
	APIKey string `env:"API_KEY,required"` // APIKey is the process-wide shared bearer secret.
}

// Bearer returns middleware that rejects any request whose Authorization
// header does not equal "Bearer <secret>". The comparison is constant-time;
// rejection happens before any handler logic runs.
func Bearer(secret string) func(http.Handler) http.Handler {
	expected := []byte("Bearer " + secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := []byte(r.Header.Get("Authorization"))
			if secret == "" || subtle.ConstantTimeCompare(header, expected) != 1 {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
