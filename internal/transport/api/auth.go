package api

import (
	"crypto/subtle"
	"net/http"
)

// jobTokenMiddleware guards batch endpoints. The token comes from the
// X-Job-Token header or the token query parameter.
func jobTokenMiddleware(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expected == "" {
				writeError(w, http.StatusInternalServerError, "JOB_TOKEN not set")
				return
			}

			token := r.Header.Get("X-Job-Token")
			if token == "" {
				token = r.URL.Query().Get("token")
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
