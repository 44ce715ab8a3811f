package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Linux-Alex/GraphLink/webutil"
)

const (
	msgMissingAPIKey = "Unauthorized: Missing API key header"
	msgInvalidAPIKey = "Unauthorized: Invalid API key"
)

// RequireAPIKey rejects requests whose header does not carry key. Paths
// starting with one of publicPrefixes pass through unchecked.
func RequireAPIKey(header, key string, publicPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			for _, prefix := range publicPrefixes {
				if strings.HasPrefix(path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			values := r.Header.Values(header)
			if len(values) == 0 {
				slog.Warn("Missing API key header", "path", path, "method", r.Method)
				webutil.RespondWithError(w, http.StatusUnauthorized, msgMissingAPIKey)
				return
			}

			if !webutil.SecretsEqual(values[0], key) {
				slog.Warn("Invalid API key", "path", path, "method", r.Method, "key_fingerprint", webutil.Fingerprint(values[0]))
				webutil.RespondWithError(w, http.StatusUnauthorized, msgInvalidAPIKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SetHeader is a middleware to set a response header.
func SetHeader(key, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(key, value)
			next.ServeHTTP(w, r)
		})
	}
}
