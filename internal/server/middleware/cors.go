package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/agentstation/locrecon/internal/matcher"
)

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	AllowAll       bool
}

// DefaultCORSConfig returns the default CORS configuration. Reconciliation
// clients only read, so GET and POST are the only methods offered.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		AllowAll:       false,
	}
}

// CORS middleware adds CORS headers to responses. Allowed origins may be
// exact, glob ("https://*.example.org") or regex patterns; patterns that
// fail to compile are dropped.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	origins := compileOrigins(config.AllowedOrigins)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Set CORS headers
			if config.AllowAll || len(config.AllowedOrigins) == 0 {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin != "" && isOriginAllowed(origin, config.AllowedOrigins, origins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
			w.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
			w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isOriginAllowed checks if an origin is in the allowed list or matches
// one of its patterns.
func isOriginAllowed(origin string, allowed []string, patterns *matcher.Set) bool {
	if slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
		return true
	}
	return patterns != nil && patterns.Match(origin)
}

func compileOrigins(allowed []string) *matcher.Set {
	valid := make([]string, 0, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			continue
		}
		if _, err := matcher.New(matcher.Auto, o, nil); err == nil {
			valid = append(valid, o)
		}
	}
	set, err := matcher.NewSet(valid, &matcher.Options{CaseInsensitive: true})
	if err != nil {
		return nil
	}
	return set
}
