package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/davidbz/hoverlate/internal/config"
)

// servedMethods are the only methods the hover API answers.
var servedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodOptions: true,
}

// CORS lets browser-based hosts call the hover API.
// Configured methods the routes never serve are ignored, and the correlation
// headers set by Trace are exposed to the host.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   servedOnly(cfg.AllowedMethods),
		AllowedHeaders:   append(append([]string{}, cfg.AllowedHeaders...), RequestIDHeader, TraceparentHeader),
		ExposedHeaders:   []string{RequestIDHeader, TraceIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})

	return c.Handler
}

func servedOnly(methods []string) []string {
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if servedMethods[m] {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return []string{http.MethodGet, http.MethodPost}
	}
	return out
}
