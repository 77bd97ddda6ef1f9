package middleware

import (
	"net/http"
	"strings"

	"github.com/mcoot/kickoff/internal/api/response"
)

// DefaultAllowedOrigins are the frontends allowed to call the API
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"https://vote-bongda-fe.vercel.app",
}

var (
	allowedMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}, ", ")
	allowedHeaders = "Content-Type, Authorization"
)

// CORS allows credentialed cross-origin requests from the listed origins.
// Preflight requests are answered here and never reach the router.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				w.Header().Add("Vary", "Origin")
			}
			if origin != "" && allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
				w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				response.NoContent(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
