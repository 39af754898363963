package middleware

import (
	"net/http"

	"github.com/splatmarket/splatmarket/config"
)

// CORS reflects the configured allowed origin and answers preflights.
// CORS_ORIGIN defaults to "*".
func CORS(next http.Handler) http.Handler {
	origin := config.Get("CORS_ORIGIN", "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
