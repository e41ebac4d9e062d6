package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Recovery converts handler panics into a structured 500 response instead
// of dropping the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("❌ panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"timestamp": time.Now().Format(time.RFC3339),
					"status":    http.StatusInternalServerError,
					"error":     "Internal Server Error",
					"path":      r.URL.Path,
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
