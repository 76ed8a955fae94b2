package middleware

import (
	"log"
	"net/http"
	"time"
)

// Logging logs one line per request with its status and duration
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		if r.URL.Path == "/ping" || r.URL.Path == "/metrics" {
			return
		}
		marker := "✓"
		if wrapped.statusCode >= 500 {
			marker = "❌"
		} else if wrapped.statusCode >= 400 {
			marker = "⚠️ "
		}
		log.Printf("%s %s %s -> %d (%v)", marker, r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
	})
}
