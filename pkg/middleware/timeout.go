package middleware

import (
	"context"
	"net/http"
	"time"
)

// RequestTimeout bounds every request with a deadline so a slow persistence
// layer cannot pin handler goroutines forever.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
