package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/crate/internal/shared"
	"golang.org/x/time/rate"
)

// RequestLogger logs every request with a generated correlation id and the
// elapsed handler time.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := shared.WithLogger(logger, "request_id", shared.GenerateID())

			reqLogger.Info("request", "method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(w, r)
			reqLogger.Debug("request complete", "duration", time.Since(start))
		})
	}
}

// Throttle caps facade throughput at limit requests per second, answering
// 429 when the budget is exhausted.
func Throttle(limit rate.Limit) Middleware {
	burst := int(limit)
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(limit, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
