// file: internal/middleware/security.go
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"personahub/internal/config"

	"go.uber.org/zap"
)

// CORS applies the configured cross-origin policy
func CORS(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	allowedMethods := strings.Join(cfg.CORSAllowedMethods, ", ")
	allowedHeaders := strings.Join(cfg.CORSAllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(cfg.CORSAllowedOrigins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
				w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, candidate := range allowed {
		if candidate == "*" || strings.EqualFold(candidate, origin) {
			return true
		}
	}
	return false
}

// SecurityHeaders sets defensive response headers on every request
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}

// ===============================
// RATE LIMITING
// ===============================

// rateLimiter implements a fixed-window per-client limiter
type rateLimiter struct {
	mu       sync.Mutex
	counts   map[string]int
	window   time.Time
	limit    int
	interval time.Duration
	logger   *zap.Logger
}

// RateLimit limits each client IP to the configured number of requests per
// window
func RateLimit(cfg *config.SecurityConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	limiter := &rateLimiter{
		counts:   make(map[string]int),
		window:   time.Now(),
		limit:    cfg.RateLimitRequests,
		interval: cfg.RateLimitWindow,
		logger:   logger,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.limit > 0 && !limiter.allow(getClientIP(r)) {
				limiter.logger.Warn("rate limit exceeded",
					zap.String("remote_addr", getClientIP(r)),
					zap.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", limiter.interval.String())
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *rateLimiter) allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.window) > l.interval {
		l.counts = make(map[string]int)
		l.window = now
	}

	l.counts[client]++
	return l.counts[client] <= l.limit
}
