package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/ratelimit"
)

// RateLimitConfig configures the rate limiting middleware
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained rate per client
	RequestsPerMinute int
	// BurstMultiplier sets the bucket size as a multiple of the rate
	BurstMultiplier int
	Logger          *slog.Logger
}

// DefaultRateLimitConfig returns sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 60,
		BurstMultiplier:   3,
	}
}

// RateLimiter limits requests per client key with a fortify token bucket
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	logger  *slog.Logger
}

// NewRateLimiter creates a limiter from config
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 60
	}
	if config.BurstMultiplier <= 0 {
		config.BurstMultiplier = 1
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &RateLimiter{
		limiter: ratelimit.New(&ratelimit.Config{
			Rate:     config.RequestsPerMinute,
			Burst:    config.RequestsPerMinute * config.BurstMultiplier,
			Interval: time.Minute,
		}),
		logger: config.Logger,
	}
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)

		if !rl.limiter.Allow(r.Context(), key) {
			rl.logger.Warn("rate limit exceeded",
				"ip", key,
				"path", r.URL.Path,
				"request_id", GetRequestID(r.Context()),
			)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":"RATE_LIMITED","message":"too many requests, please try again later"}}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Close stops the limiter's background work
func (rl *RateLimiter) Close() error {
	return rl.limiter.Close()
}

// clientIP extracts the client IP address from the request
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
