package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gotours/internal/apperrors"
	"gotours/internal/config"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with a correlation id, honoring one supplied
// by the client.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SecurityHeaders hardens responses. HSTS is only meaningful behind TLS, so
// it is skipped in development.
func SecurityHeaders(isDev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "no-referrer")
		if !isDev {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// SanitizeQuery strips query parameters whose keys carry operator characters,
// so user input can never smuggle store operators past the filter builder.
// Duplicate parameters collapse to the last value.
func SanitizeQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.Query()
		changed := false

		for key, values := range query {
			if strings.ContainsAny(key, "$.") {
				query.Del(key)
				changed = true
				continue
			}
			if len(values) > 1 {
				query.Set(key, values[len(values)-1])
				changed = true
			}
		}

		if changed {
			c.Request.URL.RawQuery = query.Encode()
		}

		c.Next()
	}
}

// RequestLogger records every handled request with its latency.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.LogAPIRequest(
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			c.GetString("request_id"),
		)
	}
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

// rateLimiter is a fixed-window counter per client IP. State is per process;
// horizontally scaled deployments get a per-instance allowance. Expired
// windows are swept inline on the first request after each window boundary,
// so no background goroutine is needed.
type rateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*rateWindow
	max       int
	window    time.Duration
	nextSweep time.Time
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		windows:   make(map[string]*rateWindow),
		max:       max,
		window:    window,
		nextSweep: time.Now().Add(window),
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.After(rl.nextSweep) {
		rl.sweepLocked(now)
		rl.nextSweep = now.Add(rl.window)
	}

	w, ok := rl.windows[ip]
	if !ok || now.After(w.resetAt) {
		rl.windows[ip] = &rateWindow{count: 1, resetAt: now.Add(rl.window)}
		return true
	}

	if w.count >= rl.max {
		return false
	}
	w.count++
	return true
}

// sweepLocked drops expired windows so the map doesn't grow without bound.
// Caller holds the mutex.
func (rl *rateLimiter) sweepLocked(now time.Time) {
	for ip, w := range rl.windows {
		if now.After(w.resetAt) {
			delete(rl.windows, ip)
		}
	}
}

// RateLimit rejects clients that exceed the configured request allowance per
// window with a 429.
func RateLimit(cfg *config.RateLimitConfig) gin.HandlerFunc {
	limiter := newRateLimiter(cfg.Max, cfg.Window)

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			abortWithError(c, apperrors.TooManyRequests(utils.ErrRateLimited))
			return
		}
		c.Next()
	}
}
