package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// RateLimiter counts requests per key in fixed windows. Counters expire with
// their window.
type RateLimiter struct {
	mu       sync.Mutex
	counters *cache.Cache
	rate     int           // requests per window
	window   time.Duration // time window
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counters: cache.New(window, 2*window),
		rate:     rate,
		window:   window,
	}
}

// Allow records one request for key and reports whether it fits the window.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.counters.Add(key, 1, l.window); err == nil {
		return true
	}
	count, err := l.counters.IncrementInt(key, 1)
	if err != nil {
		// expired between Add and IncrementInt
		l.counters.Set(key, 1, l.window)
		return true
	}
	return count <= l.rate
}

// RateLimit limits requests per session, falling back to the client IP.
func RateLimit(rate int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(rate, window)

	return func(c *gin.Context) {
		key := GetSessionID(c)
		if key == "" {
			key = c.ClientIP()
		}

		if !limiter.Allow(key) {
			slog.Warn("rate limit exceeded",
				"key", key,
				"client_ip", c.ClientIP(),
				"request_id", GetRequestID(c),
			)
			c.String(http.StatusTooManyRequests, "Too many analysis runs. Please wait a moment and try again.")
			c.Abort()
			return
		}

		c.Next()
	}
}
