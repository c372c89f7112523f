package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/eventi/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Messages of rejected requests
const (
	MsgTooManyRequests      = "Troppe richieste. Riprova più tardi."
	MsgTooManyLoginAttempts = "Troppi tentativi di accesso. Riprova tra qualche minuto."
)

// RateLimiter is an in-memory fixed window limiter keyed by client
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*client
	limit       int           // Maximum requests per window
	window      time.Duration // Time window
	cleanupTick time.Duration // Cleanup interval
	stop        chan struct{}
	stopOnce    sync.Once
}

type client struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a new rate limiter; Stop ends its cleanup loop
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:     make(map[string]*client),
		limit:       limit,
		window:      window,
		cleanupTick: window * 2,
		stop:        make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// cleanup removes expired clients periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for key, c := range rl.clients {
				if now.Sub(c.lastReset) > rl.window*2 {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Allow checks if a request from the given key should be allowed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, exists := rl.clients[key]

	if !exists {
		rl.clients[key] = &client{
			tokens:    rl.limit - 1,
			lastReset: now,
		}
		return true
	}

	if now.Sub(c.lastReset) >= rl.window {
		c.tokens = rl.limit - 1
		c.lastReset = now
		return true
	}

	if c.tokens > 0 {
		c.tokens--
		return true
	}

	return false
}

// Remaining returns the number of remaining requests for the given key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, exists := rl.clients[key]
	if !exists {
		return rl.limit
	}

	if time.Since(c.lastReset) >= rl.window {
		return rl.limit
	}

	return c.tokens
}

func (rl *RateLimiter) setHeaders(c *gin.Context, key string) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.Remaining(key)))
}

// RateLimit limits JSON endpoints per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(dto.ErrCodeRateLimited, MsgTooManyRequests, GetRequestID(c)))
			return
		}

		limiter.setHeaders(c, key)
		c.Next()
	}
}

// LoginRateLimit limits sign-in submissions per client IP.
// Only POST requests count; showing the form is never limited.
// onLimited renders the rejection, a nil one answers plain text.
func LoginRateLimit(limiter *RateLimiter, onLimited gin.HandlerFunc) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		if c.Request.Method != http.MethodPost {
			return ""
		}
		return "login:" + c.ClientIP()
	}, onLimited)
}

// RateLimitByKey limits requests grouped by keyFunc. An empty key skips the
// limit. Rejected requests are answered by onLimited with status 429 already
// set, or with MsgTooManyLoginAttempts as plain text when onLimited is nil.
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string, onLimited gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		if key == "" {
			c.Next()
			return
		}

		if !limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
			c.Status(http.StatusTooManyRequests)
			if onLimited != nil {
				onLimited(c)
			} else {
				c.Data(http.StatusTooManyRequests, "text/plain; charset=utf-8", []byte(MsgTooManyLoginAttempts))
			}
			c.Abort()
			return
		}

		limiter.setHeaders(c, key)
		c.Next()
	}
}
