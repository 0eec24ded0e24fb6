package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitInfo describes the limiter state for one key after a request.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

// RateLimitConfig controls the rate limiting middleware.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int

	// KeyFunc derives the limiter key from the request.  Defaults to the
	// client IP.
	KeyFunc func(c *gin.Context) string

	// SkipPaths are exempt from limiting.
	SkipPaths []string

	// CleanupInterval controls how often idle buckets are evicted.
	CleanupInterval time.Duration
}

// DefaultRateLimitConfig returns the rate limiting defaults.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
		SkipPaths:         []string{"/healthz", "/readyz"},
		CleanupInterval:   5 * time.Minute,
	}
}

type tokenBucket struct {
	tokens   float64
	lastSeen time.Time
}

// TokenBucketLimiter is an in-memory token bucket limiter keyed by client.
// Buckets refill continuously at the configured rate and idle buckets are
// evicted by a background loop.
type TokenBucketLimiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket

	rate  float64
	burst int

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewTokenBucketLimiter constructs a limiter and starts its cleanup loop.
// Call Stop when the limiter is no longer needed.
func NewTokenBucketLimiter(requestsPerSecond float64, burstSize int, cleanupInterval time.Duration) *TokenBucketLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	if burstSize <= 0 {
		burstSize = int(requestsPerSecond) * 2
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	l := &TokenBucketLimiter{
		buckets: make(map[string]*tokenBucket),
		rate:    requestsPerSecond,
		burst:   burstSize,
		stopCh:  make(chan struct{}),
	}
	go l.cleanupLoop(cleanupInterval)
	return l
}

// Allow consumes one token from key's bucket if available.
func (l *TokenBucketLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: float64(l.burst)}
		l.buckets[key] = b
	} else {
		elapsed := now.Sub(b.lastSeen).Seconds()
		b.tokens += elapsed * l.rate
		if b.tokens > float64(l.burst) {
			b.tokens = float64(l.burst)
		}
	}
	b.lastSeen = now

	info := RateLimitInfo{
		Limit:   l.burst,
		ResetAt: now.Add(time.Duration((float64(l.burst)-b.tokens)/l.rate) * time.Second),
	}

	if b.tokens < 1 {
		info.Remaining = 0
		return false, info
	}
	b.tokens--
	info.Remaining = int(b.tokens)
	return true, info
}

// Stop terminates the cleanup loop.  Safe to call more than once.
func (l *TokenBucketLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// BucketCount returns the number of tracked keys.
func (l *TokenBucketLimiter) BucketCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *TokenBucketLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-interval)
			l.mu.Lock()
			for key, b := range l.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// RateLimit returns a middleware enforcing the limiter.  Rejected requests
// get 429 with Retry-After and the X-RateLimit headers.
func RateLimit(limiter RateLimiter, cfg RateLimitConfig) gin.HandlerFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		allowed, info := limiter.Allow(keyFunc(c))

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt.Unix(), 10))

		if !allowed {
			retryAfter := time.Until(info.ResetAt).Seconds()
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(int(retryAfter)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    "COMMON_RATE_LIMITED",
				"message": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
