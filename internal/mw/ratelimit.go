package mw

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(c *gin.Context) string

// ClientIP counts requests per client address.
func ClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ActorOrIP counts requests per acting user, falling back to the client
// address for anonymous calls.
func ActorOrIP(c *gin.Context) string {
	if actor := c.GetHeader(ActorHeader); actor != "" {
		return "actor:" + actor
	}
	return ClientIP(c)
}

// KeyedRateLimiter holds one token bucket per key. Buckets that stay idle
// for longer than the expiry are dropped.
type KeyedRateLimiter struct {
	limiters *cache.Cache
	r        rate.Limit
	b        int
}

// NewKeyedRateLimiter creates a limiter allowing r events per second with burst b per key.
func NewKeyedRateLimiter(r rate.Limit, b int, idle time.Duration) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: cache.New(idle, 2*idle),
		r:        r,
		b:        b,
	}
}

// GetLimiter returns the bucket for key, creating it on first use.
func (k *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	if l, found := k.limiters.Get(key); found {
		k.limiters.SetDefault(key, l)
		return l.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(k.r, k.b)
	// Add fails when another request created the bucket first; use theirs.
	if err := k.limiters.Add(key, limiter, cache.DefaultExpiration); err != nil {
		if l, found := k.limiters.Get(key); found {
			return l.(*rate.Limiter)
		}
	}
	return limiter
}

// RateLimiter rejects requests above the configured rate with 429.
func RateLimiter(r rate.Limit, b int, key KeyFunc) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b, 10*time.Minute)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(key(c)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests",
				"kind":  "rate_limited",
			})
			return
		}
		c.Next()
	}
}
