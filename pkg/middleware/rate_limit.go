package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/gogotex/gogotex/backend/go-workflow/pkg/metrics"
)

// limiterStore holds one token bucket per key.
type limiterStore struct {
	m     sync.Map // map[string]*rate.Limiter
	rps   float64
	burst int
}

func (s *limiterStore) get(key string) *rate.Limiter {
	if v, ok := s.m.Load(key); ok {
		return v.(*rate.Limiter)
	}
	v, _ := s.m.LoadOrStore(key, rate.NewLimiter(rate.Limit(s.rps), s.burst))
	return v.(*rate.Limiter)
}

// rateKey prefers the authenticated actor (set by AuthMiddleware) and falls back to the
// client IP.
func rateKey(c *gin.Context) string {
	if actor := c.GetString(ActorKey); actor != "" {
		return "actor:" + actor
	}
	if v, ok := c.Get(ClaimsKey); ok {
		if cm, ok := v.(map[string]interface{}); ok {
			if sub, ok := cm["sub"].(string); ok && sub != "" {
				return "sub:" + sub
			}
		}
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// RateLimitMiddleware returns a Gin middleware enforcing a token-bucket per-key limit.
// rps = allowed events per second, burst = maximum tokens in bucket.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	store := &limiterStore{rps: rps, burst: burst}
	return func(c *gin.Context) {
		if !store.get(rateKey(c)).Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"status": "error", "error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
