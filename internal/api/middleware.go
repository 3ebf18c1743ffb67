package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/watersort/internal/metrics"
)

// RequestLogger logs every request and records its metrics.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()
		metrics.RecordRequest(c.Request.Method, route, status, elapsed)

		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", elapsed,
			"client", c.ClientIP(),
		)
	}
}

// limiterIdleTTL is how long a client's bucket is kept after its last request.
const limiterIdleTTL = 10 * time.Minute

// RateLimiter limits requests per client IP with a token bucket.
// A non-positive rps disables limiting. Buckets idle for longer than the
// idle TTL are swept when new clients arrive.
type RateLimiter struct {
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a per-client limiter.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: limiterIdleTTL,
		now:     time.Now,
		clients: make(map[string]*clientLimiter),
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cl, ok := rl.clients[key]
	if !ok {
		rl.sweepLocked(now)
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// sweepLocked drops idle buckets at most once per idle TTL.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.idleTTL {
		return
	}
	rl.lastSweep = now
	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
		}
	}
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rps <= 0 {
			c.Next()
			return
		}
		if !rl.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "rate limit exceeded",
				Code:  CodeRateLimited,
			})
			return
		}
		c.Next()
	}
}
