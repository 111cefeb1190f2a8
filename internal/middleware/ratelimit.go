package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/hms-gateway/internal/gateway"
	"github.com/BruksfildServices01/hms-gateway/internal/httperr"
)

const staleAfter = 3 * time.Minute

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	r        rate.Limit
	burst    int
	now      func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		r:        rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if v, ok := rl.visitors[ip]; ok {
		v.seen = rl.now()
		return v.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.visitors[ip] = &visitor{lim: l, seen: rl.now()}
	return l
}

func (rl *RateLimiter) Allow(ip string) bool {
	return rl.get(ip).Allow()
}

// Sweep forgets visitors not seen for a while.
func (rl *RateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for ip, v := range rl.visitors {
		if rl.now().Sub(v.seen) > staleAfter {
			delete(rl.visitors, ip)
			removed++
		}
	}
	return removed
}

// Run sweeps every minute until stop is closed.
func (rl *RateLimiter) Run(stop <-chan struct{}) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			rl.Sweep()
		case <-stop:
			return
		}
	}
}

// RateLimit throttles the unauthenticated login and signup endpoints.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gateway.IsPublic(c.Request.URL.RequestURI()) {
			c.Next()
			return
		}
		if !rl.Allow(c.ClientIP()) {
			httperr.Abort(c, httperr.RateLimited())
			return
		}
		c.Next()
	}
}
