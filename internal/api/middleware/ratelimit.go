package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter bounds request volume per client IP. Each client gets a token
// bucket holding a full window's budget; idle clients are evicted so the map
// does not grow without bound.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	window    time.Duration
	lastSweep time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows max requests per window for each client address.
func NewRateLimiter(window time.Duration, max int) *RateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	return &RateLimiter{
		clients:   make(map[string]*client),
		limit:     rate.Every(window / time.Duration(max)),
		burst:     max,
		window:    window,
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) >= rl.window {
		rl.sweep(now)
	}

	cl, ok := rl.clients[addr]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[addr] = cl
	}
	cl.lastSeen = now
	return cl.limiter.Allow()
}

// sweep evicts clients not seen for three windows. Runs inline on the request
// path at most once per window, so no background goroutine is needed. Caller
// must hold mu.
func (rl *RateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-3 * rl.window)
	for addr, cl := range rl.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.clients, addr)
		}
	}
	rl.lastSweep = now
}

// Middleware rejects over-limit requests before they reach any handler.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests from this IP, please try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}
