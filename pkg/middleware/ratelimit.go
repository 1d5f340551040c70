package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/vfg2006/marketing-analytics-api/pkg/apiErrors"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client token bucket keyed by remote IP. Stale
// clients are evicted so the map stays bounded.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	maxIdle  time.Duration
	lastScan time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(requestsPerSecond),
		burst:   burst,
		maxIdle: 10 * time.Minute,
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastScan) > rl.maxIdle {
		for k, c := range rl.clients {
			if now.Sub(c.lastSeen) > rl.maxIdle {
				delete(rl.clients, k)
			}
		}
		rl.lastScan = now
	}

	client, ok := rl.clients[key]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[key] = client
	}
	client.lastSeen = now

	return client.limiter.Allow()
}

// Middleware rejects requests over the per-client budget with 429.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !rl.allow(host) {
				apiErrors.WriteError(w, apiErrors.ErrTooManyRequests, "Rate limit exceeded", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
