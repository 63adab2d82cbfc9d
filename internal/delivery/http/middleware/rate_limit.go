package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-IP token bucket. Stale clients are evicted
// by a background loop that stops on Shutdown.
type RateLimiter struct {
	clients       map[string]*client
	mu            sync.Mutex
	limit         rate.Limit
	burst         int
	cleanupPeriod time.Duration
	clientTTL     time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRateLimiter creates a RateLimiter with background cleanup.
// limit: requests per second, burst: maximum burst size.
func NewRateLimiter(ctx context.Context, limit rate.Limit, burst int, cleanupPeriod, clientTTL time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:       make(map[string]*client),
		limit:         limit,
		burst:         burst,
		cleanupPeriod: cleanupPeriod,
		clientTTL:     clientTTL,
	}
	rl.ctx, rl.cancel = context.WithCancel(ctx)
	go rl.cleanupLoop()
	return rl
}

// Middleware returns the HTTP middleware handler.
func (rl *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.visitor(getClientIP(r)).Allow() {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) visitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.clients[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.limit, rl.burst)
		rl.clients[ip] = &client{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, v := range rl.clients {
		if time.Since(v.lastSeen) > rl.clientTTL {
			delete(rl.clients, ip)
		}
	}
}

// Shutdown stops the cleanup goroutine.
func (rl *RateLimiter) Shutdown() {
	rl.cancel()
}
