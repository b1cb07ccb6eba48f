package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/LewisLovet/opatam-sub005/pkg/logger"
)

// IPRateLimiter is a fixed-window per-client-IP limiter. Good enough for a
// single instance; multi-node deployments front this with an edge limiter.
type IPRateLimiter struct {
	limit    int
	window   time.Duration
	log      *logger.Logger
	mu       sync.Mutex
	counters map[string]*windowCounter
	stop     chan struct{}
	stopOnce sync.Once
}

type windowCounter struct {
	count       int
	windowStart time.Time
}

func NewIPRateLimiter(limit int, window time.Duration, log *logger.Logger) *IPRateLimiter {
	rl := &IPRateLimiter{
		limit:    limit,
		window:   window,
		log:      log,
		counters: make(map[string]*windowCounter),
		stop:     make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *IPRateLimiter) allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.counters[key]
	if !ok || now.Sub(c.windowStart) >= rl.window {
		rl.counters[key] = &windowCounter{count: 1, windowStart: now}
		return true
	}

	if c.count >= rl.limit {
		return false
	}
	c.count++
	return true
}

func (rl *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, c := range rl.counters {
				if now.Sub(c.windowStart) >= rl.window {
					delete(rl.counters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *IPRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func RateLimit(rl *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !rl.allow(host) {
				rl.log.Warn("Rate limit exceeded",
					"remote_addr", host,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
