package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const maxTrackedClients = 10000

// IPRateLimiter holds rate limiters for each client IP
type IPRateLimiter struct {
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter creates a new IP-based rate limiter.
// rps: requests per second allowed per IP, burst: maximum burst size
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		limiters: make(map[string]*clientLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  5 * time.Minute,
		now:      time.Now,
	}
}

// Allow reports whether a request from ip fits its budget
func (i *IPRateLimiter) Allow(ip string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	client, exists := i.limiters[ip]
	if !exists {
		if len(i.limiters) >= maxTrackedClients {
			i.evictIdle(now)
		}
		client = &clientLimiter{limiter: rate.NewLimiter(i.rps, i.burst)}
		i.limiters[ip] = client
	}
	client.lastSeen = now

	return client.limiter.AllowN(now, 1)
}

// evictIdle drops limiters not seen within idleTTL (caller must hold lock)
func (i *IPRateLimiter) evictIdle(now time.Time) {
	for ip, client := range i.limiters {
		if now.Sub(client.lastSeen) > i.idleTTL {
			delete(i.limiters, ip)
		}
	}
}

// RateLimit middleware limits requests per client IP; onReject may be nil
func RateLimit(limiter *IPRateLimiter, onReject func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(ClientIP(r)) {
				if onReject != nil {
					onReject()
				}
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP takes the first X-Forwarded-For hop, then X-Real-IP, then RemoteAddr without port
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
