// Package middleware provides the HTTP middleware shared by every route:
// panic recovery, request logging, rate limiting, login gating, remembered
// logins and CSRF checks.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// MsgTooManyAttempts is shown when a client exceeds its rate limit.
const MsgTooManyAttempts = "Too many attempts. Please wait a minute and try again."

// bucket tracks a fixed-window request count for one IP.
type bucket struct {
	count   int
	resetAt time.Time
}

// limiter owns the buckets of one RateLimit instance.
type limiter struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

func (l *limiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.window {
		// Evict expired buckets so memory stays bounded on long-running servers.
		for k, b := range l.buckets {
			if now.After(b.resetAt) {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[ip]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[ip] = b
	}
	b.count++
	return b.count <= l.max
}

// RateLimit returns a middleware that limits each IP to max requests per
// window. A max of zero or less disables the limit.
//
//	r.With(middleware.RateLimit(10, time.Minute)).Post("/login", ...)
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := &limiter{max: max, window: window, buckets: map[string]*bucket{}, now: time.Now}

	return func(next http.Handler) http.Handler {
		if max <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(ClientIP(r)) {
				w.Header().Set("Retry-After", retryAfter(window))
				fail(w, http.StatusTooManyRequests, MsgTooManyAttempts)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retryAfter(window time.Duration) string {
	secs := int(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
