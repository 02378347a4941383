package rest

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// bucketIdleTTL is how long an untouched client bucket is kept.
const bucketIdleTTL = 5 * time.Minute

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter is a token bucket limiter with one bucket per client address.
// Each client may burst up to the per-second rate.
type RateLimiter struct {
	mu      sync.Mutex
	rate    float64
	buckets map[string]*bucket
	lastGC  time.Time
	now     func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per client.
func NewRateLimiter(rps int) *RateLimiter {
	return &RateLimiter{
		rate:    float64(rps),
		buckets: make(map[string]*bucket),
		lastGC:  time.Now(),
		now:     time.Now,
	}
}

// Allow reports whether the client may make one more request, consuming a
// token when it can.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.evictIdle(now)

	b, ok := rl.buckets[client]
	if !ok {
		b = &bucket{tokens: rl.rate, lastSeen: now}
		rl.buckets[client] = b
	}
	b.tokens = min(rl.rate, b.tokens+now.Sub(b.lastSeen).Seconds()*rl.rate)
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// evictIdle drops buckets that have refilled completely. Caller holds mu.
func (rl *RateLimiter) evictIdle(now time.Time) {
	if now.Sub(rl.lastGC) < bucketIdleTTL {
		return
	}
	for client, b := range rl.buckets {
		if now.Sub(b.lastSeen) >= bucketIdleTTL {
			delete(rl.buckets, client)
		}
	}
	rl.lastGC = now
}

// clientKey identifies the caller by remote IP, without the port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware answers 429 once a client's bucket runs dry. A nil
// limiter disables limiting.
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientKey(r)) {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
