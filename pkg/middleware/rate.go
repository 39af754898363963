package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/splatmarket/splatmarket/pkg/response"
)

type bucket struct {
	tokens   float64
	lastFill time.Time
}

// RateLimit is a per-IP token bucket. Buckets idle for over an hour are
// swept on the next refill pass.
func RateLimit(ratePerSecond float64, burst int) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			mu.Lock()
			b, ok := buckets[ip]
			now := time.Now()
			if !ok {
				b = &bucket{tokens: float64(burst), lastFill: now}
				buckets[ip] = b

				for addr, old := range buckets {
					if now.Sub(old.lastFill) > time.Hour {
						delete(buckets, addr)
					}
				}
			}

			b.tokens += now.Sub(b.lastFill).Seconds() * ratePerSecond
			if b.tokens > float64(burst) {
				b.tokens = float64(burst)
			}
			b.lastFill = now

			allowed := b.tokens >= 1
			if allowed {
				b.tokens--
			}
			mu.Unlock()

			if !allowed {
				response.Error(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
