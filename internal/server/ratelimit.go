package server

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"resumetwin/internal/errors"
	"resumetwin/internal/observability"
)

const limiterIdleTTL = 10 * time.Minute

// RateLimiter keeps one token bucket per client key (IP or API key).
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	rate     rate.Limit
	burst    int
	done     chan struct{}
	once     sync.Once
	logger   *errors.Logger
}

// NewRateLimiter allows requestsPerMin per key with bursts of burstCapacity.
// Idle buckets are evicted in the background until Close is called.
func NewRateLimiter(requestsPerMin, burstCapacity int, logger *errors.Logger) *RateLimiter {
	if burstCapacity <= 0 {
		burstCapacity = 1
	}
	rl := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burstCapacity,
		done:     make(chan struct{}),
		logger:   logger,
	}
	go rl.evictLoop(limiterIdleTTL)
	return rl
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = l
	}
	rl.lastSeen[key] = time.Now()
	return l
}

// Reserve takes a token for key. When none is available it returns false and
// how long the client should wait before retrying.
func (rl *RateLimiter) Reserve(key string) (bool, time.Duration) {
	l := rl.limiter(key)
	now := time.Now()
	if l.AllowN(now, 1) {
		return true, 0
	}
	if rl.rate <= 0 {
		return false, time.Minute
	}
	return false, time.Duration(float64(time.Second) / float64(rl.rate))
}

// Allow reports whether a request for key may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	ok, _ := rl.Reserve(key)
	return ok
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]any {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]any{
		"active_limiters": len(rl.limiters),
		"rate_per_minute": float64(rl.rate) * 60.0,
		"burst_capacity":  rl.burst,
	}
}

func (rl *RateLimiter) evictLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle(interval)
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimiter) evictIdle(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for key, seen := range rl.lastSeen {
		if seen.Before(cutoff) {
			delete(rl.limiters, key)
			delete(rl.lastSeen, key)
		}
	}
	if rl.logger != nil {
		rl.logger.Debug("Rate limiter eviction completed", "remaining_limiters", len(rl.limiters))
	}
}

// Close stops background eviction. It is safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.done) })
}

// rateLimitMiddleware rejects requests over the per-key budget with 429.
func (s *Server) rateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	if s.RateLimit == nil || !s.RateLimit.Enabled || s.RateLimiter == nil {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r, s.RateLimit.ByAPIKey, s.RateLimit.ByIP)
			if key == "" {
				next(w, r)
				return
			}

			ok, retryAfter := s.RateLimiter.Reserve(key)
			if !ok {
				s.Logger.Info("Rate limit exceeded",
					"endpoint", r.URL.Path,
					"client_ip", clientIP(r))
				om.GetMetrics().RecordBusinessMetric(r.Context(), observability.MetricRateLimitHit, false, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))

				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				writeErrorResponse(w, "Rate limit exceeded", "Too many requests", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

func rateLimitKey(r *http.Request, byAPIKey, byIP bool) string {
	if byAPIKey {
		if apiKey := requestAPIKey(r); apiKey != "" {
			return "api:" + apiKey
		}
	}
	if byIP {
		return "ip:" + clientIP(r)
	}
	return ""
}

// clientIP prefers the first valid X-Forwarded-For entry, then X-Real-IP,
// then the connection address.
func clientIP(r *http.Request) string {
	for candidate := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		candidate = strings.TrimSpace(candidate)
		if net.ParseIP(candidate) != nil {
			return candidate
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
