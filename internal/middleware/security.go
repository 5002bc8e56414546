package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerXXSSProtection          = "X-XSS-Protection"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerXContentTypeOptions, "nosniff")
		w.Header().Set(headerXFrameOptions, "DENY")
		w.Header().Set(headerXXSSProtection, "1; mode=block")
		w.Header().Set(headerContentSecurityPolicy, "default-src 'self'")
		w.Header().Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// HostCheck returns 403 when r.Host does not match allowedHost.
// allowedHost should be the bare hostname without scheme or port; empty
// disables the check.
func HostCheck(allowedHost string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedHost == "" {
				next.ServeHTTP(w, r)
				return
			}
			reqHost := r.Host
			if host, _, err := net.SplitHostPort(reqHost); err == nil {
				reqHost = host
			}
			if !strings.EqualFold(strings.TrimSpace(reqHost), strings.TrimSpace(allowedHost)) {
				writeJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IPRateLimiter hands out one token bucket per client IP. Buckets unused for
// longer than ttl are dropped by a janitor goroutine started on first use.
type IPRateLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu          sync.Mutex
	entries     map[string]*limiterEntry
	janitorOnce sync.Once
}

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		limit:   limit,
		burst:   burst,
		ttl:     30 * time.Minute,
		entries: make(map[string]*limiterEntry),
	}
}

// Allow consumes a token from ip's bucket.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.janitorOnce.Do(func() { go l.janitor(5 * time.Minute) })

	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter.Allow()
}

func (l *IPRateLimiter) janitor(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		l.sweep(time.Now())
	}
}

func (l *IPRateLimiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, e := range l.entries {
		if now.Sub(e.lastUse) > l.ttl {
			delete(l.entries, ip)
		}
	}
}

// RateLimit rejects requests with 429 once the caller's bucket is empty.
func RateLimit(l *IPRateLimiter, clientIP func(*http.Request) string, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientIP(r)) {
				writeJSONError(w, http.StatusTooManyRequests, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PathRateLimit applies l only to POSTs on the listed paths.
func PathRateLimit(l *IPRateLimiter, paths map[string]bool, clientIP func(*http.Request) string, message string) func(http.Handler) http.Handler {
	limited := RateLimit(l, clientIP, message)
	return func(next http.Handler) http.Handler {
		guarded := limited(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && paths[r.URL.Path] {
				guarded.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var loginPaths = map[string]bool{
	"/api/login": true,
}

var submitPaths = map[string]bool{
	"/api/feedback": true,
}

// ProductionSecurity returns: SecurityHeaders → HostCheck → global limit
// (1 req/s, burst 10) → login limit (1 per 5 s, burst 2) → submission limit
// (1 per 10 s, burst 5).
func ProductionSecurity(allowedHost string, clientIP func(*http.Request) string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		HostCheck(allowedHost),
		RateLimit(NewIPRateLimiter(1, 10), clientIP, "Trop de requêtes, veuillez patienter."),
		PathRateLimit(NewIPRateLimiter(rate.Every(5*time.Second), 2), loginPaths, clientIP,
			"Trop de tentatives de connexion, réessayez plus tard."),
		PathRateLimit(NewIPRateLimiter(rate.Every(10*time.Second), 5), submitPaths, clientIP,
			"Trop de remontées envoyées, réessayez plus tard."),
	}
}
