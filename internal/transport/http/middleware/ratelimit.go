package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"onboarding/internal/transport/http/api"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(r *http.Request) string

type bucket struct {
	hits  int
	reset time.Time
}

type limiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	key       KeyFunc
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newLimiter(limit int, window time.Duration, key KeyFunc) *limiter {
	return &limiter{limit: limit, window: window, key: key, buckets: map[string]*bucket{}}
}

// RateLimit caps every caller at limit requests per window, keyed on the
// signed-in user when there is one and the client address otherwise.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(limit, window, ActorKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.allow(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// SensitiveMutationRateLimit adds tighter limits on sign in, sign up and
// form submission. Sign in and sign up are counted per address and per
// email so rotating either one does not help.
func SensitiveMutationRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	credentials := []*limiter{
		newLimiter(max(baseLimit/4, 1), window, ClientIP),
		newLimiter(max(baseLimit/4, 1), window, emailKey),
	}
	submissions := []*limiter{
		newLimiter(max(baseLimit/2, 1), window, ActorKey),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var chain []*limiter
			switch routeScope(r) {
			case scopeCredentials:
				chain = credentials
			case scopeSubmission:
				chain = submissions
			}
			for _, l := range chain {
				if !l.allow(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type scope int

const (
	scopeNone scope = iota
	scopeCredentials
	scopeSubmission
)

var sensitiveRoutes = map[string]scope{
	"POST /auth/login":              scopeCredentials,
	"POST /auth/register":           scopeCredentials,
	"POST /internForm/intern":       scopeSubmission,
	"POST /temporaryForm/temporary": scopeSubmission,
	"POST /timeSheet":               scopeSubmission,
	"POST /admin/job":               scopeSubmission,
}

func routeScope(r *http.Request) scope {
	path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/v1"), "/")
	return sensitiveRoutes[r.Method+" "+path]
}

// ActorKey counts signed-in callers by user id and everyone else by address.
func ActorKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return ClientIP(r)
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection address.
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
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// emailKey reads the email from a JSON body and puts the body back.
func emailKey(r *http.Request) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ClientIP(r)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ClientIP(r)
	}
	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &payload) != nil || strings.TrimSpace(payload.Email) == "" {
		return ClientIP(r)
	}
	return "email:" + strings.ToLower(strings.TrimSpace(payload.Email))
}

func (l *limiter) allow(w http.ResponseWriter, r *http.Request) bool {
	if l.limit <= 0 {
		return true
	}
	key := l.key(r)
	now := time.Now()

	l.mu.Lock()
	l.sweep(now)
	b, ok := l.buckets[key]
	if !ok || now.After(b.reset) {
		b = &bucket{reset: now.Add(l.window)}
		l.buckets[key] = b
	}
	b.hits++
	hits, reset := b.hits, b.reset
	l.mu.Unlock()

	resetIn := int(reset.Sub(now).Round(time.Second) / time.Second)
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(l.limit-hits, 0)))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetIn))
	if hits <= l.limit {
		return true
	}

	w.Header().Set("Retry-After", strconv.Itoa(max(resetIn, 1)))
	slog.Warn("rate limit exceeded", "key", key, "method", r.Method, "path", r.URL.Path, "limit", l.limit)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

// sweep drops expired buckets at most once per window. Callers hold mu.
func (l *limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.After(b.reset) {
			delete(l.buckets, key)
		}
	}
}
