package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TurnThrottle paces turn submissions. Advancing a turn is cheap, so a
// runaway client could burn through a scenario's quarters in seconds; each
// caller instead gets a fixed allowance of submissions per window.
type TurnThrottle struct {
	mu        sync.Mutex
	callers   map[string]*allowance
	perWindow int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time // injectable for tests
}

type allowance struct {
	left    int
	started time.Time
}

// NewTurnThrottle grants perWindow submissions per caller per window.
func NewTurnThrottle(perWindow int, window time.Duration) *TurnThrottle {
	return &TurnThrottle{
		callers:   make(map[string]*allowance),
		perWindow: perWindow,
		window:    window,
		now:       time.Now,
	}
}

// Allow consumes one submission from the caller's allowance. A caller whose
// window has elapsed starts a fresh one.
func (t *TurnThrottle) Allow(caller string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.sweep(now)

	a, ok := t.callers[caller]
	if !ok || now.Sub(a.started) >= t.window {
		t.callers[caller] = &allowance{left: t.perWindow - 1, started: now}
		return true
	}
	if a.left > 0 {
		a.left--
		return true
	}
	return false
}

// RetryAfter reports whole seconds until the caller's window resets.
func (t *TurnThrottle) RetryAfter(caller string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, ok := t.callers[caller]
	if !ok {
		return 0
	}
	remaining := t.window - t.now().Sub(a.started)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// sweep drops callers idle for two full windows, at most once per window.
// Called under the lock.
func (t *TurnThrottle) sweep(now time.Time) {
	if now.Sub(t.lastSweep) < t.window {
		return
	}
	t.lastSweep = now
	for caller, a := range t.callers {
		if now.Sub(a.started) > 2*t.window {
			delete(t.callers, caller)
		}
	}
}

// Throttled wraps a mutating handler, answering 429 once a caller's
// allowance is spent.
func Throttled(t *TurnThrottle, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerKey(r)
		if !t.Allow(caller) {
			w.Header().Set("Retry-After", strconv.Itoa(t.RetryAfter(caller)))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "turn submission allowance exhausted",
			})
			return
		}
		next(w, r)
	}
}

// callerKey identifies the client, honoring the first X-Forwarded-For hop
// for proxied requests.
func callerKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
