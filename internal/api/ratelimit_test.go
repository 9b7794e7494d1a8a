package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnThrottleAllowance(t *testing.T) {
	th := NewTurnThrottle(3, time.Minute)
	now := time.Unix(1000, 0)
	th.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, th.Allow("alpha"), "submission %d", i)
	}
	assert.False(t, th.Allow("alpha"))
	assert.Positive(t, th.RetryAfter("alpha"))

	// Other callers keep their own allowance.
	assert.True(t, th.Allow("bravo"))

	// A fresh window restores the allowance.
	now = now.Add(time.Minute)
	assert.True(t, th.Allow("alpha"))
	assert.Equal(t, 0, th.RetryAfter("charlie"))
}

func TestTurnThrottleSweepsIdleCallers(t *testing.T) {
	th := NewTurnThrottle(1, time.Minute)
	now := time.Unix(1000, 0)
	th.now = func() time.Time { return now }

	require.True(t, th.Allow("alpha"))
	now = now.Add(3 * time.Minute)
	require.True(t, th.Allow("bravo"))
	assert.NotContains(t, th.callers, "alpha")
}

func TestThrottledHandler(t *testing.T) {
	th := NewTurnThrottle(1, time.Minute)
	handler := Throttled(th, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	do := func(remote, forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/turn", nil)
		req.RemoteAddr = remote
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:5000", "").Code)
	// Same host, different port: still the same caller.
	rec := do("10.0.0.1:5001", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// A proxied caller is keyed by the first forwarded hop.
	assert.Equal(t, http.StatusOK, do("10.0.0.1:5002", "203.0.113.7, 10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.9:1", "203.0.113.7").Code)
}
