package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidArgs(t *testing.T) {
	assert.Nil(t, New(0, 1, 0))
	assert.Nil(t, New(1, 0, 0))
	require.NotNil(t, New(1, 1, 0))
	assert.Equal(t, DefaultIdleTTL, New(1, 1, 0).ttl)
}

func TestAllowPerKeyBurst(t *testing.T) {
	l := New(1, 2, time.Minute)
	now := time.Unix(1_700_000_000, 0)

	assert.True(t, l.Allow("a", now))
	assert.True(t, l.Allow("a", now))
	assert.False(t, l.Allow("a", now))
	assert.True(t, l.Allow("b", now), "keys have separate buckets")

	assert.True(t, l.Allow("a", now.Add(time.Second)))
	assert.Equal(t, 2, l.Len())
}

func TestAllowNilAndEmptyKey(t *testing.T) {
	var l *MapLimiter
	assert.True(t, l.Allow("a", time.Now()))
	assert.Zero(t, l.Len())

	l = New(1, 1, time.Minute)
	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("  ", time.Now()))
	}
	assert.Zero(t, l.Len())
}

func TestIdleKeysAreEvicted(t *testing.T) {
	l := New(100, 100, time.Minute)
	start := time.Unix(1_700_000_000, 0)
	for i := 0; i < 100; i++ {
		l.Allow("idle-"+strconv.Itoa(i), start)
	}
	l.Allow("busy", start.Add(30*time.Second))
	assert.Equal(t, 101, l.Len(), "no sweep before the ttl elapses")

	l.Allow("busy", start.Add(61*time.Second))
	assert.Equal(t, 1, l.Len())
}

func TestSweepKeepsRecentKeys(t *testing.T) {
	l := New(0.01, 1, time.Minute)
	start := time.Unix(1_700_000_000, 0)

	assert.True(t, l.Allow("a", start))
	assert.True(t, l.Allow("b", start.Add(50*time.Second)))

	later := start.Add(61 * time.Second)
	assert.False(t, l.Allow("b", later), "b keeps its drained bucket")
	assert.True(t, l.Allow("a", later), "a was swept and starts full")
	assert.Equal(t, 2, l.Len())
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	h := Middleware(New(1, 2, time.Minute), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.RemoteAddr = "10.0.0.1:5000"
		h.ServeHTTP(rec, r)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", rec.Header().Get("Retry-After"))
			assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
		}
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = "10.0.0.2:5000"
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddlewareNilLimiterPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := Middleware(nil, RemoteIP)(next)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRemoteIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "[::1]:443"
	assert.Equal(t, "::1", RemoteIP(r))
	r.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", RemoteIP(r))
}
