package ratelimit

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an unused caller bucket is kept.
const DefaultIdleTTL = 10 * time.Minute

// MapLimiter keeps one token bucket per caller key. Buckets idle for
// longer than the TTL are swept at most once per TTL.
type MapLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
}

type bucket struct {
	tokens *rate.Limiter
	used   time.Time
}

// New returns nil when rps or burst is not positive, which Middleware
// treats as unlimited.
func New(rps float64, burst int, idleTTL time.Duration) *MapLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &MapLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		ttl:     idleTTL,
		buckets: make(map[string]*bucket),
	}
}

// Allow takes one token from key's bucket at now. A nil limiter and a
// blank key always allow.
func (l *MapLimiter) Allow(key string, now time.Time) bool {
	if l == nil {
		return true
	}
	if key = strings.TrimSpace(key); key == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.nextSweep.IsZero() {
		l.nextSweep = now.Add(l.ttl)
	} else if !now.Before(l.nextSweep) {
		l.sweepLocked(now)
		l.nextSweep = now.Add(l.ttl)
	}

	b := l.buckets[key]
	if b == nil {
		b = &bucket{tokens: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.used = now
	return b.tokens.AllowN(now, 1)
}

// Len reports the number of tracked keys.
func (l *MapLimiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *MapLimiter) sweepLocked(now time.Time) {
	cutoff := now.Add(-l.ttl)
	for k, b := range l.buckets {
		if b.used.Before(cutoff) {
			delete(l.buckets, k)
		}
	}
}
