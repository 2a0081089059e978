// Package rate limits trace construction per client.
package rate

import (
	"sync"
	"time"

	xrate "golang.org/x/time/rate"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(key string) bool
}

type bucket struct {
	limiter  *xrate.Limiter
	lastSeen time.Time
}

// TokenBucket keeps one token bucket per key. Keys idle past the ttl
// are dropped opportunistically on Allow.
type TokenBucket struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	rps       xrate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
}

// NewTokenBucket creates a limiter refilling rps tokens per second
// with the given burst per key.
func NewTokenBucket(rps float64, burst int) *TokenBucket {
	return &TokenBucket{
		buckets:   make(map[string]*bucket),
		rps:       xrate.Limit(rps),
		burst:     burst,
		ttl:       10 * time.Minute,
		lastSweep: time.Now(),
	}
}

// Allow reports whether key may take one token.
func (t *TokenBucket) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.sweepLocked(now)

	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{limiter: xrate.NewLimiter(t.rps, t.burst)}
		t.buckets[key] = b
	}
	b.lastSeen = now

	return b.limiter.Allow()
}

// Len returns the number of tracked keys.
func (t *TokenBucket) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buckets)
}

func (t *TokenBucket) sweepLocked(now time.Time) {
	if now.Sub(t.lastSweep) < t.ttl {
		return
	}
	t.lastSweep = now

	cutoff := now.Add(-t.ttl)
	for key, b := range t.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(t.buckets, key)
		}
	}
}
