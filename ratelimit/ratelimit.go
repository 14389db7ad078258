// Package ratelimit provides a token bucket rate limiter keyed by an
// arbitrary string. Traction uses it to throttle task generation
// requests and sign-in attempts.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter implements a token bucket rate limiter per key.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     int           // tokens per interval
	interval time.Duration // refill interval
	burst    int           // max tokens (bucket capacity)
}

type bucket struct {
	tokens    int
	lastCheck time.Time
}

// Config holds rate limiter configuration.
type Config struct {
	Rate     int           // requests allowed per interval
	Interval time.Duration // time interval for rate
	Burst    int           // maximum burst size
}

// DefaultAuthConfig returns sensible defaults for sign-in attempts.
// Allows 5 attempts per minute with a burst of 10.
func DefaultAuthConfig() Config {
	return Config{
		Rate:     5,
		Interval: time.Minute,
		Burst:    10,
	}
}

// DefaultGenerationConfig returns sensible defaults for task
// generation calls. Allows 3 requests per minute with a burst of 3.
func DefaultGenerationConfig() Config {
	return Config{
		Rate:     3,
		Interval: time.Minute,
		Burst:    3,
	}
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(cfg Config) *Limiter {
	return &Limiter{
		buckets:  make(map[string]*bucket),
		rate:     cfg.Rate,
		interval: cfg.Interval,
		burst:    cfg.Burst,
	}
}

// Allow checks if a request under the given key should be allowed,
// consuming a token if so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	b, exists := l.buckets[key]
	if !exists {
		// New key starts with a full bucket
		l.buckets[key] = &bucket{
			tokens:    l.burst - 1, // consume one token for this request
			lastCheck: now,
		}
		return true
	}

	// Calculate tokens to add based on elapsed time
	elapsed := now.Sub(b.lastCheck)
	tokensToAdd := int(elapsed/l.interval) * l.rate

	if tokensToAdd > 0 {
		b.tokens += tokensToAdd
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
		b.lastCheck = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// RetryAfter returns how long callers should wait before the next
// attempt once Allow has returned false.
func (l *Limiter) RetryAfter() time.Duration {
	return l.interval
}

// Reset clears rate limit state for a specific key (useful for testing).
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.buckets, key)
	l.mu.Unlock()
}

// ResetAll clears all rate limit state (useful for testing).
func (l *Limiter) ResetAll() {
	l.mu.Lock()
	l.buckets = make(map[string]*bucket)
	l.mu.Unlock()
}
