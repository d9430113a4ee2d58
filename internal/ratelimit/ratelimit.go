// Package ratelimit implements a per-client token bucket used to keep
// one misbehaving poller from starving the read-only API.
package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens    float64
	lastCheck time.Time
}

// Limiter implements a token bucket rate limiter keyed by client
// address. Buckets refill continuously at PerMinute tokens per minute
// up to Burst.
type Limiter struct {
	mu            sync.Mutex
	buckets       map[string]*bucket
	perMinute     float64
	burst         float64
	now           func() time.Time
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
}

// Config for creating a new rate limiter
type Config struct {
	PerMinute int // tokens added per minute
	Burst     int // maximum tokens that can be accumulated
}

// New creates a new rate limiter
func New(cfg Config) *Limiter {
	if cfg.Burst == 0 {
		cfg.Burst = cfg.PerMinute
	}

	l := &Limiter{
		buckets:     make(map[string]*bucket),
		perMinute:   float64(cfg.PerMinute),
		burst:       float64(cfg.Burst),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	l.cleanupTicker = time.NewTicker(5 * time.Minute)
	go l.cleanup()

	return l
}

// cleanup removes buckets that have been idle long enough to refill
// completely.
func (l *Limiter) cleanup() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.mu.Lock()
			now := l.now()
			for key, b := range l.buckets {
				if now.Sub(b.lastCheck) > 10*time.Minute {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		case <-l.stopCleanup:
			l.cleanupTicker.Stop()
			return
		}
	}
}

// Stop stops the cleanup goroutine
func (l *Limiter) Stop() {
	close(l.stopCleanup)
}

// Allow reports whether one request from key may proceed, consuming a
// token if so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, exists := l.buckets[key]
	if !exists {
		b = &bucket{tokens: l.burst, lastCheck: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastCheck).Minutes() * l.perMinute
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.lastCheck = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Remaining returns the whole tokens currently available to key.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.buckets[key]
	if !exists {
		return int(l.burst)
	}

	tokens := b.tokens + l.now().Sub(b.lastCheck).Minutes()*l.perMinute
	if tokens > l.burst {
		tokens = l.burst
	}
	return int(tokens)
}
