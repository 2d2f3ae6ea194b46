// Package ratelimit is a sliding-window request limiter keyed by caller,
// used to keep one client from hammering sign-in or the chat endpoint.
package ratelimit

import (
	"sync"
	"time"
)

type Limiter struct {
	mu      sync.Mutex
	hits    map[string][]time.Time
	window  time.Duration
	maxHits int
}

func NewLimiter(window time.Duration, maxHits int) *Limiter {
	return &Limiter{
		hits:    make(map[string][]time.Time),
		window:  window,
		maxHits: maxHits,
	}
}

// Allow records a hit for key and reports whether it stays within the
// window budget. Denied hits are not recorded.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	recent := l.prune(key, now.Add(-l.window))
	if len(recent) >= l.maxHits {
		return false
	}

	l.hits[key] = append(recent, now)
	return true
}

// prune drops hits older than cutoff and releases emptied keys so the map
// does not grow with every caller ever seen.
func (l *Limiter) prune(key string, cutoff time.Time) []time.Time {
	recent := l.hits[key][:0]
	for _, hit := range l.hits[key] {
		if hit.After(cutoff) {
			recent = append(recent, hit)
		}
	}
	if len(recent) == 0 {
		delete(l.hits, key)
		return nil
	}
	l.hits[key] = recent
	return recent
}
