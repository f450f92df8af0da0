// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/danielhkuo/ballotbox/models"
)

// RateLimiter is a fixed-window counter keyed by client IP. It is an
// auxiliary guard: for voting, the database uniqueness constraint is
// the correctness mechanism and this only curbs hammering.
type RateLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string]*windowEntry
}

type windowEntry struct {
	start time.Time
	count int
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:     max,
		window:  window,
		entries: make(map[string]*windowEntry),
	}
}

// Allow records an attempt for the key and reports whether it is
// within the window's budget. Rejected attempts count too, so a client
// that keeps hammering stays denied for the rest of its window; the
// window itself is fixed and never slides.
func (l *RateLimiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || now.Sub(entry.start) >= l.window {
		l.entries[key] = &windowEntry{start: now, count: 1}
		l.prune(now)
		return true
	}

	entry.count++
	return entry.count <= l.max
}

// prune drops expired windows; called opportunistically under the lock
// so the map does not grow without bound.
func (l *RateLimiter) prune(now time.Time) {
	if len(l.entries) < 1024 {
		return
	}
	for key, entry := range l.entries {
		if now.Sub(entry.start) >= l.window {
			delete(l.entries, key)
		}
	}
}

// Wrap guards a handler with the limiter, keyed by client IP.
func (l *RateLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(GetClientIP(r)) {
			ErrorResponse(w, http.StatusTooManyRequests, models.CodeRateLimited, "Too many requests, try again later")
			return
		}
		next(w, r)
	}
}
