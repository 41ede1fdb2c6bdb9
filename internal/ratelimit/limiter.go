// Package ratelimit implements local admission control for outbound AI
// requests: a fixed window with a hard cap, matching the app-side limit the
// Squad backend expects clients to respect.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultLimit  = 3
	DefaultWindow = 60 * time.Second
)

// FixedWindow admits up to limit acquisitions per window. The window resets
// lazily on the first acquisition after it elapses. Acquisition is a single
// check-and-increment under one mutex, so it is safe for concurrent use.
//
// Not a token bucket: the externally observable contract is an exact
// admission count per fixed window.
type FixedWindow struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	windowStart time.Time
	count       int
	now         func() time.Time
}

// New creates a limiter admitting limit requests per window. Non-positive
// arguments fall back to the defaults (3 per 60s).
func New(limit int, window time.Duration) *FixedWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &FixedWindow{limit: limit, window: window, now: time.Now}
}

// NewWithClock is New with an injectable clock for tests.
func NewWithClock(limit int, window time.Duration, now func() time.Time) *FixedWindow {
	l := New(limit, window)
	l.now = now
	return l
}

// TryAcquire reports whether a request may proceed, consuming one slot if so.
// It never blocks; a rejected caller decides for itself when to retry.
func (l *FixedWindow) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.windowStart) >= l.window {
		l.windowStart = now
		l.count = 0
	}
	if l.count >= l.limit {
		return false
	}
	l.count++
	return true
}

// Reset clears the current window. Used on logout so a returning user does
// not inherit a half-spent window.
func (l *FixedWindow) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.count = 0
	l.windowStart = time.Time{}
}
