// Package ratelimit provides the per-submitter request limiter.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter decides whether a submitter identified by key may proceed. The
// submission pipeline only depends on this interface, so the in-process
// implementation below can be swapped for a distributed one without
// touching the pipeline.
type Limiter interface {
	Allow(key string) bool
}

// FixedWindow is an in-process fixed-window counter. All keys share one
// window; counts reset when the window rolls over, which also bounds the
// map's growth to one window's worth of distinct submitters.
type FixedWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	bucket int64
	counts map[string]int
	now    func() time.Time
}

// NewFixedWindow creates a limiter admitting limit calls per key per window.
func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		limit:  limit,
		window: window,
		counts: make(map[string]int),
		now:    time.Now,
	}
}

// Allow reports whether key has admission left in the current window and
// consumes one slot when it does.
func (l *FixedWindow) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket := l.now().UnixNano() / int64(l.window)
	if bucket != l.bucket {
		l.bucket = bucket
		l.counts = make(map[string]int)
	}

	if l.counts[key] >= l.limit {
		return false
	}
	l.counts[key]++
	return true
}
