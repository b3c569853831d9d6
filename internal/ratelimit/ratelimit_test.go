package ratelimit

import (
	"testing"
	"time"
)

func TestFixedWindow_AllowsUpToLimit(t *testing.T) {
	l := NewFixedWindow(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("call %d: want allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("call 4: want denied")
	}
}

func TestFixedWindow_IndependentKeys(t *testing.T) {
	l := NewFixedWindow(1, time.Hour)

	if !l.Allow("10.0.0.1") {
		t.Fatal("first key: want allowed")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("second key: want allowed despite first key's usage")
	}
	if l.Allow("10.0.0.1") {
		t.Error("first key again: want denied")
	}
}

func TestFixedWindow_ResetsOnNewWindow(t *testing.T) {
	l := NewFixedWindow(1, time.Hour)

	current := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	if !l.Allow("10.0.0.1") {
		t.Fatal("want allowed in first window")
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("want denied in same window")
	}

	current = current.Add(time.Hour)
	if !l.Allow("10.0.0.1") {
		t.Error("want allowed again after window rollover")
	}
}

func TestFixedWindow_RolloverPrunesKeys(t *testing.T) {
	l := NewFixedWindow(1, time.Hour)

	current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	for _, key := range []string{"a", "b", "c"} {
		l.Allow(key)
	}
	current = current.Add(time.Hour)
	l.Allow("d")

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.counts) != 1 {
		t.Errorf("counts has %d keys after rollover, want 1", len(l.counts))
	}
}
