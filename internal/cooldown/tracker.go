// Package cooldown suppresses repeated alerts for the same instrument within
// a configurable window.
package cooldown

import (
	"sync"
	"time"
)

// Tracker keeps a per-symbol last-alert timestamp. Checking is atomic with
// arming: a true Allow updates the timestamp in the same critical section, so
// two concurrent callers can never both pass inside the cooldown window.
type Tracker struct {
	mu        sync.Mutex
	duration  time.Duration
	lastAlert map[string]time.Time
	now       func() time.Time
}

// NewTracker builds a Tracker. The clock is injected so tests (and the engine,
// which shares a clock with the session gate) control time.
func NewTracker(duration time.Duration, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		duration:  duration,
		lastAlert: make(map[string]time.Time),
		now:       now,
	}
}

// Allow reports whether the symbol may alert now, and arms the cooldown as a
// side effect when it may. True iff no prior alert is recorded or at least the
// cooldown duration has elapsed since the last one.
func (t *Tracker) Allow(symbol string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if last, ok := t.lastAlert[symbol]; ok && now.Sub(last) < t.duration {
		return false
	}
	t.lastAlert[symbol] = now
	return true
}

// Remaining returns how long until the symbol may alert again. Zero means it
// is clear now.
func (t *Tracker) Remaining(symbol string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.lastAlert[symbol]
	if !ok {
		return 0
	}
	left := t.duration - t.now().Sub(last)
	if left < 0 {
		return 0
	}
	return left
}
