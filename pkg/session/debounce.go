package session

import (
	"sync"
	"time"
)

// CancelFunc cancels a scheduled action. Safe to call more than once and
// after the action has fired.
type CancelFunc func()

// ScheduleAfter runs fn once after delay, returning a cancel handle.
func ScheduleAfter(delay time.Duration, fn func()) CancelFunc {
	timer := time.AfterFunc(delay, fn)
	return func() { timer.Stop() }
}

// Debouncer coalesces a burst of triggers into one action after a
// quiescence delay. Each Trigger cancels the previously scheduled action.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	cancel CancelFunc
}

// NewDebouncer creates a debouncer with the given quiescence delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the delay, replacing any pending action.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
	d.cancel = ScheduleAfter(d.delay, fn)
}

// Flush cancels any pending action and runs fn immediately on the
// caller's goroutine. This backs the explicit "search now" action.
func (d *Debouncer) Flush(fn func()) {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()
	fn()
}

// Cancel drops any pending action.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
