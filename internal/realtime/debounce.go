package realtime

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of values into one delivery: each Set
// cancels the pending timer and restarts it, so fn fires once with the
// last value after the input goes quiet for the configured delay.
//
// Used for the free-text absence reason, which would otherwise broadcast
// a frame per keystroke.
type Debouncer struct {
	delay time.Duration
	fn    func(*string)

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(delay time.Duration, fn func(*string)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Set schedules v for delivery, replacing any pending value.
func (d *Debouncer) Set(v *string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fn(v) })
}

// Flush delivers a pending value now instead of waiting out the delay.
// No-op when nothing is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	timer := d.timer
	d.timer = nil
	d.mu.Unlock()
	if timer != nil && timer.Stop() {
		timer.Reset(0)
	}
}

// Cancel discards any pending value.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
