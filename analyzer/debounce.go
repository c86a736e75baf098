// ABOUTME: Cancellable trailing-edge debouncer driven by an injectable clock
// ABOUTME: A generation counter keeps an already-fired timer from running a superseded call
package analyzer

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Debouncer runs the most recent triggered function once the delay passes
// without another trigger.
type Debouncer struct {
	clock clock.Clock
	delay time.Duration

	mu    sync.Mutex
	timer *clock.Timer
	gen   uint64
}

// NewDebouncer returns a debouncer using clk for its timers.
func NewDebouncer(clk clock.Clock, delay time.Duration) *Debouncer {
	return &Debouncer{clock: clk, delay: delay}
}

// Trigger schedules fn, replacing any pending call. It reports whether a
// pending call was replaced.
func (d *Debouncer) Trigger(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	replaced := false
	if d.timer != nil {
		d.timer.Stop()
		replaced = true
	}

	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
	return replaced
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// pending reports whether a call is scheduled.
func (d *Debouncer) pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
