package debounce

import (
	"sync"
	"time"
)

// DefaultDelay matches the settings panel cadence: edits arriving closer than
// this are coalesced into a single write.
const DefaultDelay = 512 * time.Millisecond

// Debouncer runs only the most recently triggered function, once the delay has
// elapsed without another trigger.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
}

func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// Flush runs the pending function immediately. It reports whether anything ran.
func (d *Debouncer) Flush() bool {
	fn := d.take()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Stop drops the pending function without running it.
func (d *Debouncer) Stop() {
	_ = d.take()
}

func (d *Debouncer) fire() {
	if fn := d.take(); fn != nil {
		fn()
	}
}

func (d *Debouncer) take() func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn := d.pending
	d.pending = nil
	return fn
}
