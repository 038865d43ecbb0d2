package watch

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into one signal on C after a quiet
// window with no further triggers.
type Debouncer struct {
	quiet time.Duration
	c     chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{quiet: quiet, c: make(chan struct{}, 1)}
}

// C delivers at most one pending signal.
func (d *Debouncer) C() <-chan struct{} { return d.c }

// Trigger restarts the quiet window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.signal)
}

// signal queues one request without blocking; a request already queued
// covers this one.
func (d *Debouncer) signal() {
	select {
	case d.c <- struct{}{}:
	default:
	}
}

// Stop cancels a pending timer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
