package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is the coalescing window for file change bursts.
// Editors commonly write a file several times per save.
const DefaultDebounceWindow = 250 * time.Millisecond

// Debouncer collapses a burst of Trigger calls into one callback, fired
// after the window elapses with no further triggers.
type Debouncer struct {
	window time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a debouncer. A zero window uses the default.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{window: window}
}

// Trigger arms the callback. A trigger arriving before the window elapses
// supersedes the previous one.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		// The generation check stops a timer that fired concurrently with a
		// newer Trigger or with Cancel.
		d.mu.Lock()
		stale := gen != d.gen
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()
		if stale {
			return
		}
		fn()
	})
}

// Cancel discards any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
