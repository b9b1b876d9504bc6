package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer accumulates poster paths and flushes them as one batch once
// no new path has arrived for the configured delay. A single shared
// timer is restarted on every arrival, so a burst that keeps touching
// files keeps pushing the flush out until the burst settles.
type Debouncer struct {
	delay time.Duration
	fn    func(paths []string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	stopped bool
}

// NewDebouncer constructs a debouncer that invokes fn with the sorted
// pending set each time the quiet period elapses.
func NewDebouncer(delay time.Duration, fn func(paths []string)) *Debouncer {
	if delay <= 0 {
		delay = 400 * time.Millisecond
	}
	return &Debouncer{
		delay:   delay,
		fn:      fn,
		pending: make(map[string]struct{}),
	}
}

// Mark records a dirty poster path and restarts the shared timer.
func (d *Debouncer) Mark(path string) {
	if path == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.flush)
		return
	}
	d.timer.Reset(d.delay)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(d.pending))
	for path := range d.pending {
		paths = append(paths, path)
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	sort.Strings(paths)
	d.fn(paths)
}

// Stop cancels any pending flush and discards accumulated paths. A
// stopped debouncer ignores further marks.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = make(map[string]struct{})
}
