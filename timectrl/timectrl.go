// Package timectrl drives the periodic current-sky refresh. A Refresher
// fires its listeners on a fixed wall-clock cadence so chartd can keep
// its gauges and cached sky in step with real time.
package timectrl

import (
	"sync"
	"time"
)

// Clock is the read side of a Refresher: the instant of the most recent
// tick. Components that only need "when did we last refresh" depend on
// this rather than on the concrete type.
type Clock interface {
	Now() time.Time
}

// Refresher invokes registered listeners once immediately on Start and
// then on every interval tick until it is stopped or its run duration
// elapses.
type Refresher struct {
	mu       sync.RWMutex
	Interval time.Duration

	lastTick  time.Time
	listeners []func(time.Time)

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRefresher constructs a stopped refresher with the given cadence.
func NewRefresher(interval time.Duration) *Refresher {
	return &Refresher{
		Interval: interval,
		stop:     make(chan struct{}),
	}
}

// Now returns the instant of the most recent tick, or the zero time
// before the first one. Implements Clock.
func (r *Refresher) Now() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastTick
}

// AddListener registers a callback invoked on every tick with the tick
// instant. Register before Start; listeners run on the refresh
// goroutine, one after another.
func (r *Refresher) AddListener(fn func(time.Time)) {
	r.listeners = append(r.listeners, fn)
}

// Start runs the refresher on its own goroutine and returns a channel
// that is closed when it finishes. A positive duration bounds the run;
// zero means run until Stop is called. The first tick fires immediately.
func (r *Refresher) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		var deadline <-chan time.Time
		if duration > 0 {
			timer := time.NewTimer(duration)
			defer timer.Stop()
			deadline = timer.C
		}

		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()

		r.tick(time.Now())
		for {
			select {
			case <-r.stop:
				return
			case <-deadline:
				return
			case at := <-ticker.C:
				r.tick(at)
			}
		}
	}()
	return done
}

// Stop ends an unbounded run. Safe to call more than once.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *Refresher) tick(at time.Time) {
	r.mu.Lock()
	r.lastTick = at
	r.mu.Unlock()

	for _, fn := range r.listeners {
		fn(at)
	}
}
