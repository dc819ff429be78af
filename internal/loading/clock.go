// ABOUTME: Clock abstraction for periodic callbacks with real and manual implementations
// ABOUTME: ManualClock fires callbacks synchronously from Advance for deterministic tests

package loading

import (
	"sort"
	"sync"
	"time"
)

// Clock schedules periodic callbacks.
type Clock interface {
	Now() time.Time
	// Every calls f once per interval until the returned stop func is called.
	Every(interval time.Duration, f func()) (stop func())
}

// RealClock is a Clock backed by time.Ticker
type RealClock struct{}

// Now returns the wall clock time
func (RealClock) Now() time.Time { return time.Now() }

// Every starts a ticker goroutine. Stop is safe to call multiple times
// and does not wait for an in-flight f to return.
func (RealClock) Every(interval time.Duration, f func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				f()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

type manualTimer struct {
	interval time.Duration
	next     time.Time
	f        func()
	stopped  bool
	seq      int
}

// ManualClock is a Clock whose time only moves when Advance is called.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
	seq    int
}

// NewManualClock creates a ManualClock starting at start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current virtual time
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Every registers f to run each time virtual time crosses a multiple of interval.
func (c *ManualClock) Every(interval time.Duration, f func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{interval: interval, next: c.now.Add(interval), f: f, seq: c.seq}
	c.timers = append(c.timers, t)

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		t.stopped = true
		c.removeStoppedLocked()
	}
}

// Advance moves virtual time forward by d, running every callback that
// comes due in chronological order. Callbacks run on the caller's goroutine
// without the clock lock held.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		t := c.nextDueLocked(target)
		if t == nil {
			break
		}
		c.now = t.next
		t.next = t.next.Add(t.interval)
		c.mu.Unlock()
		t.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// Active returns the number of registered, unstopped timers
func (c *ManualClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *ManualClock) nextDueLocked(target time.Time) *manualTimer {
	due := make([]*manualTimer, 0, len(c.timers))
	for _, t := range c.timers {
		if !t.stopped && !t.next.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].next.Equal(due[j].next) {
			return due[i].next.Before(due[j].next)
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (c *ManualClock) removeStoppedLocked() {
	kept := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	c.timers = kept
}
