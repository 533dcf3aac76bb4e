package session

import (
	"sync"
	"time"
)

// Timer is a pending debounce callback.
type Timer interface {
	// Stop cancels the callback. It reports false if it already ran.
	Stop() bool
}

// Scheduler runs f once after d. The session uses it for its debounce
// window; tests and deterministic drivers substitute ManualScheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// realScheduler delegates to time.AfterFunc.
type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler queues callbacks until Fire is called. It never runs
// anything on its own.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	m       *ManualScheduler
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// AfterFunc queues f.
func (m *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{m: m, d: d, f: f}
	m.pending = append(m.pending, t)
	return t
}

// Pending returns the number of queued, unstopped callbacks.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// LastDelay returns the delay of the most recently queued callback.
func (m *ManualScheduler) LastDelay() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return 0
	}
	return m.pending[len(m.pending)-1].d
}

// Fire runs every queued callback that has not been stopped, in order,
// and reports how many ran. Callbacks run without the scheduler lock held.
func (m *ManualScheduler) Fire() int {
	m.mu.Lock()
	var due []*manualTimer
	for _, t := range m.pending {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	m.pending = nil
	m.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}
