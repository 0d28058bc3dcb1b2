// Package eventloop runs callbacks on a single goroutine. Timers created with
// Every post their callbacks onto the loop, so code driven by a Loop never
// needs locks of its own.
package eventloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/franzer/glitchnav/internal/scramble"
)

// ErrStopped is returned by Post once the loop has been stopped.
var ErrStopped = errors.New("eventloop: stopped")

// Loop is a single-goroutine task runner.
type Loop struct {
	tasks   chan func()
	done    chan struct{}
	mu      sync.Mutex // guards stopped and wg.Add against Stop
	stopped bool
	wg      sync.WaitGroup
	running atomic.Bool
}

// New creates a loop whose task queue holds up to buffer pending callbacks
// before Post blocks.
func New(buffer int) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post queues fn to run on the loop goroutine. It blocks while the queue is
// full and fails once the loop is stopped.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Run executes posted callbacks until ctx is cancelled or Stop is called.
// It returns ctx.Err() on cancellation and nil after Stop.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("eventloop: already running")
	}
	defer l.running.Store(false)
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			select {
			case <-l.done:
				return nil
			default:
			}
			fn()
		}
	}
}

// Stop ends Run and waits for timer goroutines to exit. Pending callbacks are
// dropped. Safe to call more than once and from the loop goroutine.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		close(l.done)
	}
	l.mu.Unlock()
	l.wg.Wait()
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Every starts a recurring timer whose callback runs on the loop goroutine.
// On a stopped loop it returns a timer that never fires.
func (l *Loop) Every(interval time.Duration, fn func()) scramble.Timer {
	t := &timer{stop: make(chan struct{})}
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		t.Stop()
		return t
	}
	l.wg.Add(1)
	l.mu.Unlock()
	go l.runTimer(t, interval, fn)
	return t
}

func (l *Loop) runTimer(t *timer, interval time.Duration, fn func()) {
	defer l.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			fire := func() {
				// A firing may already be queued when Stop is called; the
				// flag is read on the loop goroutine, after Stop happened.
				if !t.stopped.Load() {
					fn()
				}
			}
			if err := l.Post(fire); err != nil {
				return
			}
		case <-t.stop:
			return
		case <-l.done:
			return
		}
	}
}

type timer struct {
	stopped atomic.Bool
	once    sync.Once
	stop    chan struct{}
}

func (t *timer) Stop() {
	t.once.Do(func() {
		t.stopped.Store(true)
		close(t.stop)
	})
}
