package editor

import (
	"context"
	"fmt"

	"github.com/morikuni/failure/v2"
	"github.com/umcp/umcp/log"
)

// ErrorCode defines error types for loop operations
type ErrorCode string

const (
	LoopStopped     ErrorCode = "LoopStopped"
	HandlerPanicked ErrorCode = "HandlerPanicked"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// job is one unit of work on the loop. done is nil for deferred,
// fire-and-forget work.
type job struct {
	name string
	fn   func(*State) error
	done chan error
}

// Loop owns a State and executes all work against it on a single
// goroutine, in submission order. It stands in for the host editor's
// main thread: Do is a synchronous call from outside, Defer registers a
// callback for a later tick with no result channel back to the submitter.
type Loop struct {
	state *State
	jobs  chan job

	stopped chan struct{}
}

// queueDepth bounds outstanding work. The host queue is effectively
// unbounded; a generous buffer keeps Defer non-blocking in practice while
// still applying backpressure if the loop wedges.
const queueDepth = 256

// NewLoop creates a loop around state. Run must be called before any
// submitted work executes.
func NewLoop(state *State) *Loop {
	l := &Loop{
		state:   state,
		jobs:    make(chan job, queueDepth),
		stopped: make(chan struct{}),
	}
	state.loop = l
	return l
}

// Run drains the queue until ctx is cancelled. It must be called exactly
// once. Between jobs, any pending run-mode transition is applied, which is
// what makes a requested play-mode exit land strictly after the submitting
// operation returns and before callbacks deferred afterwards.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-l.jobs:
			l.state.ApplyPendingTransition()
			l.execute(j)
		}
	}
}

func (l *Loop) execute(j job) {
	err := l.runGuarded(j)
	if j.done != nil {
		j.done <- err
		return
	}
	// Deferred work has no caller left to report to. Log and move on.
	if err != nil {
		log.Error("Deferred callback failed", "callback", j.name, "error", err)
	}
}

func (l *Loop) runGuarded(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = failure.New(HandlerPanicked, failure.Message(fmt.Sprintf("panic in %s: %v", j.name, r)))
		}
	}()
	return j.fn(l.state)
}

// Do runs fn on the loop goroutine and waits for it. The returned error is
// the handler's own; submission only fails when the loop has shut down.
func (l *Loop) Do(name string, fn func(*State) error) error {
	done := make(chan error, 1)
	select {
	case l.jobs <- job{name: name, fn: fn, done: done}:
	case <-l.stopped:
		return failure.New(LoopStopped, failure.Message("Editor loop is not running"))
	}
	select {
	case err := <-done:
		return err
	case <-l.stopped:
		return failure.New(LoopStopped, failure.Message("Editor loop stopped before the call completed"))
	}
}

// Defer schedules fn to run once on a later tick. There is no result
// channel: failures are logged and swallowed, and the submitter gets no
// signal that the work ran. Returns false only when the loop has shut down
// or the queue is full.
func (l *Loop) Defer(name string, fn func(*State) error) bool {
	select {
	case l.jobs <- job{name: name, fn: fn}:
		return true
	case <-l.stopped:
		return false
	default:
		log.Warn("Deferred callback dropped, queue full", "callback", name)
		return false
	}
}

// Drain blocks until everything queued before the call has executed.
// Useful for tests and shutdown paths that need deferred effects to be
// observable.
func (l *Loop) Drain() error {
	return l.Do("drain", func(*State) error { return nil })
}

// Snapshot copies the session state via the loop.
func (l *Loop) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := l.Do("snapshot", func(s *State) error {
		snap = s.Snapshot()
		return nil
	})
	return snap, err
}
