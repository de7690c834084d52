// Package waitq implements the wait-queue/trigger suspension primitive
// shared by the clock, PTY, and socket subsystems. A task blocks by
// allocating a trigger, adding it to the resource's wait queue, and
// waiting on it; another task (or an interrupt handler) fires the trigger
// to make the waiter runnable again.
package waitq

import (
	"context"
	"sync"
)

// Event identifies what kind of readiness a trigger represents: a
// connect/accept rendezvous or data available to a receiver.
type Event int

const (
	EventSocket Event = iota
	EventPollIn
)

// Trigger is an opaque handle bound to exactly one (wait queue, event)
// pair at a time. Firing it makes its owning waiter runnable; firing is
// idempotent with respect to an already-runnable waiter because the
// backing channel is buffered to depth 1 and the send is non-blocking.
type Trigger struct {
	event Event
	wake  chan struct{}
}

func newTrigger(event Event) *Trigger {
	return &Trigger{event: event, wake: make(chan struct{}, 1)}
}

// Fire makes the trigger's waiter runnable. Safe to call from interrupt
// context (the clock tick handler) or task context, and safe to call more
// than once.
func (t *Trigger) Fire() {
	select {
	case t.wake <- struct{}{}:
	default:
		// already runnable; firing is idempotent.
	}
}

// Wait blocks until Fire is called or ctx is done. The caller must
// re-check its predicate after Wait returns nil: a wakeup is a hint to
// look again, not a guarantee the awaited condition still holds.
func (t *Trigger) Wait(ctx context.Context) error {
	select {
	case <-t.wake:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Event reports which event kind this trigger was allocated for.
func (t *Trigger) Event() Event {
	return t.event
}

// WaitQueue is a named collection of triggers belonging to one waitable
// resource (a socket's connect/accept rendezvous queue, a file handle's
// POLLIN queue).
type WaitQueue struct {
	mu      sync.Mutex
	members map[*Trigger]struct{}
}

// New allocates an empty wait queue.
func New() *WaitQueue {
	return &WaitQueue{members: make(map[*Trigger]struct{})}
}

// Alloc creates a new trigger for event, bound to this queue, but does
// not register it as a member yet; registration is a separate Add call.
func (wq *WaitQueue) Alloc(event Event) *Trigger {
	return newTrigger(event)
}

// Add registers t as a member of the queue so FireAll reaches it.
func (wq *WaitQueue) Add(t *Trigger) {
	wq.mu.Lock()
	wq.members[t] = struct{}{}
	wq.mu.Unlock()
}

// Remove unregisters t. Safe to call even if t was never added.
func (wq *WaitQueue) Remove(t *Trigger) {
	wq.mu.Lock()
	delete(wq.members, t)
	wq.mu.Unlock()
}

// FireAll wakes every currently registered member. The timer list and the
// socket send path do not go through it: they call Fire on the specific
// triggers they hold.
func (wq *WaitQueue) FireAll() {
	wq.mu.Lock()
	defer wq.mu.Unlock()
	for t := range wq.members {
		t.Fire()
	}
}

// Len reports the number of registered members, useful for tests
// asserting a queue drains after a wakeup.
func (wq *WaitQueue) Len() int {
	wq.mu.Lock()
	defer wq.mu.Unlock()
	return len(wq.members)
}
