package ktime

import (
	"sync"

	"corekernel/internal/waitq"
)

// Timer is a duration-based wakeup record: created by a caller that wants
// to block for a duration, decremented every tick, and removed once its
// remaining time reaches exactly zero, firing every trigger attached to
// it when it does.
type Timer struct {
	remaining Timespec
	triggers  []*waitq.Trigger
}

// Remaining reports the time left before this timer fires.
func (t *Timer) Remaining() Timespec {
	return t.remaining
}

// TimerList is the process-wide sequence of active timers, guarded by its
// own lock so task-context inserts and cancels coordinate with the tick
// handler's sweep.
type TimerList struct {
	mu     sync.Mutex
	timers []*Timer
}

// NewTimerList returns an empty timer list.
func NewTimerList() *TimerList {
	return &TimerList{}
}

// Insert creates a timer with the given remaining duration and trigger
// set, and adds it to the list.
func (tl *TimerList) Insert(remaining Timespec, triggers ...*waitq.Trigger) *Timer {
	t := &Timer{remaining: remaining, triggers: triggers}
	tl.mu.Lock()
	tl.timers = append(tl.timers, t)
	tl.mu.Unlock()
	return t
}

// Cancel removes t from the list before it fires, if it is still present.
// Canceling an already-fired (and thus already-removed) timer is a no-op.
func (tl *TimerList) Cancel(t *Timer) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	for i, cur := range tl.timers {
		if cur == t {
			tl.timers = append(tl.timers[:i], tl.timers[i+1:]...)
			return
		}
	}
}

// Tick subtracts interval from every timer's remaining time, fires and
// removes any timer whose remaining time reaches exactly {0,0}, and
// leaves every other timer in place. A single in-place filtering sweep
// visits each still-live timer exactly once regardless of how many
// timers expire in the same tick.
func (tl *TimerList) Tick(interval Timespec) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	live := tl.timers[:0]
	for _, t := range tl.timers {
		t.remaining = t.remaining.Sub(interval)
		if t.remaining.IsZero() {
			for _, trig := range t.triggers {
				trig.Fire()
			}
			continue
		}
		live = append(live, t)
	}
	tl.timers = live
}

// Len reports how many timers are currently pending.
func (tl *TimerList) Len() int {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return len(tl.timers)
}
