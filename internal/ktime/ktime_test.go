package ktime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corekernel/internal/ktime"
	"corekernel/internal/waitq"
)

func TestTimespecAddCarriesNanoseconds(t *testing.T) {
	a := ktime.Timespec{Sec: 1, Nsec: ktime.NsecPerSec - 1}
	b := ktime.Timespec{Sec: 0, Nsec: 2}
	got := a.Add(b)
	assert.Equal(t, ktime.Timespec{Sec: 2, Nsec: 1}, got)
}

func TestTimespecSubBorrows(t *testing.T) {
	a := ktime.Timespec{Sec: 2, Nsec: 0}
	b := ktime.Timespec{Sec: 0, Nsec: 1}
	got := a.Sub(b)
	assert.Equal(t, ktime.Timespec{Sec: 1, Nsec: ktime.NsecPerSec - 1}, got)
}

func TestClockMonotonicAdvancesExactlyNTicksWorthOfNanoseconds(t *testing.T) {
	clock := ktime.NewClock()
	clock.Seed(1000)
	_, initialMono := clock.Now()

	interval := ktime.TickInterval()
	const n = 500
	for i := 0; i < n; i++ {
		clock.Tick(interval)
	}

	_, mono := clock.Now()
	delta := mono.Sub(initialMono)
	expectedNsec := int64(n) * (ktime.TimerHz / ktime.PitFreq)
	assert.Equal(t, expectedNsec, delta.Sec*ktime.NsecPerSec+delta.Nsec)
}

func TestClockRealtimeSeededFromBootEpoch(t *testing.T) {
	clock := ktime.NewClock()
	clock.Seed(424242)
	real, mono := clock.Now()
	assert.Equal(t, ktime.Timespec{Sec: 424242}, real)
	assert.Equal(t, ktime.Timespec{Sec: 424242}, mono)
}

func TestTimerFiresOnExactTickAndIsRemoved(t *testing.T) {
	timers := ktime.NewTimerList()
	wq := waitq.New()
	trig := wq.Alloc(waitq.EventSocket)

	interval := ktime.TickInterval()
	ticksToFire := 5
	remaining := ktime.Timespec{}
	for i := 0; i < ticksToFire; i++ {
		remaining = remaining.Add(interval)
	}
	timers.Insert(remaining, trig)
	require.Equal(t, 1, timers.Len())

	for i := 0; i < ticksToFire-1; i++ {
		timers.Tick(interval)
	}
	assert.Equal(t, 1, timers.Len(), "timer must not fire before its Nth tick")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, trig.Wait(ctx), "trigger must not have fired yet")

	timers.Tick(interval)
	assert.Equal(t, 0, timers.Len(), "timer must be removed on the exact expiry tick")

	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	assert.NoError(t, trig.Wait(ctx2), "trigger must have fired on expiry")
}

func TestEveryLiveTimerVisitedExactlyOncePerTick(t *testing.T) {
	timers := ktime.NewTimerList()
	wq := waitq.New()

	interval := ktime.TickInterval()
	short := wq.Alloc(waitq.EventSocket)
	long := wq.Alloc(waitq.EventSocket)
	timers.Insert(interval, short)                            // fires tick 1
	timers.Insert(interval.Add(interval).Add(interval), long) // fires tick 3

	timers.Tick(interval)
	assert.Equal(t, 1, timers.Len())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, short.Wait(ctx))

	timers.Tick(interval)
	assert.Equal(t, 1, timers.Len(), "long timer must survive an intermediate tick untouched")

	timers.Tick(interval)
	assert.Equal(t, 0, timers.Len())
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	require.NoError(t, long.Wait(ctx2))
}

func TestCancelRemovesTimerBeforeExpiry(t *testing.T) {
	timers := ktime.NewTimerList()
	wq := waitq.New()
	trig := wq.Alloc(waitq.EventSocket)
	timer := timers.Insert(ktime.TickInterval(), trig)

	timers.Cancel(timer)
	assert.Equal(t, 0, timers.Len())
}

func TestDivisorRoundsToNearest(t *testing.T) {
	// 1193182 / 1000 = 1193, remainder 182, which is <= 500, so no round-up.
	assert.Equal(t, 1193, ktime.Divisor())
}
