// Package ktime implements the clock and timer-expiry subsystem:
// clock_realtime and clock_monotonic as timespec pairs advanced once per
// periodic interrupt, plus a flat timer list decremented and swept every
// tick.
package ktime

// NsecPerSec is the nanosecond/second carry boundary for Timespec
// arithmetic.
const NsecPerSec = 1_000_000_000

// Timespec is a {seconds, nanoseconds} pair. Values are always kept
// normalized: 0 <= Nsec < NsecPerSec.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// Add returns a+b, carrying nanosecond overflow into the seconds field.
func (a Timespec) Add(b Timespec) Timespec {
	sec := a.Sec + b.Sec
	nsec := a.Nsec + b.Nsec
	if nsec >= NsecPerSec {
		nsec -= NsecPerSec
		sec++
	}
	return Timespec{Sec: sec, Nsec: nsec}
}

// Sub returns a-b, borrowing from the seconds field when b's nanoseconds
// exceed a's.
func (a Timespec) Sub(b Timespec) Timespec {
	sec := a.Sec - b.Sec
	nsec := a.Nsec - b.Nsec
	if nsec < 0 {
		nsec += NsecPerSec
		sec--
	}
	return Timespec{Sec: sec, Nsec: nsec}
}

// IsZero reports whether the timespec is exactly {0, 0}. Timer expiry
// uses equality-to-zero rather than <= zero: remaining durations are
// exact multiples of the tick, so an expiring timer lands on zero
// exactly.
func (a Timespec) IsZero() bool {
	return a.Sec == 0 && a.Nsec == 0
}
