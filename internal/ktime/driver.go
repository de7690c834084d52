package ktime

import (
	"go.uber.org/zap"

	"corekernel/internal/klog"
)

// PitFreq is the programmed interrupt frequency in Hz.
const PitFreq = 1000

// BaseFreq is the fixed base frequency the periodic timer hardware
// divides down from.
const BaseFreq = 1193182

// TimerHz is the nanosecond-per-second constant used to compute the tick
// interval: interval = {0 sec, TimerHz/PitFreq nsec}.
const TimerHz = NsecPerSec

// IRQVector names an allocated interrupt vector.
type IRQVector int

// Platform is the hardware seam the driver programs the periodic timer
// through: IDT vector allocation, IOAPIC redirection, and the raw CPU
// port-I/O primitives. Production code wires this to real hardware
// access; tests and cmd/kernelsim wire it to a simulated implementation.
type Platform interface {
	AllocVector(handler func()) IRQVector
	SetIRQRedirection(apicID int, vector IRQVector, irqLine int, levelTriggered bool)
	OutB(port uint16, value uint8)
	LocalAPICID() int
	BootEpochSeconds() int64
}

// Driver owns the clock and timer list and programs the periodic timer
// hardware at Init time.
type Driver struct {
	clock  *Clock
	timers *TimerList
	log    *zap.Logger
	vector IRQVector
}

// NewDriver wires a driver to the given clock and timer list.
func NewDriver(clock *Clock, timers *TimerList, log *zap.Logger) *Driver {
	if log == nil {
		log = klog.Nop()
	}
	return &Driver{clock: clock, timers: timers, log: log}
}

// Divisor computes the PIT-style clock divisor, rounded to nearest:
// truncating division, then bumping by one when the remainder exceeds
// half the target frequency.
func Divisor() int {
	div := BaseFreq / PitFreq
	if (BaseFreq % PitFreq) > (PitFreq / 2) {
		div++
	}
	return div
}

// Init programs the periodic timer through the platform seam, registers
// Tick as its interrupt handler, routes the IRQ line to the local CPU,
// and seeds both clocks from the platform boot epoch.
func (d *Driver) Init(p Platform) {
	divisor := Divisor()
	p.OutB(0x43, (0b010<<1)|(0b11<<4)) // channel 0, lobyte/hibyte, rate generator
	p.OutB(0x40, uint8(divisor&0xff))
	p.OutB(0x40, uint8(divisor>>8&0xff))

	d.vector = p.AllocVector(d.Tick)
	p.SetIRQRedirection(p.LocalAPICID(), d.vector, 0, false)

	epoch := p.BootEpochSeconds()
	d.clock.Seed(epoch)

	d.log.Info("clock initialized",
		zap.Int("pit_freq_hz", PitFreq),
		zap.Int("divisor", divisor),
		zap.Int("vector", int(d.vector)),
		zap.Int64("boot_epoch", epoch),
	)
}

// Tick is the interrupt handler: compute the tick interval, advance both
// clocks, and sweep the timer list. It is exported directly (rather than
// only reachable through a simulated interrupt) so tests can drive exact
// tick counts without depending on wall-clock timing.
func (d *Driver) Tick() {
	interval := Timespec{Nsec: TimerHz / PitFreq}
	d.clock.Tick(interval)
	d.timers.Tick(interval)
}

// TickInterval returns the fixed per-tick interval, exposed for tests and
// for callers translating a wall-clock duration into a tick count.
func TickInterval() Timespec {
	return Timespec{Nsec: TimerHz / PitFreq}
}
