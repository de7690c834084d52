// Package kernel wires the core subsystems together into a single owning
// services record, initialized at boot and passed to code that needs it,
// in place of ad hoc global state.
package kernel

import (
	"go.uber.org/zap"

	"corekernel/internal/klog"
	"corekernel/internal/ktime"
	"corekernel/internal/platform"
	"corekernel/pty"
	"corekernel/unixsock"
)

// Services owns every process-wide table this core defines: the two
// clocks and the timer list, the PTY slave bitmap and pair registry, and
// the UNIX-domain address table.
type Services struct {
	Clock     *ktime.Clock
	Timers    *ktime.TimerList
	ClockDrv  *ktime.Driver
	PTY       *pty.Manager
	AddrTable *unixsock.AddrTable
	Log       *zap.Logger
}

// MaxPTYSlaves bounds the PTY manager's slave bitmap, standing in for
// whatever fixed resource limit the real allocator would impose.
const MaxPTYSlaves = 256

// New builds a Services record wired to vfs for PTY device nodes, logging
// through log (or a no-op logger if nil).
func New(vfs platform.VFS, log *zap.Logger) *Services {
	if log == nil {
		log = klog.Nop()
	}
	clock := ktime.NewClock()
	timers := ktime.NewTimerList()
	drv := ktime.NewDriver(clock, timers, log.Named("clock"))

	return &Services{
		Clock:     clock,
		Timers:    timers,
		ClockDrv:  drv,
		PTY:       pty.NewManager(vfs, MaxPTYSlaves, log.Named("pty")),
		AddrTable: unixsock.NewAddrTable(),
		Log:       log,
	}
}

// Boot programs the periodic timer through p and publishes the static
// /dev/ptmx node, the two pieces of boot-time setup this core's
// subsystems require before they can serve requests.
func (s *Services) Boot(p ktime.Platform) error {
	s.ClockDrv.Init(p)
	return s.PTY.InitDevNode()
}
