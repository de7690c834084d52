// Package platform names the services this core consumes but does not
// own: the virtual filesystem, the current-task identity, and the
// low-level CPU/IRQ plumbing. Each is a small Go interface so the clock,
// PTY, and socket subsystems can be built and tested against a simulated
// implementation without a real VFS or IDT behind them.
package platform

import "corekernel/internal/ktime"

// IRQVector and Platform are re-exported from ktime so implementations of
// the simulated hardware seam (SimPlatform below) and their consumers can
// name both without importing two packages for one concept.
type (
	IRQVector = ktime.IRQVector
	Platform  = ktime.Platform
)

// RDev is a (major, minor) device number pair.
type RDev struct {
	Major int
	Minor int
}

// NodeKind distinguishes the device-node kinds this core creates.
type NodeKind int

const (
	CharDevice NodeKind = iota
)

// VFS is the node-creation service: enough of a virtual filesystem
// surface for the PTY driver to publish /dev/ptmx and /dev/pts/<N>,
// without this core owning path resolution or mount semantics.
type VFS interface {
	// CreateCharDevice publishes a character-device node at path with the
	// given rdev, permission bits, and owning uid/gid.
	CreateCharDevice(path string, rdev RDev, mode uint32, uid, gid int) error
	// Remove deletes a previously created node, used when a PTY pair's
	// last reference drops.
	Remove(path string) error
}

// Task is the current-task identity service: just enough (the opening
// task's effective uid/gid) for the PTY driver to stamp ownership onto
// new slave nodes.
type Task interface {
	EffectiveUID() int
	EffectiveGID() int
}

// StaticTask is a fixed-identity Task, sufficient for the simulated
// platform and for tests that don't need real per-task identity.
type StaticTask struct {
	UID int
	GID int
}

func (t StaticTask) EffectiveUID() int { return t.UID }
func (t StaticTask) EffectiveGID() int { return t.GID }
