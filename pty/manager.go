package pty

import (
	"fmt"

	"go.uber.org/zap"

	"corekernel/internal/bitset"
	"corekernel/internal/cbuf"
	"corekernel/internal/errno"
	"corekernel/internal/klog"
	"corekernel/internal/platform"
)

// Manager owns the slave-number bitmap and the registry of live pairs,
// guarded by a single lock held across bitmap allocation, node creation,
// and pair registration so that slave numbers and filesystem names
// become visible atomically.
type Manager struct {
	lock      chan struct{} // binary mutex, held manually to straddle node creation calls that may themselves acquire other locks
	bitmap    *bitset.Set
	vfs       platform.VFS
	log       *zap.Logger
	maxSlaves int
	pairs     map[int]*Pair
}

// NewManager returns an empty PTY manager. maxSlaves bounds how many live
// slave numbers may exist at once; beyond it, Open fails with
// resource-exhausted rather than growing the bitmap without limit. A
// maxSlaves of zero or less imposes no bound.
func NewManager(vfs platform.VFS, maxSlaves int, log *zap.Logger) *Manager {
	if log == nil {
		log = klog.Nop()
	}
	return &Manager{
		lock:      make(chan struct{}, 1),
		bitmap:    bitset.New(),
		vfs:       vfs,
		log:       log,
		maxSlaves: maxSlaves,
		pairs:     make(map[int]*Pair),
	}
}

func (m *Manager) acquire() { m.lock <- struct{}{} }
func (m *Manager) release() { <-m.lock }

// InitDevNode publishes the static /dev/ptmx node. Called once at boot by
// the owning services record.
func (m *Manager) InitDevNode() error {
	return m.vfs.CreateCharDevice("/dev/ptmx", PtmxRDev, 0666, 0, 0)
}

func slavePath(n int) string {
	return fmt.Sprintf("/dev/pts/%d", n)
}

// Open allocates a fresh slave number, wires up a master/slave pair, and
// publishes the slave's /dev/pts/<N> device node owned by the opening
// task's effective uid/gid.
func (m *Manager) Open(task platform.Task) (*MasterFile, errno.Err_t) {
	m.acquire()
	defer m.release()

	if m.maxSlaves > 0 && len(m.pairs) >= m.maxSlaves {
		m.log.Warn("pty slave exhaustion", zap.Int("max_slaves", m.maxSlaves))
		return nil, errno.ENOMEM
	}

	slaveNo := m.bitmap.Alloc()
	tty := newTTY()
	pts := &PtsData{SlaveNo: slaveNo, TTY: tty}
	ptm := &PtmData{InputQueue: cbuf.New(MaxLine), Slave: pts}
	pts.Master = ptm

	pair := &Pair{Master: ptm, Slave: pts}

	uid, gid := 0, 0
	if task != nil {
		uid, gid = task.EffectiveUID(), task.EffectiveGID()
	}
	if err := m.vfs.CreateCharDevice(slavePath(slaveNo), platform.RDev{Major: PtsMajor, Minor: slaveNo}, 0620, uid, gid); err != nil {
		m.bitmap.Free(slaveNo)
		m.log.Error("failed to create pts node", zap.Int("slave_no", slaveNo), zap.Error(err))
		return nil, errno.ENOMEM
	}

	m.pairs[slaveNo] = pair
	m.log.Info("pty pair opened", zap.Int("slave_no", slaveNo))
	return &MasterFile{Pair: pair, Log: m.log}, errno.Success
}

// OpenSlave opens /dev/pts/<N>, returning the slave-side file handle for
// an already-allocated pair.
func (m *Manager) OpenSlave(slaveNo int) (*SlaveFile, errno.Err_t) {
	m.acquire()
	defer m.release()
	pair, ok := m.pairs[slaveNo]
	if !ok {
		return nil, errno.EINVAL
	}
	return &SlaveFile{Pair: pair, Log: m.log}, errno.Success
}

// Close releases a pair's slave number and filesystem node. Called when
// both the master and slave file handles have been released.
func (m *Manager) Close(slaveNo int) errno.Err_t {
	m.acquire()
	defer m.release()
	if _, ok := m.pairs[slaveNo]; !ok {
		return errno.EINVAL
	}
	delete(m.pairs, slaveNo)
	if err := m.vfs.Remove(slavePath(slaveNo)); err != nil {
		m.log.Warn("failed to remove pts node on close", zap.Int("slave_no", slaveNo), zap.Error(err))
	}
	m.bitmap.Free(slaveNo)
	return errno.Success
}
