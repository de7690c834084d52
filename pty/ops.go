package pty

import (
	"go.uber.org/zap"

	"corekernel/internal/errno"
)

// Read pops up to len(buf) bytes from the master input queue, stopping
// early on empty. Takes only the master input lock.
func (f *MasterFile) Read(buf []byte) int {
	ptm := f.Pair.Master
	ptm.inputLock.Lock()
	defer ptm.inputLock.Unlock()
	return ptm.InputQueue.PopN(buf)
}

// Write pushes up to len(buf) bytes into the slave TTY's input queue,
// stopping early on full. Takes only the slave TTY input lock.
func (f *MasterFile) Write(buf []byte) int {
	tty := f.Pair.Slave.TTY
	tty.inputLock.Lock()
	defer tty.inputLock.Unlock()
	return tty.InputQueue.PushN(buf)
}

// Ioctl handles the master-side requests: TIOCGPTN, TIOCGWINSZ,
// TIOCSWINSZ. Each request emits a debug-level tracepoint through the
// logger carried on the file handle.
func (f *MasterFile) Ioctl(req int, arg interface{}) errno.Err_t {
	pts := f.Pair.Slave
	f.Log.Debug("ioctl", zap.String("dev", "ptmx"), zap.Int("slave_no", pts.SlaveNo), zap.Int("req", req))
	switch req {
	case TIOCGPTN:
		out, ok := arg.(*int)
		if !ok {
			return errno.EINVAL
		}
		*out = pts.SlaveNo
		return errno.Success
	case TIOCGWINSZ:
		out, ok := arg.(*Winsize)
		if !ok {
			return errno.EINVAL
		}
		pts.mu.Lock()
		*out = pts.Winsize
		pts.mu.Unlock()
		return errno.Success
	case TIOCSWINSZ:
		in, ok := arg.(*Winsize)
		if !ok {
			return errno.EINVAL
		}
		pts.mu.Lock()
		pts.Winsize = *in
		pts.mu.Unlock()
		// No signal delivery on size change.
		return errno.Success
	default:
		return errno.ENOSYS
	}
}

// Read pops from the TTY input queue, the bytes a master write pushed
// there.
func (f *SlaveFile) Read(buf []byte) int {
	tty := f.Pair.Slave.TTY
	tty.inputLock.Lock()
	defer tty.inputLock.Unlock()
	return tty.InputQueue.PopN(buf)
}

// Write pushes into the TTY output queue. A subsequent FlushOutput call
// moves these bytes to the master's input queue.
func (f *SlaveFile) Write(buf []byte) int {
	tty := f.Pair.Slave.TTY
	tty.outputLock.Lock()
	defer tty.outputLock.Unlock()
	return tty.OutputQueue.PushN(buf)
}

// Ioctl handles the slave-side requests: the same winsize get/set the
// master handles; any other request fails not-implemented.
func (f *SlaveFile) Ioctl(req int, arg interface{}) errno.Err_t {
	pts := f.Pair.Slave
	f.Log.Debug("ioctl", zap.String("dev", "pts"), zap.Int("slave_no", pts.SlaveNo), zap.Int("req", req))
	switch req {
	case TIOCGWINSZ:
		out, ok := arg.(*Winsize)
		if !ok {
			return errno.EINVAL
		}
		pts.mu.Lock()
		*out = pts.Winsize
		pts.mu.Unlock()
		return errno.Success
	case TIOCSWINSZ:
		in, ok := arg.(*Winsize)
		if !ok {
			return errno.EINVAL
		}
		pts.mu.Lock()
		pts.Winsize = *in
		pts.mu.Unlock()
		return errno.Success
	default:
		return errno.ENOSYS
	}
}

// FlushOutput drains as many bytes as possible from the TTY output queue
// into the master's input queue, stopping on either empty-source or
// full-destination. Bytes not transferred remain at the head of the TTY
// output queue.
//
// Acquires the TTY output lock then the master input lock; no other path
// takes these two locks together, so this order is never inverted.
func (f *SlaveFile) FlushOutput() int {
	tty := f.Pair.Slave.TTY
	ptm := f.Pair.Master

	tty.outputLock.Lock()
	defer tty.outputLock.Unlock()
	ptm.inputLock.Lock()
	defer ptm.inputLock.Unlock()

	free := ptm.InputQueue.Cap() - ptm.InputQueue.Len()
	n := tty.OutputQueue.Len()
	if free < n {
		n = free
	}
	for i := 0; i < n; i++ {
		b, _ := tty.OutputQueue.Pop()
		ptm.InputQueue.Push(b)
	}
	return n
}
