// Package pty implements the pseudo-terminal driver: matched master/slave
// character-device pairs with bidirectional buffered flow, window-size
// ioctls, and slave-side filesystem presence at /dev/pts/<N>.
package pty

import (
	"sync"

	"go.uber.org/zap"

	"corekernel/internal/cbuf"
	"corekernel/internal/platform"
)

// MaxLine is the capacity of every queue this driver allocates.
const MaxLine = 4096

// PtmxRDev and PtsMajor are the fixed device-number assignments:
// PTMX = (5, 2), PTS = (136, N).
var PtmxRDev = platform.RDev{Major: 5, Minor: 2}

const PtsMajor = 136

// Winsize is the terminal window-size attribute, the u16x4 struct
// TIOCGWINSZ/TIOCSWINSZ read and write.
type Winsize struct {
	Row    uint16
	Col    uint16
	Xpixel uint16
	Ypixel uint16
}

// TTY is the line-disciplined terminal abstraction shared by a PTY pair:
// an input queue fed by the master side and drained by slave reads, and
// an output queue fed by slave writes and drained to the master's input
// queue by FlushOutput.
type TTY struct {
	inputLock   sync.Mutex
	outputLock  sync.Mutex
	InputQueue  *cbuf.Queue
	OutputQueue *cbuf.Queue
}

func newTTY() *TTY {
	return &TTY{
		InputQueue:  cbuf.New(MaxLine),
		OutputQueue: cbuf.New(MaxLine),
	}
}

// PtmData is the master half of a PTY pair.
type PtmData struct {
	inputLock  sync.Mutex
	InputQueue *cbuf.Queue
	Slave      *PtsData
}

// PtsData is the slave half of a PTY pair.
type PtsData struct {
	mu      sync.Mutex
	SlaveNo int
	TTY     *TTY
	Master  *PtmData
	Winsize Winsize
}

// Pair is the single owning record for a live master/slave pair: the two
// halves reference each other and share lifetime, so ownership lives
// here rather than in either half. Master and slave file handles are
// borrow-style views into the pair, never independent owners.
type Pair struct {
	Master *PtmData
	Slave  *PtsData
}

// MasterFile is the file-handle-side view of the master half, installed
// on the descriptor returned by Manager.Open. Log is the manager's
// subsystem logger, carried onto the file handle so Ioctl can emit a
// per-request debug tracepoint.
type MasterFile struct {
	Pair *Pair
	Log  *zap.Logger
}

// SlaveFile is the file-handle-side view of the slave half, installed on
// the descriptor returned by opening /dev/pts/<N>.
type SlaveFile struct {
	Pair *Pair
	Log  *zap.Logger
}
