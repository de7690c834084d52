package pty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corekernel/internal/platform"
	"corekernel/pty"
)

func newManager(t *testing.T) (*pty.Manager, *platform.SimVFS) {
	t.Helper()
	vfs := platform.NewSimVFS()
	m := pty.NewManager(vfs, 0, nil)
	require.NoError(t, m.InitDevNode())
	return m, vfs
}

func TestPtyEchoScenario(t *testing.T) {
	m, vfs := newManager(t)
	task := platform.StaticTask{UID: 1000, GID: 5}

	master, errOpen := m.Open(task)
	require.False(t, errOpen.Failed())

	var slaveNo int
	require.False(t, master.Ioctl(pty.TIOCGPTN, &slaveNo).Failed())

	node, ok := vfs.Lookup("/dev/pts/0")
	require.True(t, ok)
	assert.Equal(t, 1000, node.UID)
	assert.Equal(t, 5, node.GID)

	slave, errSlave := m.OpenSlave(slaveNo)
	require.False(t, errSlave.Failed())

	n := master.Write([]byte("hello"))
	assert.Equal(t, 5, n)

	buf := make([]byte, 8)
	got := slave.Read(buf)
	assert.Equal(t, 5, got)
	assert.Equal(t, "hello", string(buf[:got]))

	n = slave.Write([]byte("world\n"))
	assert.Equal(t, 6, n)

	moved := slave.FlushOutput()
	assert.Equal(t, 6, moved)

	buf2 := make([]byte, 16)
	got2 := master.Read(buf2)
	assert.Equal(t, 6, got2)
	assert.Equal(t, "world\n", string(buf2[:got2]))
}

func TestPtyWindowSizeScenario(t *testing.T) {
	m, _ := newManager(t)
	master, errOpen := m.Open(platform.StaticTask{})
	require.False(t, errOpen.Failed())

	var slaveNo int
	require.False(t, master.Ioctl(pty.TIOCGPTN, &slaveNo).Failed())
	slave, errSlave := m.OpenSlave(slaveNo)
	require.False(t, errSlave.Failed())

	set := pty.Winsize{Row: 24, Col: 80}
	require.False(t, master.Ioctl(pty.TIOCSWINSZ, &set).Failed())

	var got pty.Winsize
	require.False(t, slave.Ioctl(pty.TIOCGWINSZ, &got).Failed())
	assert.Equal(t, pty.Winsize{Row: 24, Col: 80}, got)
}

func TestPtyFlushStopsOnFullDestination(t *testing.T) {
	m, _ := newManager(t)
	master, _ := m.Open(platform.StaticTask{})
	var slaveNo int
	master.Ioctl(pty.TIOCGPTN, &slaveNo)
	slave, _ := m.OpenSlave(slaveNo)

	filler := make([]byte, pty.MaxLine-2)
	for i := range filler {
		filler[i] = 'x'
	}
	written := slave.Write(filler)
	require.Equal(t, len(filler), written)
	moved := slave.FlushOutput()
	assert.Equal(t, len(filler), moved)

	slave.Write([]byte("abcdef"))
	moved2 := slave.FlushOutput()
	assert.Equal(t, 2, moved2, "only the 2 remaining free slots should move")
}

func TestOpenFailsWhenSlaveBitmapExhausted(t *testing.T) {
	vfs := platform.NewSimVFS()
	m := pty.NewManager(vfs, 1, nil)
	require.NoError(t, m.InitDevNode())

	_, err1 := m.Open(platform.StaticTask{})
	require.False(t, err1.Failed())

	_, err2 := m.Open(platform.StaticTask{})
	assert.True(t, err2.Failed())
}

func TestCloseFreesSlaveNumberAndRemovesNode(t *testing.T) {
	m, vfs := newManager(t)
	master, _ := m.Open(platform.StaticTask{})
	var slaveNo int
	master.Ioctl(pty.TIOCGPTN, &slaveNo)

	require.False(t, m.Close(slaveNo).Failed())
	_, ok := vfs.Lookup("/dev/pts/0")
	assert.False(t, ok)

	master2, err2 := m.Open(platform.StaticTask{})
	require.False(t, err2.Failed())
	var slaveNo2 int
	master2.Ioctl(pty.TIOCGPTN, &slaveNo2)
	assert.Equal(t, 0, slaveNo2, "freed slave number 0 must be reused")
}
