package cbuf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corekernel/internal/cbuf"
)

func TestPushPopFIFOOrder(t *testing.T) {
	q := cbuf.New(4)
	require.True(t, q.Push('a'))
	require.True(t, q.Push('b'))
	require.True(t, q.Push('c'))

	b, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, byte('a'), b)

	b, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, byte('b'), b)
}

func TestPushFailsWhenFullNeverOverwrites(t *testing.T) {
	q := cbuf.New(2)
	require.True(t, q.Push('x'))
	require.True(t, q.Push('y'))
	assert.False(t, q.Push('z'))

	b, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, byte('x'), b, "push of z must not have overwritten x")
}

func TestPopFailsWhenEmpty(t *testing.T) {
	q := cbuf.New(2)
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestInFlightCountStaysWithinCapacity(t *testing.T) {
	q := cbuf.New(3)
	for i := 0; i < 10; i++ {
		q.Push(byte(i))
		assert.GreaterOrEqual(t, q.Len(), 0)
		assert.LessOrEqual(t, q.Len(), q.Cap())
		if i%2 == 0 {
			q.Pop()
		}
	}
}

func TestPushNStopsEarlyOnFull(t *testing.T) {
	q := cbuf.New(3)
	n := q.PushN([]byte("hello"))
	assert.Equal(t, 3, n)
	assert.True(t, q.Full())
}

func TestPopNStopsEarlyOnEmpty(t *testing.T) {
	q := cbuf.New(8)
	q.PushN([]byte("hi"))
	dst := make([]byte, 8)
	n := q.PopN(dst)
	assert.Equal(t, 2, n)
	assert.Equal(t, "hi", string(dst[:n]))
}

func TestWrapAroundPreservesOrder(t *testing.T) {
	q := cbuf.New(4)
	q.PushN([]byte("ab"))
	buf := make([]byte, 1)
	q.PopN(buf) // consume 'a', head advances
	q.PushN([]byte("cd"))
	out := make([]byte, 8)
	n := q.PopN(out)
	assert.Equal(t, "bcd", string(out[:n]))
}
