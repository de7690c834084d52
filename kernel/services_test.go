package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corekernel/internal/platform"
	"corekernel/kernel"
)

func TestBootProgramsTimerAndPublishesPtmx(t *testing.T) {
	vfs := platform.NewSimVFS()
	svc := kernel.New(vfs, nil)
	sim := platform.NewSimPlatform(0, 1_700_000_000)

	require.NoError(t, svc.Boot(sim))

	_, ok := vfs.Lookup("/dev/ptmx")
	assert.True(t, ok)

	_, mono := svc.Clock.Now()
	assert.Equal(t, int64(1_700_000_000), mono.Sec)

	sim.FireIRQ(0)
	_, mono2 := svc.Clock.Now()
	assert.True(t, mono2.Sec > mono.Sec || mono2.Nsec > mono.Nsec)
}
