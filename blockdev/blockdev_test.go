package blockdev_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/diskerr"
	"github.com/danreif/uvfs/layout"
)

func TestReadWriteRoundTrip(t *testing.T) {
	dev := blockdev.NewMemoryDevice(4)
	assert.EqualValues(t, 4, dev.NumBlocks())

	want := make([]byte, layout.BlockSize*2)
	for i := range want {
		want[i] = byte(i)
	}
	require.NoError(t, dev.WriteBlocks(1, want))

	got := make([]byte, layout.BlockSize*2)
	require.NoError(t, dev.ReadBlocks(1, got))
	assert.Equal(t, want, got)
}

func TestReadBlocksRejectsMisalignedBuffer(t *testing.T) {
	dev := blockdev.NewMemoryDevice(2)
	err := dev.ReadBlocks(0, make([]byte, layout.BlockSize+1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, diskerr.ErrInvalidArgument))
}

func TestReadBlocksRejectsOutOfRange(t *testing.T) {
	dev := blockdev.NewMemoryDevice(2)
	err := dev.ReadBlocks(1, make([]byte, layout.BlockSize*2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, diskerr.ErrInvalidArgument))
}

func TestFailMakesDeviceUnavailable(t *testing.T) {
	dev := blockdev.NewMemoryDevice(2)
	blockdev.Fail(dev)

	err := dev.ReadBlocks(0, make([]byte, layout.BlockSize))
	require.Error(t, err)
	assert.True(t, errors.Is(err, diskerr.ErrUnavailable))

	err = dev.WriteBlocks(0, make([]byte, layout.BlockSize))
	require.Error(t, err)
	assert.True(t, errors.Is(err, diskerr.ErrUnavailable))
}
