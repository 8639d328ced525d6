package bitmap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danreif/uvfs/bitmap"
	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/diskerr"
)

func TestAllocateFreeSkipsSetBitsAndFailsWhenFull(t *testing.T) {
	dev := blockdev.NewMemoryDevice(1)
	m, err := bitmap.Read(dev, 0, 1, 4)
	require.NoError(t, err)

	first, err := m.AllocateFree(0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, first)

	second, err := m.AllocateFree(0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, second)

	m.Clear(0)
	assert.False(t, m.IsSet(0))

	third, err := m.AllocateFree(0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, third)

	_, err = m.AllocateFree(0)
	require.NoError(t, err) // index 2 still free
	_, err = m.AllocateFree(0)
	require.NoError(t, err) // index 3, the last one below the bound
	_, err = m.AllocateFree(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, diskerr.ErrNoSpace))
}

func TestCountFreeReflectsSetBits(t *testing.T) {
	dev := blockdev.NewMemoryDevice(1)
	m, err := bitmap.Read(dev, 0, 1, 8)
	require.NoError(t, err)
	assert.EqualValues(t, 8, m.CountFree())

	_, err = m.AllocateFree(0)
	require.NoError(t, err)
	assert.EqualValues(t, 7, m.CountFree())
}

func TestWriteBackPersistsAcrossReload(t *testing.T) {
	dev := blockdev.NewMemoryDevice(1)
	m, err := bitmap.Read(dev, 0, 1, 16)
	require.NoError(t, err)

	idx, err := m.AllocateFree(0)
	require.NoError(t, err)
	require.NoError(t, m.WriteBack(dev))

	reloaded, err := bitmap.Read(dev, 0, 1, 16)
	require.NoError(t, err)
	assert.True(t, reloaded.IsSet(idx))
}

func TestAllocateZeroedBlockZeroesBeforeMarking(t *testing.T) {
	dev := blockdev.NewMemoryDevice(4)
	// dirty the block before it's allocated, to prove it gets zeroed.
	dirty := make([]byte, 1024)
	for i := range dirty {
		dirty[i] = 0xFF
	}
	require.NoError(t, dev.WriteBlocks(1, dirty))

	m, err := bitmap.Read(dev, 0, 1, 4)
	require.NoError(t, err)
	m.Set(0) // block 0 reserved for the superblock

	idx, err := bitmap.AllocateZeroedBlock(dev, m)
	require.NoError(t, err)
	assert.EqualValues(t, 1, idx)

	got := make([]byte, 1024)
	require.NoError(t, dev.ReadBlocks(idx, got))
	for _, b := range got {
		assert.Zero(t, b)
	}

	reloaded, err := bitmap.Read(dev, 0, 1, 4)
	require.NoError(t, err)
	assert.True(t, reloaded.IsSet(idx))
}

func TestAllocateZeroedBlockFailsWhenFull(t *testing.T) {
	dev := blockdev.NewMemoryDevice(1)
	m, err := bitmap.Read(dev, 0, 1, 1)
	require.NoError(t, err)
	m.Set(0)

	_, err = bitmap.AllocateZeroedBlock(dev, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, diskerr.ErrNoSpace))
}
