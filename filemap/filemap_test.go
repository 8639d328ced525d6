package filemap_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danreif/uvfs/bitmap"
	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/filemap"
	"github.com/danreif/uvfs/layout"
)

func fullBlock(fill byte) []byte {
	buf := make([]byte, layout.BlockSize)
	for i := range buf {
		buf[i] = fill
	}
	return buf
}

func TestTranslateUnallocatedReadsAsZero(t *testing.T) {
	dev := blockdev.NewMemoryDevice(8)
	rec := &layout.InodeRecord{}

	block, err := filemap.Translate(dev, rec, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, block)

	block, err = filemap.Translate(dev, rec, layout.NDirect+5)
	require.NoError(t, err)
	assert.EqualValues(t, 0, block)
}

func TestPutBlockThenTranslateDirect(t *testing.T) {
	// Bitmap region occupies block 0 only (sizeBlocks=1), data starts at 1.
	dev := blockdev.NewMemoryDevice(32)
	bm, err := bitmap.Read(dev, 0, 1, 32)
	require.NoError(t, err)
	bm.Set(0)
	rec := &layout.InodeRecord{}

	payload := fullBlock(0xAB)
	require.NoError(t, filemap.PutBlock(dev, bm, rec, 2, payload))

	phys, err := filemap.Translate(dev, rec, 2)
	require.NoError(t, err)
	assert.NotZero(t, phys)

	got := make([]byte, layout.BlockSize)
	require.NoError(t, dev.ReadBlocks(phys, got))
	assert.True(t, bytes.Equal(payload, got))
}

func TestPutBlockAllocatesSingleIndirectChain(t *testing.T) {
	dev := blockdev.NewMemoryDevice(64)
	bm, err := bitmap.Read(dev, 0, 1, 64)
	require.NoError(t, err)
	bm.Set(0)
	rec := &layout.InodeRecord{}

	logical := uint32(layout.NDirect + 3)
	payload := fullBlock(0xCD)
	require.NoError(t, filemap.PutBlock(dev, bm, rec, logical, payload))
	assert.NotZero(t, rec.Indir1)

	phys, err := filemap.Translate(dev, rec, logical)
	require.NoError(t, err)
	assert.NotZero(t, phys)

	got := make([]byte, layout.BlockSize)
	require.NoError(t, dev.ReadBlocks(phys, got))
	assert.True(t, bytes.Equal(payload, got))

	// A neighboring slot in the same indirect block must remain unallocated.
	neighbor, err := filemap.Translate(dev, rec, logical+1)
	require.NoError(t, err)
	assert.Zero(t, neighbor)
}

// TestPutBlockDoubleIndirectPlacesLeafAtSecondIndirSlot is a regression test
// for the corrected double-indirect indexing: the newly allocated leaf block
// number must land at the second-level slot actually addressed by the
// logical block, not at the first-level slot index.
func TestPutBlockDoubleIndirectPlacesLeafAtSecondIndirSlot(t *testing.T) {
	dev := blockdev.NewMemoryDevice(2048)
	bm, err := bitmap.Read(dev, 0, 1, 2048)
	require.NoError(t, err)
	bm.Set(0)
	rec := &layout.InodeRecord{}

	// First double-indirect logical block: i1=0, i2=0.
	first := uint32(layout.NDirect + layout.PtrsPerBlock)
	require.NoError(t, filemap.PutBlock(dev, bm, rec, first, fullBlock(0x11)))

	// Second logical block within the same first-level slot: i1=0, i2=1.
	// If the leaf were mistakenly placed at index i1 instead of i2, this
	// write would silently overwrite the first file's data block pointer
	// or read back as unallocated.
	second := first + 1
	require.NoError(t, filemap.PutBlock(dev, bm, rec, second, fullBlock(0x22)))

	physFirst, err := filemap.Translate(dev, rec, first)
	require.NoError(t, err)
	physSecond, err := filemap.Translate(dev, rec, second)
	require.NoError(t, err)

	require.NotZero(t, physFirst)
	require.NotZero(t, physSecond)
	assert.NotEqual(t, physFirst, physSecond)

	gotFirst := make([]byte, layout.BlockSize)
	require.NoError(t, dev.ReadBlocks(physFirst, gotFirst))
	assert.True(t, bytes.Equal(fullBlock(0x11), gotFirst))

	gotSecond := make([]byte, layout.BlockSize)
	require.NoError(t, dev.ReadBlocks(physSecond, gotSecond))
	assert.True(t, bytes.Equal(fullBlock(0x22), gotSecond))
}

func TestFreeAllClearsChainAndZeroesPointers(t *testing.T) {
	dev := blockdev.NewMemoryDevice(64)
	bm, err := bitmap.Read(dev, 0, 1, 64)
	require.NoError(t, err)
	bm.Set(0)
	rec := &layout.InodeRecord{}

	require.NoError(t, filemap.PutBlock(dev, bm, rec, 0, fullBlock(1)))
	require.NoError(t, filemap.PutBlock(dev, bm, rec, layout.NDirect, fullBlock(2)))

	freeBefore := bm.CountFree()
	require.NoError(t, filemap.FreeAll(dev, bm, rec))
	assert.Greater(t, bm.CountFree(), freeBefore)

	assert.Zero(t, rec.Direct[0])
	assert.Zero(t, rec.Indir1)
}

func TestClampWriteLengthRespectsMaxFileBytes(t *testing.T) {
	assert.Equal(t, int64(10), filemap.ClampWriteLength(0, 10))
	assert.Equal(t, layout.MaxFileBytes, filemap.ClampWriteLength(0, layout.MaxFileBytes+100))
	assert.Equal(t, int64(0), filemap.ClampWriteLength(layout.MaxFileBytes, 50))
}

func TestMaxLogicalBlockFor(t *testing.T) {
	assert.EqualValues(t, 0, filemap.MaxLogicalBlockFor(0))
	assert.EqualValues(t, 0, filemap.MaxLogicalBlockFor(1))
	assert.EqualValues(t, 0, filemap.MaxLogicalBlockFor(layout.BlockSize))
	assert.EqualValues(t, 1, filemap.MaxLogicalBlockFor(layout.BlockSize+1))
}
