package bitmap

import (
	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/diskerr"
	"github.com/danreif/uvfs/layout"
)

// ReadInodeBitmap loads the inode allocation bitmap described by sb.
func ReadInodeBitmap(dev blockdev.Device, sb *layout.Superblock) (*Map, error) {
	return Read(dev, layout.InodeBitmapStart(), sb.InodeMapSz, sb.TotalInodes())
}

// ReadBlockBitmap loads the block allocation bitmap described by sb.
func ReadBlockBitmap(dev blockdev.Device, sb *layout.Superblock) (*Map, error) {
	return Read(dev, sb.BlockBitmapStart(), sb.BlockMapSz, sb.NumBlocks)
}

// AllocateInode finds and marks the first free inode, never returning index
// 0 (reserved).
func AllocateInode(m *Map) (uint32, error) {
	return m.AllocateFree(1)
}

// AllocateBlock finds and marks the first free data block. Index 0 is
// implicitly excluded because the superblock's bit is set from the initial
// image and is never cleared.
func AllocateBlock(m *Map) (uint32, error) {
	return m.AllocateFree(0)
}

// AllocateZeroedBlock allocates a free block, zeroes it on disk, and only
// then writes the bitmap with that bit marked back to disk — in that order,
// so a successful call always returns a block that reads back as zero.
// Failure at any step aborts with an error and clears the bit again in the
// in-memory Map.
func AllocateZeroedBlock(dev blockdev.Device, m *Map) (uint32, error) {
	index, err := AllocateBlock(m)
	if err != nil {
		return 0, err
	}
	zero := make([]byte, layout.BlockSize)
	if err := dev.WriteBlocks(index, zero); err != nil {
		m.Clear(index)
		return 0, diskerr.Wrap(diskerr.ErrIO, err)
	}
	if err := m.WriteBack(dev); err != nil {
		m.Clear(index)
		return 0, diskerr.Wrap(diskerr.ErrIO, err)
	}
	return index, nil
}
