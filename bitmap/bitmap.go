// Package bitmap manages the two bit-packed allocation bitmaps (inodes and
// blocks): loading them from disk, testing/setting/clearing individual
// bits, scanning for the first free index, and writing the region back.
//
// Grounded on the teacher's drivers/common/allocatormap.go, which wraps
// github.com/boljen/go-bitmap the same way.
package bitmap

import (
	"github.com/boljen/go-bitmap"

	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/diskerr"
	"github.com/danreif/uvfs/layout"
)

// Map is a bit-packed allocation bitmap covering `upperBound` objects,
// backed by sizeBlocks contiguous blocks on disk starting at startBlock.
type Map struct {
	bits        bitmap.Bitmap
	startBlock  uint32
	sizeBlocks  uint32
	upperBound  uint32
}

// Read loads a bitmap region of sizeBlocks blocks starting at startBlock,
// covering upperBound individual bits.
func Read(dev blockdev.Device, startBlock, sizeBlocks, upperBound uint32) (*Map, error) {
	buf := make([]byte, int64(sizeBlocks)*layout.BlockSize)
	if err := dev.ReadBlocks(startBlock, buf); err != nil {
		return nil, err
	}
	return &Map{
		bits:       bitmap.Bitmap(buf),
		startBlock: startBlock,
		sizeBlocks: sizeBlocks,
		upperBound: upperBound,
	}, nil
}

// IsSet reports whether the bit at index is set.
func (m *Map) IsSet(index uint32) bool {
	return m.bits.Get(int(index))
}

// Set marks index as in use.
func (m *Map) Set(index uint32) {
	m.bits.Set(int(index), true)
}

// Clear marks index as free.
func (m *Map) Clear(index uint32) {
	m.bits.Set(int(index), false)
}

// AllocateFree scans from startAt upward and returns the first clear index
// below upperBound, marking it set as a side effect. Index 0 is returned
// when startAt is 0 and its bit is clear; AllocateInode passes 1 to skip
// reserved inode 0, and AllocateBlock relies on block 0's bit being pre-set
// at format time.
func (m *Map) AllocateFree(startAt uint32) (uint32, error) {
	for i := startAt; i < m.upperBound; i++ {
		if !m.IsSet(i) {
			m.Set(i)
			return i, nil
		}
	}
	return 0, diskerr.New(diskerr.ErrNoSpace)
}

// CountFree returns the number of clear bits in [0, upperBound).
func (m *Map) CountFree() uint32 {
	var free uint32
	for i := uint32(0); i < m.upperBound; i++ {
		if !m.IsSet(i) {
			free++
		}
	}
	return free
}

// WriteBack writes the entire bitmap region back to disk.
func (m *Map) WriteBack(dev blockdev.Device) error {
	return dev.WriteBlocks(m.startBlock, []byte(m.bits))
}
