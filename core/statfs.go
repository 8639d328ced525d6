package core

import (
	"github.com/danreif/uvfs/bitmap"
	"github.com/danreif/uvfs/layout"
)

// FSStat is the statfs result described by spec.md §4.7.
type FSStat struct {
	BlockSize   int64
	Blocks      uint64
	BlocksFree  uint64
	BlocksAvail uint64
	Files       uint64
	FilesFree   uint64
	NameMax     int64
}

// Statfs scans both bitmaps and reports aggregate free-space statistics.
func (m *Mount) Statfs() (FSStat, error) {
	inodeMap, err := bitmap.ReadInodeBitmap(m.Dev, m.SB)
	if err != nil {
		return FSStat{}, err
	}
	blockMap, err := bitmap.ReadBlockBitmap(m.Dev, m.SB)
	if err != nil {
		return FSStat{}, err
	}

	metadataBlocks := uint64(1 + m.SB.InodeMapSz + m.SB.BlockMapSz + m.SB.InodeRegionSz)
	freeBlocks := uint64(blockMap.CountFree())

	return FSStat{
		BlockSize:   layout.BlockSize,
		Blocks:      uint64(m.SB.NumBlocks) - metadataBlocks,
		BlocksFree:  freeBlocks,
		BlocksAvail: freeBlocks,
		Files:       uint64(m.SB.TotalInodes()),
		FilesFree:   uint64(inodeMap.CountFree()),
		NameMax:     layout.FilenameSize,
	}, nil
}
