package core

import (
	"time"

	"github.com/danreif/uvfs/bitmap"
	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/diskerr"
	"github.com/danreif/uvfs/inodestore"
	"github.com/danreif/uvfs/layout"
)

// FormatOptions controls the layout of a freshly formatted image. This
// step isn't named by spec.md's operation vector (spec.md is silent on how
// an image is born) but is required to reproduce spec.md §8's end-to-end
// scenarios from nothing. Grounded on disko's FormatImage
// (api.go/drivers/unixv1/formattingdriver.go).
type FormatOptions struct {
	InodeMapBlocks    uint32
	BlockMapBlocks    uint32
	InodeRegionBlocks uint32
}

// DefaultFormatOptions matches spec.md §8's example layout: a 1 MiB image
// with a 1-block inode bitmap, a 1-block block bitmap, and a 4-block inode
// table (64 inodes).
var DefaultFormatOptions = FormatOptions{
	InodeMapBlocks:    1,
	BlockMapBlocks:    1,
	InodeRegionBlocks: 4,
}

// Format writes a fresh superblock, zeroes both bitmaps (except for the
// bits reserved by the metadata region itself and inode 0), zeroes the
// inode table, and creates the root directory.
func Format(dev blockdev.Device, opts FormatOptions) error {
	numBlocks := dev.NumBlocks()
	sb := &layout.Superblock{
		Magic:         layout.Magic,
		InodeMapSz:    opts.InodeMapBlocks,
		BlockMapSz:    opts.BlockMapBlocks,
		InodeRegionSz: opts.InodeRegionBlocks,
		NumBlocks:     numBlocks,
		RootInode:     layout.RootInode,
	}

	if err := dev.WriteBlocks(0, layout.EncodeSuperblock(sb)); err != nil {
		return err
	}

	zeroRegion := func(start, count uint32) error {
		buf := make([]byte, int64(count)*layout.BlockSize)
		return dev.WriteBlocks(start, buf)
	}
	if err := zeroRegion(layout.InodeBitmapStart(), sb.InodeMapSz); err != nil {
		return err
	}
	if err := zeroRegion(sb.BlockBitmapStart(), sb.BlockMapSz); err != nil {
		return err
	}
	if err := zeroRegion(sb.InodeTableStart(), sb.InodeRegionSz); err != nil {
		return err
	}

	inodeMap, err := bitmap.ReadInodeBitmap(dev, sb)
	if err != nil {
		return err
	}
	blockMap, err := bitmap.ReadBlockBitmap(dev, sb)
	if err != nil {
		return err
	}

	// Block 0 (the superblock) and every metadata block are permanently
	// occupied; reserve them up front so AllocateBlock never hands them out.
	for i := uint32(0); i < sb.DataStart(); i++ {
		blockMap.Set(i)
	}
	// Inode 0 is reserved and never allocated.
	inodeMap.Set(0)

	rootBlock, err := bitmap.AllocateZeroedBlock(dev, blockMap)
	if err != nil {
		return err
	}
	rootInum, err := bitmap.AllocateInode(inodeMap)
	if err != nil {
		return err
	}
	if rootInum != sb.RootInode {
		return diskerr.Newf(diskerr.ErrIO, "root inode allocated as %d, expected %d", rootInum, sb.RootInode)
	}

	if err := inodeMap.WriteBack(dev); err != nil {
		return err
	}
	if err := blockMap.WriteBack(dev); err != nil {
		return err
	}

	now := uint32(time.Now().Unix())
	rootRec := &layout.InodeRecord{
		UID: 0, GID: 0,
		Mode:  layout.ModeTypeDir | 0o755,
		Ctime: now, Mtime: now,
		Size: 0,
	}
	rootRec.Direct[0] = rootBlock

	return inodestore.Write(dev, sb, sb.RootInode, rootRec)
}
