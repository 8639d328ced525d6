// Package inodestore reads and writes individual fixed-size inode records
// within the inode table's blocks.
//
// Grounded on original_source/project-10447762/fs.c: read_inode computes the
// table block from an inode number and copies the record out; writing mirrors
// that by reading the block, overwriting one record, and writing it back.
package inodestore

import (
	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/layout"
)

// blockAndOffset returns the inode table block containing inum, and the
// record's byte offset within that block.
func blockAndOffset(sb *layout.Superblock, inum uint32) (block uint32, offset int) {
	block = sb.InodeTableStart() + inum/layout.InodesPerBlock
	offset = int(inum%layout.InodesPerBlock) * layout.InodeRecordSize
	return
}

// Read loads the inode record for inum.
func Read(dev blockdev.Device, sb *layout.Superblock, inum uint32) (*layout.InodeRecord, error) {
	block, offset := blockAndOffset(sb, inum)
	buf := make([]byte, layout.BlockSize)
	if err := dev.ReadBlocks(block, buf); err != nil {
		return nil, err
	}
	return layout.DecodeInode(buf[offset : offset+layout.InodeRecordSize])
}

// Write overwrites the inode record for inum in place: it reads the table
// block, replaces only the target record's bytes, and writes the whole
// block back. The rest of the block's records are left untouched; the
// table is never zero-initialized on write-back.
func Write(dev blockdev.Device, sb *layout.Superblock, inum uint32, rec *layout.InodeRecord) error {
	block, offset := blockAndOffset(sb, inum)
	buf := make([]byte, layout.BlockSize)
	if err := dev.ReadBlocks(block, buf); err != nil {
		return err
	}
	copy(buf[offset:offset+layout.InodeRecordSize], layout.EncodeInode(rec))
	return dev.WriteBlocks(block, buf)
}
