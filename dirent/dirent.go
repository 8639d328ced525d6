// Package dirent scans, inserts, and removes entries in a single-block
// directory: the fixed-size table of layout.DirentsPerBlock slots that a
// directory inode's direct[0] block holds.
//
// Grounded on original_source/project-10447762/fs.c: scan_dir_block, and the
// disko teacher's unixv6 directory entry layout.
package dirent

import (
	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/diskerr"
	"github.com/danreif/uvfs/layout"
)

// Block is a decoded directory data block: exactly layout.DirentsPerBlock
// entry slots.
type Block struct {
	Entries [layout.DirentsPerBlock]layout.Dirent
}

// Read loads and decodes the directory block at the given physical block
// number.
func Read(dev blockdev.Device, physBlock uint32) (*Block, error) {
	buf := make([]byte, layout.BlockSize)
	if err := dev.ReadBlocks(physBlock, buf); err != nil {
		return nil, err
	}
	b := new(Block)
	for i := range b.Entries {
		off := i * layout.DirentSize
		b.Entries[i] = *layout.DecodeDirent(buf[off : off+layout.DirentSize])
	}
	return b, nil
}

// WriteBack encodes and writes the block back to its physical block number.
func (b *Block) WriteBack(dev blockdev.Device, physBlock uint32) error {
	buf := make([]byte, layout.BlockSize)
	for i := range b.Entries {
		off := i * layout.DirentSize
		copy(buf[off:off+layout.DirentSize], layout.EncodeDirent(&b.Entries[i]))
	}
	return dev.WriteBlocks(physBlock, buf)
}

// Find does a linear scan for name, returning the entry's inode number and
// its slot index. ok is false if no valid entry matches.
func (b *Block) Find(name string) (inum uint32, slot int, ok bool) {
	for i := range b.Entries {
		e := &b.Entries[i]
		if e.Valid && e.NameString() == name {
			return e.Inode, i, true
		}
	}
	return 0, -1, false
}

// FreeSlot returns the index of the first slot with Valid == false, or
// ErrNoSpace if the directory is full.
func (b *Block) FreeSlot() (int, error) {
	for i := range b.Entries {
		if !b.Entries[i].Valid {
			return i, nil
		}
	}
	return -1, diskerr.New(diskerr.ErrNoSpace)
}

// IsEmpty reports whether no slot holds a valid entry.
func (b *Block) IsEmpty() bool {
	for i := range b.Entries {
		if b.Entries[i].Valid {
			return false
		}
	}
	return true
}

// Insert writes a new valid entry into the given slot.
func (b *Block) Insert(slot int, inum uint32, name string, isDir bool) {
	e := &b.Entries[slot]
	e.Valid = true
	e.IsDir = isDir
	e.Inode = inum
	e.SetName(name)
}

// Remove invalidates the entry at the given slot.
func (b *Block) Remove(slot int) {
	b.Entries[slot] = layout.Dirent{}
}

// Rename overwrites the name of the entry at the given slot in place,
// leaving its inode number and validity untouched.
func (b *Block) Rename(slot int, newName string) {
	b.Entries[slot].SetName(newName)
}
