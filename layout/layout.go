// Package layout describes the on-disk format of the file system image:
// the superblock, the inode record, and the directory entry, along with the
// derived constants every other package computes offsets from.
//
// All sizes are fixed at compile time, matching the teacher's single
// BLOCK_SIZE-driven layout (original_source/project-10447762/fs.c).
package layout

const (
	// BlockSize is the fundamental unit of the image, in bytes.
	BlockSize = 1024

	// PtrsPerBlock is how many 4-byte block numbers fit in one block, used
	// for both indirect blocks.
	PtrsPerBlock = BlockSize / 4

	// NDirect is the number of direct block pointers carried in each inode
	// record.
	NDirect = 6

	// InodeRecordSize is the fixed on-disk size of one inode record.
	InodeRecordSize = 64

	// InodesPerBlock is how many inode records fit in one inode-table block.
	InodesPerBlock = BlockSize / InodeRecordSize

	// DirentSize is the fixed on-disk size of one directory entry. Fixed at
	// 32 bytes so that DirentsPerBlock comes out to 32, matching the
	// source's DIRENTS_PER_BLK.
	DirentSize = 32

	// DirentsPerBlock is how many directory entries fit in a single
	// directory data block. Directories never grow beyond one block.
	DirentsPerBlock = BlockSize / DirentSize

	// DirentNameSize is the size of a directory entry's name field. A
	// shorter name is NUL-padded; a name of exactly this length fills the
	// field with no terminator.
	DirentNameSize = DirentSize - 1 /*valid*/ - 1 /*is_dir*/ - 4 /*inode*/

	// FilenameSize is the maximum length of a path component, including the
	// implicit NUL terminator budget. A component may be at most
	// FilenameSize-1 bytes. Derived from DirentNameSize rather than fixed
	// independently, so every name Split accepts also fits untruncated in
	// on-disk storage.
	FilenameSize = DirentNameSize + 1

	// MaxLogicalBlocks is the largest logical block index (exclusive) a file
	// can address: N_DIRECT direct blocks, PTRS_PER_BLK single-indirect
	// blocks, and PTRS_PER_BLK^2 double-indirect blocks.
	MaxLogicalBlocks = NDirect + PtrsPerBlock + PtrsPerBlock*PtrsPerBlock

	// MaxFileBytes is the largest byte size a regular file may reach.
	MaxFileBytes = int64(MaxLogicalBlocks) * BlockSize

	// Magic identifies a correctly formatted image.
	Magic = uint32(0x55564653) // "UVFS"

	// RootInode is the conventional inode number of "/".
	RootInode = 1

	// ModeTypeDir and ModeTypeFile occupy the high bits of an inode's mode
	// field; the low 9 bits (0o777) are POSIX permission bits, as in
	// original_source's fs_inode.mode (S_ISDIR/S_ISREG via the high bits).
	ModeTypeDir  = 0o40000
	ModeTypeFile = 0o100000
	ModeTypeMask = 0o170000

	// ModeCreateMask is the mask applied to the caller-supplied mode when
	// creating a new inode (mknod/mkdir): permission bits plus the sticky
	// bit, but never setuid/setgid, per spec.md §4.7 step 6
	// (mode & 0o1777 & ~umask).
	ModeCreateMask = 0o1777
)

// Superblock mirrors the teacher's fs_super: layout constants fixed at
// format time and read once at mount. Treated as immutable after Mount.
type Superblock struct {
	Magic         uint32
	InodeMapSz    uint32 // blocks
	BlockMapSz    uint32 // blocks
	InodeRegionSz uint32 // blocks
	NumBlocks     uint32 // total blocks on the device
	RootInode     uint32
}

// InodeBitmapStart is the first block of the inode bitmap.
func InodeBitmapStart() uint32 { return 1 }

// BlockBitmapStart is the first block of the block bitmap.
func (sb *Superblock) BlockBitmapStart() uint32 {
	return InodeBitmapStart() + sb.InodeMapSz
}

// InodeTableStart is the first block of the inode table.
func (sb *Superblock) InodeTableStart() uint32 {
	return sb.BlockBitmapStart() + sb.BlockMapSz
}

// DataStart is the first data block, i.e. the first block available for
// allocation to files and directories.
func (sb *Superblock) DataStart() uint32 {
	return sb.InodeTableStart() + sb.InodeRegionSz
}

// TotalInodes is the number of inode slots the inode table provides.
func (sb *Superblock) TotalInodes() uint32 {
	return sb.InodeRegionSz * InodesPerBlock
}

// InodeRecord mirrors the teacher's fs_inode: permission+type bits, owner,
// timestamps, size, and the direct/indirect block pointer chain.
type InodeRecord struct {
	UID, GID uint16
	Mode     uint32
	Ctime    uint32
	Mtime    uint32
	Size     uint32
	Direct   [NDirect]uint32
	Indir1   uint32
	Indir2   uint32
	Reserved [12]byte
}

// IsDir reports whether the inode's mode marks it as a directory.
func (r *InodeRecord) IsDir() bool { return r.Mode&ModeTypeMask == ModeTypeDir }

// IsFile reports whether the inode's mode marks it as a regular file.
func (r *InodeRecord) IsFile() bool { return r.Mode&ModeTypeMask == ModeTypeFile }

// Dirent mirrors the teacher's fs_dirent: a validity flag, an advisory
// directory hint (the authoritative type lives in the inode, per spec), the
// child's inode number, and its name.
type Dirent struct {
	Valid bool
	IsDir bool
	Inode uint32
	Name  [DirentNameSize]byte
}

// NameString returns the entry's name up to its NUL terminator.
func (d *Dirent) NameString() string {
	n := 0
	for n < len(d.Name) && d.Name[n] != 0 {
		n++
	}
	return string(d.Name[:n])
}

// SetName copies name into the entry's fixed-size name field, NUL-padding
// the remainder. The caller must have already validated name's length.
func (d *Dirent) SetName(name string) {
	var buf [DirentNameSize]byte
	copy(buf[:], name)
	d.Name = buf
}
