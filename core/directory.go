package core

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danreif/uvfs/bitmap"
	"github.com/danreif/uvfs/dirent"
	"github.com/danreif/uvfs/diskerr"
	"github.com/danreif/uvfs/layout"
)

// Opendir resolves path and requires it to be a directory. There is no
// per-open state beyond the inode number the caller already has from
// Getattr/Translate — this exists to give the host binding a symmetric
// open/close pair to drive.
func (m *Mount) Opendir(path string) (uint32, error) {
	res, err := translate(m, path)
	if err != nil {
		return 0, err
	}
	if !res.Rec.IsDir() {
		return 0, diskerr.New(diskerr.ErrNotADirectory)
	}
	return res.Inode, nil
}

// Releasedir is a no-op: directories carry no per-open resources.
func (m *Mount) Releasedir(inum uint32) error { return nil }

// DirEntryFunc is called once per valid entry found by Readdir, in no
// particular order (linear scan order of the directory block).
type DirEntryFunc func(name string, attr Attr) error

// Readdir loads the directory's single data block and invokes fn for every
// valid entry, with an attributes record built from that entry's own
// inode.
func (m *Mount) Readdir(inum uint32, fn DirEntryFunc) error {
	rec, err := inodeRead(m, inum)
	if err != nil {
		return err
	}
	if !rec.IsDir() {
		return diskerr.New(diskerr.ErrNotADirectory)
	}
	block, err := dirent.Read(m.Dev, rec.Direct[0])
	if err != nil {
		return err
	}
	for i := range block.Entries {
		e := &block.Entries[i]
		if !e.Valid {
			continue
		}
		childRec, err := inodeRead(m, e.Inode)
		if err != nil {
			return err
		}
		if err := fn(e.NameString(), attrFromInode(childRec)); err != nil {
			return err
		}
	}
	return nil
}

// newNode allocates an inode and, for directories, a data block, builds the
// inode record, and links it into the parent directory's first free slot.
// Grounded on spec.md §4.7's mknod/mkdir ordering: bitmaps are written
// before the inode record, and the inode record before the parent
// directory block. A crash between these steps may leak an inode or block;
// that posture is intentional (spec.md §5, §9).
func (m *Mount) newNode(path string, mode uint32, isDir bool) (uint32, error) {
	parent, err := translateParent(m, path)
	if err != nil {
		return 0, err
	}
	if parent.Leaf == "" {
		return 0, diskerr.New(diskerr.ErrInvalidArgument)
	}
	if !parent.ParentRec.IsDir() {
		return 0, diskerr.New(diskerr.ErrNotADirectory)
	}

	dirBlock, err := dirent.Read(m.Dev, parent.ParentRec.Direct[0])
	if err != nil {
		return 0, err
	}
	if _, _, exists := dirBlock.Find(parent.Leaf); exists {
		return 0, diskerr.New(diskerr.ErrExists)
	}
	slot, err := dirBlock.FreeSlot()
	if err != nil {
		return 0, err
	}

	inodeMap, err := bitmap.ReadInodeBitmap(m.Dev, m.SB)
	if err != nil {
		return 0, err
	}
	blockMap, err := bitmap.ReadBlockBitmap(m.Dev, m.SB)
	if err != nil {
		return 0, err
	}

	newInum, err := bitmap.AllocateInode(inodeMap)
	if err != nil {
		return 0, err
	}

	now := uint32(time.Now().Unix())
	typeBit := uint32(layout.ModeTypeFile)
	if isDir {
		typeBit = layout.ModeTypeDir
	}
	rec := &Record{
		UID: 0, GID: 0, // caller identity: single-user core, see spec.md §5
		Mode:  (mode & layout.ModeCreateMask & ^umask()) | typeBit,
		Ctime: now, Mtime: now,
		Size: 0,
	}

	if isDir {
		rootBlock, err := bitmap.AllocateZeroedBlock(m.Dev, blockMap)
		if err != nil {
			return 0, err
		}
		rec.Direct[0] = rootBlock
	}

	if err := inodeMap.WriteBack(m.Dev); err != nil {
		return 0, err
	}
	if err := blockMap.WriteBack(m.Dev); err != nil {
		return 0, err
	}
	if err := writeInode(m, newInum, rec); err != nil {
		return 0, err
	}

	dirBlock.Insert(slot, newInum, parent.Leaf, isDir)
	if err := dirBlock.WriteBack(m.Dev, parent.ParentRec.Direct[0]); err != nil {
		return 0, err
	}

	m.log.WithFields(logrus.Fields{"op": "newNode", "path": path, "inode": newInum, "dir": isDir}).Debug("created")
	return newInum, nil
}

// umask returns the creation mask applied to new inode permissions. The
// core assumes a single in-process caller (spec.md §5) so this is a fixed
// process-wide value rather than a per-call argument.
func umask() uint32 { return uint32(os.FileMode(0)) }

// Mknod creates a new regular file.
func (m *Mount) Mknod(path string, mode uint32) (uint32, error) {
	return m.newNode(path, mode, false)
}

// Mkdir creates a new directory.
func (m *Mount) Mkdir(path string, mode uint32) (uint32, error) {
	return m.newNode(path, mode, true)
}
