package core

import (
	"github.com/sirupsen/logrus"

	"github.com/danreif/uvfs/bitmap"
	"github.com/danreif/uvfs/dirent"
	"github.com/danreif/uvfs/diskerr"
	"github.com/danreif/uvfs/filemap"
)

// removeEntry implements the shared unlink/rmdir shape: resolve the parent,
// find the leaf, validate its type against wantDir, free its data blocks,
// clear its inode bit, and blank its parent directory entry.
func (m *Mount) removeEntry(path string, wantDir bool) error {
	parent, err := translateParent(m, path)
	if err != nil {
		return err
	}
	if !parent.ParentRec.IsDir() {
		return diskerr.New(diskerr.ErrNotADirectory)
	}

	dirBlock, err := dirent.Read(m.Dev, parent.ParentRec.Direct[0])
	if err != nil {
		return err
	}
	targetInum, slot, ok := dirBlock.Find(parent.Leaf)
	if !ok {
		return diskerr.New(diskerr.ErrNotFound)
	}

	targetRec, err := inodeRead(m, targetInum)
	if err != nil {
		return err
	}

	if wantDir {
		if !targetRec.IsDir() {
			return diskerr.New(diskerr.ErrNotADirectory)
		}
		if targetInum == m.SB.RootInode {
			return diskerr.New(diskerr.ErrDirectoryNotEmpty)
		}
		childBlock, err := dirent.Read(m.Dev, targetRec.Direct[0])
		if err != nil {
			return err
		}
		if !childBlock.IsEmpty() {
			return diskerr.New(diskerr.ErrDirectoryNotEmpty)
		}
	} else if targetRec.IsDir() {
		return diskerr.New(diskerr.ErrIsADirectory)
	}

	inodeMap, err := bitmap.ReadInodeBitmap(m.Dev, m.SB)
	if err != nil {
		return err
	}
	blockMap, err := bitmap.ReadBlockBitmap(m.Dev, m.SB)
	if err != nil {
		return err
	}

	if wantDir {
		// Directories only ever allocate direct[0]; nothing else to walk.
		blockMap.Clear(targetRec.Direct[0])
	} else {
		if err := filemap.FreeAll(m.Dev, blockMap, targetRec); err != nil {
			return err
		}
	}
	inodeMap.Clear(targetInum)
	dirBlock.Remove(slot)

	// Bitmap writes precede the parent directory write, per spec.md §5's
	// failure-ordering contract: a crash here may leak the cleared bits'
	// former owner but never resurrects a stale directory entry.
	if err := inodeMap.WriteBack(m.Dev); err != nil {
		return err
	}
	if err := blockMap.WriteBack(m.Dev); err != nil {
		return err
	}
	err = dirBlock.WriteBack(m.Dev, parent.ParentRec.Direct[0])
	if err == nil {
		m.log.WithFields(logrus.Fields{"op": "removeEntry", "path": path, "dir": wantDir}).Debug("removed")
	}
	return err
}

// Unlink removes a regular file.
func (m *Mount) Unlink(path string) error { return m.removeEntry(path, false) }

// Rmdir removes an empty directory. The root directory can never be
// removed.
func (m *Mount) Rmdir(path string) error { return m.removeEntry(path, true) }
