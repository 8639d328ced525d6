package core

import (
	"github.com/danreif/uvfs/dirent"
	"github.com/danreif/uvfs/diskerr"
)

// Rename implements the simplified contract of spec.md §4.7: src and dst
// must share the same parent directory, dst must not already exist, src
// must exist, and the rename only rewrites the entry's name in place —
// there is no move across directories and no overwrite.
func (m *Mount) Rename(src, dst string) error {
	srcParent, err := translateParent(m, src)
	if err != nil {
		return err
	}
	dstParent, err := translateParent(m, dst)
	if err != nil {
		return err
	}
	if srcParent.ParentInode != dstParent.ParentInode {
		return diskerr.New(diskerr.ErrInvalidArgument)
	}

	block, err := dirent.Read(m.Dev, srcParent.ParentRec.Direct[0])
	if err != nil {
		return err
	}
	if _, _, exists := block.Find(dstParent.Leaf); exists {
		return diskerr.New(diskerr.ErrExists)
	}
	_, slot, ok := block.Find(srcParent.Leaf)
	if !ok {
		return diskerr.New(diskerr.ErrNotFound)
	}

	block.Rename(slot, dstParent.Leaf)
	return block.WriteBack(m.Dev, srcParent.ParentRec.Direct[0])
}
