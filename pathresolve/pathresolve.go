// Package pathresolve splits and normalizes absolute paths and walks the
// directory tree to translate a path into an inode number.
//
// Grounded on original_source/project-10447762/fs.c (split, split_path,
// inode_from_full_path) and the teacher's normalizePath
// (drivers/common/basedriver/driver.go), which also uses
// golang.org/x/exp/slices for component manipulation.
package pathresolve

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/dirent"
	"github.com/danreif/uvfs/diskerr"
	"github.com/danreif/uvfs/inodestore"
	"github.com/danreif/uvfs/layout"
)

// Split breaks an absolute path into normalized components: "." is
// dropped, ".." pops the previous component (or is dropped silently at
// root), and a trailing slash never produces an empty trailing component.
// A component longer than FilenameSize-1 bytes is rejected.
func Split(path string) ([]string, error) {
	raw := strings.Split(path, "/")
	components := make([]string, 0, len(raw))
	for _, c := range raw {
		switch c {
		case "", ".":
			continue
		case "..":
			if len(components) > 0 {
				components = slices.Delete(components, len(components)-1, len(components))
			}
		default:
			if len(c) > layout.FilenameSize-1 {
				return nil, diskerr.Newf(diskerr.ErrNameTooLong, "component %q exceeds %d bytes", c, layout.FilenameSize-1)
			}
			components = append(components, c)
		}
	}
	return components, nil
}

// Resolved is the outcome of walking a path all the way to its target.
type Resolved struct {
	Inode uint32
	Rec   *layout.InodeRecord
}

// Translate walks every component of path, requiring every intermediate
// component to be a directory, and returns the final inode number and
// record.
func Translate(dev blockdev.Device, sb *layout.Superblock, path string) (*Resolved, error) {
	components, err := Split(path)
	if err != nil {
		return nil, err
	}

	inum := sb.RootInode
	rec, err := inodestore.Read(dev, sb, inum)
	if err != nil {
		return nil, err
	}

	for _, name := range components {
		if !rec.IsDir() {
			return nil, diskerr.New(diskerr.ErrNotADirectory)
		}
		block, err := dirent.Read(dev, rec.Direct[0])
		if err != nil {
			return nil, err
		}
		child, _, ok := block.Find(name)
		if !ok {
			return nil, diskerr.New(diskerr.ErrNotFound)
		}
		inum = child
		rec, err = inodestore.Read(dev, sb, inum)
		if err != nil {
			return nil, err
		}
	}

	return &Resolved{Inode: inum, Rec: rec}, nil
}

// ResolvedParent is the outcome of walking a path up to (but not including)
// its final component.
type ResolvedParent struct {
	ParentInode uint32
	ParentRec   *layout.InodeRecord
	Leaf        string
}

// TranslateParent walks every component of path except the last, and
// returns the parent directory's inode plus the leaf name. It rejects an
// empty path or bare root (there is no parent to return).
func TranslateParent(dev blockdev.Device, sb *layout.Superblock, path string) (*ResolvedParent, error) {
	components, err := Split(path)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, diskerr.New(diskerr.ErrInvalidArgument)
	}

	leaf := components[len(components)-1]
	parentComponents := components[:len(components)-1]

	inum := sb.RootInode
	rec, err := inodestore.Read(dev, sb, inum)
	if err != nil {
		return nil, err
	}

	for _, name := range parentComponents {
		if !rec.IsDir() {
			return nil, diskerr.New(diskerr.ErrNotADirectory)
		}
		block, err := dirent.Read(dev, rec.Direct[0])
		if err != nil {
			return nil, err
		}
		child, _, ok := block.Find(name)
		if !ok {
			return nil, diskerr.New(diskerr.ErrNotFound)
		}
		inum = child
		rec, err = inodestore.Read(dev, sb, inum)
		if err != nil {
			return nil, err
		}
	}

	if !rec.IsDir() {
		return nil, diskerr.New(diskerr.ErrNotADirectory)
	}

	return &ResolvedParent{ParentInode: inum, ParentRec: rec, Leaf: leaf}, nil
}
