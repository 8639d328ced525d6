//go:build fuse

// Package fuseadapter is the host file-system binding: it translates
// go-fuse's node callbacks into calls against a *core.Mount. Per spec.md
// §1 this binding is explicitly out of scope for the core — it exists only
// to give the core's operation vector somewhere real to run, the way the
// original CS492 skeleton's struct fuse_operations (fs_ops in fs.c) did.
//
// Grounded on github.com/hanwen/go-fuse/v2, the pack's own FUSE dependency
// (_examples/KarpelesLab-squashfs/inode_fuse.go uses the same module,
// behind the same "//go:build fuse" style tag).
package fuseadapter

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/danreif/uvfs/core"
	"github.com/danreif/uvfs/diskerr"
)

// Node is one directory entry's worth of FUSE state: the mount it belongs
// to and its absolute path within the image. The core has no notion of
// open file handles beyond an inode number, so Node carries the path and
// re-resolves on every callback — matching the core's single-threaded,
// re-resolve-every-time contract (spec.md §5).
type Node struct {
	fs.Inode
	mount *core.Mount
	path  string
}

// Root returns the root node of the mounted tree, ready to pass to
// fs.Mount.
func Root(m *core.Mount) *Node {
	return &Node{mount: m, path: "/"}
}

func errnoOf(err error) syscall.Errno {
	if err == nil {
		return 0
	}
	if de, ok := err.(*diskerr.DriverError); ok {
		return de.Errno()
	}
	return syscall.EIO
}

func childPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

func fillAttr(out *fuse.Attr, a core.Attr) {
	out.Mode = a.Mode
	out.Size = uint64(a.Size)
	out.Uid = uint32(a.UID)
	out.Gid = uint32(a.GID)
	out.Mtime = uint64(a.Mtime)
	out.Ctime = uint64(a.Ctime)
	out.Atime = uint64(a.Atime)
	out.Nlink = a.Nlink
	out.Blksize = uint32(a.BlockSize)
	out.Blocks = uint64(a.Blocks)
}

func (n *Node) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	attr, err := n.mount.Getattr(n.path)
	if err != nil {
		return errnoOf(err)
	}
	fillAttr(&out.Attr, attr)
	return 0
}

func (n *Node) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	path := childPath(n.path, name)
	attr, err := n.mount.Getattr(path)
	if err != nil {
		return nil, errnoOf(err)
	}
	fillAttr(&out.Attr, attr)
	child := &Node{mount: n.mount, path: path}
	stable := fs.StableAttr{Mode: attr.Mode}
	return n.NewInode(ctx, child, stable), 0
}

func (n *Node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	var entries []fuse.DirEntry
	inum, err := n.mount.Opendir(n.path)
	if err != nil {
		return nil, errnoOf(err)
	}
	defer n.mount.Releasedir(inum)

	err = n.mount.Readdir(inum, func(name string, attr core.Attr) error {
		entries = append(entries, fuse.DirEntry{Name: name, Mode: attr.Mode})
		return nil
	})
	if err != nil {
		return nil, errnoOf(err)
	}
	return fs.NewListDirStream(entries), 0
}

func (n *Node) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	if _, err := n.mount.Open(n.path); err != nil {
		return nil, 0, errnoOf(err)
	}
	return nil, 0, 0
}

func (n *Node) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	data, err := n.mount.Read(n.path, int64(len(dest)), off)
	if err != nil {
		return nil, errnoOf(err)
	}
	return fuse.ReadResultData(data), 0
}

func (n *Node) Write(ctx context.Context, f fs.FileHandle, data []byte, off int64) (uint32, syscall.Errno) {
	written, err := n.mount.Write(n.path, data, off)
	if err != nil {
		return 0, errnoOf(err)
	}
	return uint32(written), 0
}

func (n *Node) Mknod(ctx context.Context, name string, mode, rdev uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	_, err := n.mount.Mknod(childPath(n.path, name), mode)
	if err != nil {
		return nil, errnoOf(err)
	}
	return n.Lookup(ctx, name, out)
}

func (n *Node) Mkdir(ctx context.Context, name string, mode uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	_, err := n.mount.Mkdir(childPath(n.path, name), mode)
	if err != nil {
		return nil, errnoOf(err)
	}
	return n.Lookup(ctx, name, out)
}

func (n *Node) Unlink(ctx context.Context, name string) syscall.Errno {
	return errnoOf(n.mount.Unlink(childPath(n.path, name)))
}

func (n *Node) Rmdir(ctx context.Context, name string) syscall.Errno {
	return errnoOf(n.mount.Rmdir(childPath(n.path, name)))
}

func (n *Node) Rename(ctx context.Context, name string, newParent fs.InodeEmbedder, newName string, flags uint32) syscall.Errno {
	newParentNode, ok := newParent.(*Node)
	if !ok {
		return syscall.EINVAL
	}
	return errnoOf(n.mount.Rename(childPath(n.path, name), childPath(newParentNode.path, newName)))
}

func (n *Node) Setattr(ctx context.Context, f fs.FileHandle, in *fuse.SetAttrIn, out *fuse.AttrOut) syscall.Errno {
	if mode, ok := in.GetMode(); ok {
		if err := n.mount.Chmod(n.path, mode); err != nil {
			return errnoOf(err)
		}
	}
	if size, ok := in.GetSize(); ok {
		if err := n.mount.Truncate(n.path, int64(size)); err != nil {
			return errnoOf(err)
		}
	}
	return n.Getattr(ctx, f, out)
}
