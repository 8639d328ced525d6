package core

import (
	"github.com/danreif/uvfs/diskerr"
)

// Open resolves path, rejecting directories, and returns the inode number.
// There is no per-open state beyond that: the core is single-threaded and
// serial (spec.md §5), so every call simply re-resolves and re-reads.
func (m *Mount) Open(path string) (uint32, error) {
	res, err := translate(m, path)
	if err != nil {
		return 0, err
	}
	if res.Rec.IsDir() {
		return 0, diskerr.New(diskerr.ErrIsADirectory)
	}
	return res.Inode, nil
}

// Release is a no-op: Open carries no per-call resources to release.
func (m *Mount) Release(inum uint32) error { return nil }
