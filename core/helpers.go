package core

import (
	"github.com/danreif/uvfs/inodestore"
	"github.com/danreif/uvfs/pathresolve"
)

func translate(m *Mount, path string) (*pathresolve.Resolved, error) {
	return pathresolve.Translate(m.Dev, m.SB, path)
}

func translateParent(m *Mount, path string) (*pathresolve.ResolvedParent, error) {
	return pathresolve.TranslateParent(m.Dev, m.SB, path)
}

func writeInode(m *Mount, inum uint32, rec *Record) error {
	return inodestore.Write(m.Dev, m.SB, inum, rec)
}

func inodeRead(m *Mount, inum uint32) (*Record, error) {
	return inodestore.Read(m.Dev, m.SB, inum)
}
