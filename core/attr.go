package core

import "github.com/danreif/uvfs/layout"

// Attr is the attribute record returned by Getattr and filled in for each
// entry during Readdir, matching spec.md §4.7's getattr fields.
type Attr struct {
	UID, GID  uint16
	Mode      uint32
	Size      int64
	Ctime     uint32
	Mtime     uint32
	Atime     uint32 // always equal to Mtime; no access-time tracking
	Nlink     uint32 // always 1: no hard links
	BlockSize int64
	Blocks    int64 // ceil(size / 512), the traditional stat blocks unit
}

func attrFromInode(rec *layout.InodeRecord) Attr {
	size := int64(rec.Size)
	if rec.IsDir() {
		size = 0
	}
	return Attr{
		UID: rec.UID, GID: rec.GID,
		Mode:      rec.Mode,
		Size:      size,
		Ctime:     rec.Ctime,
		Mtime:     rec.Mtime,
		Atime:     rec.Mtime,
		Nlink:     1,
		BlockSize: layout.BlockSize,
		Blocks:    (size + 511) / 512,
	}
}

// Getattr resolves path and returns its attributes.
func (m *Mount) Getattr(path string) (Attr, error) {
	res, err := translate(m, path)
	if err != nil {
		return Attr{}, err
	}
	return attrFromInode(res.Rec), nil
}
