package blockdev

import (
	"fmt"
	"os"

	"github.com/danreif/uvfs/diskerr"
	"github.com/danreif/uvfs/layout"
)

// OpenFile opens an existing image file at path for read/write and wraps it
// as a Device. A file whose size isn't a multiple of layout.BlockSize is
// accepted with its trailing bytes ignored, matching image_create's
// warning-not-fatal posture.
func OpenFile(path string) (Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, diskerr.Wrap(diskerr.ErrUnavailable, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, diskerr.Wrap(diskerr.ErrUnavailable, err)
	}
	if info.Size()%layout.BlockSize != 0 {
		fmt.Fprintf(os.Stderr, "warning: image %s is not a multiple of %d bytes\n", path, layout.BlockSize)
	}
	return OpenImage(f, info.Size(), f), nil
}

// CreateFile creates a new image file at path containing numBlocks
// zero-filled blocks, and returns it opened as a Device ready for
// core.Format.
func CreateFile(path string, numBlocks uint32) (Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, diskerr.Wrap(diskerr.ErrUnavailable, err)
	}
	size := int64(numBlocks) * layout.BlockSize
	if err := f.Truncate(size); err != nil {
		_ = f.Close()
		return nil, diskerr.Wrap(diskerr.ErrUnavailable, err)
	}
	return OpenImage(f, size, f), nil
}
