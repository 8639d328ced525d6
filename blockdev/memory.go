package blockdev

import (
	"github.com/xaionaro-go/bytesextra"

	"github.com/danreif/uvfs/layout"
)

// NewMemoryDevice creates an in-memory Device backed by a plain byte slice,
// wrapped as an io.ReadWriteSeeker via bytesextra. Used by unit tests across
// the module so they never need to touch a real file, matching the
// teacher's own testing/images.go helpers.
func NewMemoryDevice(numBlocks uint32) Device {
	buf := make([]byte, int64(numBlocks)*layout.BlockSize)
	stream := bytesextra.NewReadWriteSeeker(buf)
	return OpenImage(stream, int64(len(buf)), nil)
}
