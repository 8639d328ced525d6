// Package blockdev defines the block device contract the file system core
// uses for all persistent I/O, two concrete devices (a real image file and
// an in-memory device for tests), and Fail, which forces either of them
// into an unavailable state.
//
// The core never talks to an *os.File directly — everything goes through
// Device, mirroring the teacher's struct blkdev / blkdev_ops split
// (original_source/project-10447762/image.c) and disko's BlockDevice
// abstraction (drivers/common/blockdevice.go).
package blockdev

import (
	"io"

	"github.com/danreif/uvfs/diskerr"
	"github.com/danreif/uvfs/layout"
)

// Device is the only collaborator the core uses for persistence. All
// addressing is in units of layout.BlockSize-byte blocks.
type Device interface {
	// NumBlocks returns the total number of blocks available on the device.
	NumBlocks() uint32
	// ReadBlocks fills buf (which must be an exact multiple of
	// layout.BlockSize) with data starting at the given block.
	ReadBlocks(first uint32, buf []byte) error
	// WriteBlocks writes buf (an exact multiple of layout.BlockSize) to the
	// device starting at the given block.
	WriteBlocks(first uint32, buf []byte) error
	// Flush forces any buffered writes to stable storage.
	Flush() error
	// Close releases the device's resources.
	Close() error
}

// imageDevice implements Device over an io.ReadWriteSeeker / io.Closer,
// exactly like the teacher's image_create: the total block count is the
// stream's byte length truncated down to whole blocks, and the trailing
// partial block (if any) is ignored.
type imageDevice struct {
	stream    io.ReadWriteSeeker
	closer    io.Closer
	numBlocks uint32
	failed    bool
}

// OpenImage wraps an already-open stream as a Device, computing numBlocks
// from its current size. `closer` may be nil if the stream doesn't need an
// explicit close step.
func OpenImage(stream io.ReadWriteSeeker, sizeBytes int64, closer io.Closer) Device {
	return &imageDevice{
		stream:    stream,
		closer:    closer,
		numBlocks: uint32(sizeBytes / layout.BlockSize),
	}
}

func (d *imageDevice) NumBlocks() uint32 { return d.numBlocks }

func (d *imageDevice) checkBounds(first uint32, buf []byte) error {
	if d.failed {
		return diskerr.New(diskerr.ErrUnavailable)
	}
	if len(buf)%layout.BlockSize != 0 {
		return diskerr.Newf(diskerr.ErrInvalidArgument, "buffer length %d is not a multiple of block size", len(buf))
	}
	count := uint32(len(buf) / layout.BlockSize)
	if first >= d.numBlocks || first+count > d.numBlocks {
		return diskerr.Newf(diskerr.ErrInvalidArgument, "block range [%d, %d) out of bounds (device has %d blocks)", first, first+count, d.numBlocks)
	}
	return nil
}

func (d *imageDevice) ReadBlocks(first uint32, buf []byte) error {
	if err := d.checkBounds(first, buf); err != nil {
		return err
	}
	if _, err := d.stream.Seek(int64(first)*layout.BlockSize, io.SeekStart); err != nil {
		return diskerr.Wrap(diskerr.ErrIO, err)
	}
	n, err := io.ReadFull(d.stream, buf)
	if err != nil || n != len(buf) {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return diskerr.Wrap(diskerr.ErrIO, err)
	}
	return nil
}

func (d *imageDevice) WriteBlocks(first uint32, buf []byte) error {
	if err := d.checkBounds(first, buf); err != nil {
		return err
	}
	if _, err := d.stream.Seek(int64(first)*layout.BlockSize, io.SeekStart); err != nil {
		return diskerr.Wrap(diskerr.ErrIO, err)
	}
	n, err := d.stream.Write(buf)
	if err != nil || n != len(buf) {
		if err == nil {
			err = io.ErrShortWrite
		}
		return diskerr.Wrap(diskerr.ErrIO, err)
	}
	return nil
}

func (d *imageDevice) Flush() error {
	if d.failed {
		return diskerr.New(diskerr.ErrUnavailable)
	}
	if f, ok := d.stream.(interface{ Sync() error }); ok {
		if err := f.Sync(); err != nil {
			return diskerr.Wrap(diskerr.ErrUnavailable, err)
		}
	}
	return nil
}

func (d *imageDevice) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// Fail forces the device into an unavailable state, mirroring the teacher's
// image_fail: every subsequent access returns ErrUnavailable. Used by tests
// to exercise the core's I/O-error propagation without a real faulty disk.
func Fail(d Device) {
	if id, ok := d.(*imageDevice); ok {
		id.failed = true
		if id.closer != nil {
			_ = id.closer.Close()
		}
	}
}
