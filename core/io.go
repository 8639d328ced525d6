package core

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danreif/uvfs/bitmap"
	"github.com/danreif/uvfs/diskerr"
	"github.com/danreif/uvfs/filemap"
	"github.com/danreif/uvfs/layout"
)

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Read resolves path, rejects directories, clamps the requested length to
// what remains in the file past offset, and concatenates every logical
// block the range touches (a zero pointer within the declared size reads
// as a zero-filled block) before slicing out exactly the requested bytes.
func (m *Mount) Read(path string, length int64, offset int64) ([]byte, error) {
	res, err := translate(m, path)
	if err != nil {
		return nil, err
	}
	rec := res.Rec
	if rec.IsDir() {
		return nil, diskerr.New(diskerr.ErrIsADirectory)
	}

	size := int64(rec.Size)
	if offset >= size {
		return []byte{}, nil
	}
	length = min64(length, size-offset)

	out := make([]byte, 0, length)
	position := offset
	remaining := length
	for remaining > 0 {
		logical := uint32(position / layout.BlockSize)
		blockOffset := position % layout.BlockSize
		chunk := min64(layout.BlockSize-blockOffset, remaining)

		phys, err := filemap.Translate(m.Dev, rec, logical)
		if err != nil {
			return nil, err
		}
		blockBuf := make([]byte, layout.BlockSize)
		if phys != 0 {
			if err := m.Dev.ReadBlocks(phys, blockBuf); err != nil {
				return nil, err
			}
		}
		out = append(out, blockBuf[blockOffset:blockOffset+chunk]...)

		position += chunk
		remaining -= chunk
	}
	return out, nil
}

// Write resolves path, rejects directories and sparse writes (offset past
// the current size), clamps the requested length to the remaining budget
// under layout.MaxFileBytes, and writes each touched block — doing a
// read-modify-write for a block only partially covered by buf (the head
// and tail of the range) and writing caller bytes straight through for
// fully covered blocks in between. Lazily allocated indirect blocks come
// from filemap.PutBlock. If the write extends the file, size and the
// inode record are updated at the end.
func (m *Mount) Write(path string, buf []byte, offset int64) (int64, error) {
	res, err := translate(m, path)
	if err != nil {
		return 0, err
	}
	rec := res.Rec
	if rec.IsDir() {
		return 0, diskerr.New(diskerr.ErrIsADirectory)
	}

	size := int64(rec.Size)
	if offset > size {
		return 0, diskerr.New(diskerr.ErrInvalidArgument)
	}

	length := int64(len(buf))
	if length == 0 {
		return 0, nil
	}
	if offset == layout.MaxFileBytes {
		return 0, diskerr.New(diskerr.ErrFileTooLarge)
	}
	length = filemap.ClampWriteLength(offset, length)
	if length == 0 {
		return 0, diskerr.New(diskerr.ErrFileTooLarge)
	}

	blockMap, err := bitmap.ReadBlockBitmap(m.Dev, m.SB)
	if err != nil {
		return 0, err
	}

	position := offset
	remaining := length
	bufOff := int64(0)
	for remaining > 0 {
		logical := uint32(position / layout.BlockSize)
		blockOffset := position % layout.BlockSize
		chunk := min64(layout.BlockSize-blockOffset, remaining)
		partial := blockOffset != 0 || chunk != layout.BlockSize

		blockBuf := make([]byte, layout.BlockSize)
		if partial {
			phys, err := filemap.Translate(m.Dev, rec, logical)
			if err != nil {
				return 0, err
			}
			if phys != 0 {
				if err := m.Dev.ReadBlocks(phys, blockBuf); err != nil {
					return 0, err
				}
			}
		}
		copy(blockBuf[blockOffset:blockOffset+chunk], buf[bufOff:bufOff+chunk])

		if err := filemap.PutBlock(m.Dev, blockMap, rec, logical, blockBuf); err != nil {
			return 0, err
		}

		position += chunk
		remaining -= chunk
		bufOff += chunk
	}

	if offset+length > size {
		rec.Size = uint32(offset + length)
	}
	rec.Mtime = uint32(time.Now().Unix())
	if err := writeInode(m, res.Inode, rec); err != nil {
		return 0, err
	}
	m.log.WithFields(logrus.Fields{"op": "write", "path": path, "offset": offset, "length": length}).Debug("wrote")
	return length, nil
}

// Truncate supports only new_len == 0: it frees every block reachable from
// the inode (direct, the indir_1 subtree, the indir_2 subtree), zeroes all
// pointer fields, and resets size to zero.
func (m *Mount) Truncate(path string, newLen int64) error {
	if newLen != 0 {
		return diskerr.New(diskerr.ErrInvalidArgument)
	}
	res, err := translate(m, path)
	if err != nil {
		return err
	}
	rec := res.Rec
	if rec.IsDir() {
		return diskerr.New(diskerr.ErrIsADirectory)
	}

	blockMap, err := bitmap.ReadBlockBitmap(m.Dev, m.SB)
	if err != nil {
		return err
	}
	if err := filemap.FreeAll(m.Dev, blockMap, rec); err != nil {
		return err
	}
	rec.Size = 0
	rec.Mtime = uint32(time.Now().Unix())

	if err := blockMap.WriteBack(m.Dev); err != nil {
		return err
	}
	if err := writeInode(m, res.Inode, rec); err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{"op": "truncate", "path": path}).Debug("truncated")
	return nil
}

// Utime is deliberately unimplemented, per spec.md §9: it must return
// ErrNotImplemented without mutating any state.
func (m *Mount) Utime(path string, atime, mtime int64) error {
	return diskerr.New(diskerr.ErrNotImplemented)
}
