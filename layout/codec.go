package layout

import (
	"bytes"
	"encoding/binary"

	"github.com/noxer/bytewriter"
)

// EncodeSuperblock serializes sb into a full-size block buffer. Mirrors
// the teacher's own format.go, which writes fixed-size fields straight
// into a pre-sized slice via bytewriter rather than growing a bytes.Buffer.
func EncodeSuperblock(sb *Superblock) []byte {
	out := make([]byte, BlockSize)
	writer := bytewriter.New(out)
	_ = binary.Write(writer, binary.LittleEndian, sb)
	return out
}

// DecodeSuperblock parses a superblock out of a full block's worth of bytes.
func DecodeSuperblock(block []byte) (*Superblock, error) {
	sb := new(Superblock)
	if err := binary.Read(bytes.NewReader(block), binary.LittleEndian, sb); err != nil {
		return nil, err
	}
	return sb, nil
}

// EncodeInode serializes an inode record to its fixed-size on-disk form.
func EncodeInode(rec *InodeRecord) []byte {
	out := make([]byte, InodeRecordSize)
	writer := bytewriter.New(out)
	_ = binary.Write(writer, binary.LittleEndian, rec)
	return out
}

// DecodeInode parses an inode record out of its fixed-size on-disk bytes.
func DecodeInode(data []byte) (*InodeRecord, error) {
	rec := new(InodeRecord)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// EncodeDirent serializes a directory entry to its fixed-size on-disk form.
func EncodeDirent(d *Dirent) []byte {
	out := make([]byte, DirentSize)
	if d.Valid {
		out[0] = 1
	}
	if d.IsDir {
		out[1] = 1
	}
	binary.LittleEndian.PutUint32(out[2:6], d.Inode)
	copy(out[6:], d.Name[:])
	return out
}

// DecodeDirent parses a directory entry out of its fixed-size on-disk bytes.
func DecodeDirent(data []byte) *Dirent {
	d := new(Dirent)
	d.Valid = data[0] != 0
	d.IsDir = data[1] != 0
	d.Inode = binary.LittleEndian.Uint32(data[2:6])
	copy(d.Name[:], data[6:6+DirentNameSize])
	return d
}
