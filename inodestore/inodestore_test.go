package inodestore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/inodestore"
	"github.com/danreif/uvfs/layout"
)

func sb() *layout.Superblock {
	return &layout.Superblock{
		Magic:         layout.Magic,
		InodeMapSz:    1,
		BlockMapSz:    1,
		InodeRegionSz: 1,
		NumBlocks:     16,
		RootInode:     layout.RootInode,
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	dev := blockdev.NewMemoryDevice(16)
	s := sb()

	rec := &layout.InodeRecord{Mode: layout.ModeTypeFile | 0o644, Size: 99}
	require.NoError(t, inodestore.Write(dev, s, 3, rec))

	got, err := inodestore.Read(dev, s, 3)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestWriteDoesNotDisturbSiblingRecords(t *testing.T) {
	dev := blockdev.NewMemoryDevice(16)
	s := sb()

	first := &layout.InodeRecord{Mode: layout.ModeTypeFile, Size: 1}
	second := &layout.InodeRecord{Mode: layout.ModeTypeDir, Size: 2}
	require.NoError(t, inodestore.Write(dev, s, 1, first))
	require.NoError(t, inodestore.Write(dev, s, 2, second))

	gotFirst, err := inodestore.Read(dev, s, 1)
	require.NoError(t, err)
	assert.Equal(t, first, gotFirst)

	gotSecond, err := inodestore.Read(dev, s, 2)
	require.NoError(t, err)
	assert.Equal(t, second, gotSecond)
}
