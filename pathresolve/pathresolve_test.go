package pathresolve_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/dirent"
	"github.com/danreif/uvfs/diskerr"
	"github.com/danreif/uvfs/inodestore"
	"github.com/danreif/uvfs/layout"
	"github.com/danreif/uvfs/pathresolve"
)

func TestSplitNormalizesDotAndDotDot(t *testing.T) {
	got, err := pathresolve.Split("/a/./b/../c/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestSplitDotDotAtRootIsDroppedSilently(t *testing.T) {
	got, err := pathresolve.Split("/../../a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}

func TestSplitRootPathYieldsNoComponents(t *testing.T) {
	got, err := pathresolve.Split("/")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSplitAcceptsComponentAtMaxLength(t *testing.T) {
	max := make([]byte, layout.FilenameSize-1)
	for i := range max {
		max[i] = 'y'
	}
	got, err := pathresolve.Split("/" + string(max))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, string(max), got[0])
}

func TestSplitRejectsOverlongComponent(t *testing.T) {
	long := make([]byte, layout.FilenameSize)
	for i := range long {
		long[i] = 'x'
	}
	_, err := pathresolve.Split("/" + string(long))
	require.Error(t, err)
	assert.True(t, errors.Is(err, diskerr.ErrNameTooLong))
}

// buildTree sets up an eight-block device with a root directory (inode 1,
// data block 4) containing one subdirectory "sub" (inode 2, data block 5)
// which in turn contains one file "leaf.txt" (inode 3). Blocks 0-3 hold the
// superblock, the two bitmaps and the inode table.
func buildTree(t *testing.T) (blockdev.Device, *layout.Superblock) {
	t.Helper()
	dev := blockdev.NewMemoryDevice(8)
	sb := &layout.Superblock{
		Magic:         layout.Magic,
		InodeMapSz:    1,
		BlockMapSz:    1,
		InodeRegionSz: 1,
		NumBlocks:     8,
		RootInode:     layout.RootInode,
	}

	root := &layout.InodeRecord{Mode: layout.ModeTypeDir | 0o755}
	root.Direct[0] = 4
	require.NoError(t, inodestore.Write(dev, sb, 1, root))

	sub := &layout.InodeRecord{Mode: layout.ModeTypeDir | 0o755}
	sub.Direct[0] = 5
	require.NoError(t, inodestore.Write(dev, sb, 2, sub))

	leaf := &layout.InodeRecord{Mode: layout.ModeTypeFile | 0o644}
	require.NoError(t, inodestore.Write(dev, sb, 3, leaf))

	rootBlock := new(dirent.Block)
	rootBlock.Insert(0, 2, "sub", true)
	require.NoError(t, rootBlock.WriteBack(dev, 4))

	subBlock := new(dirent.Block)
	subBlock.Insert(0, 3, "leaf.txt", false)
	require.NoError(t, subBlock.WriteBack(dev, 5))

	return dev, sb
}

func TestTranslateWalksNestedPath(t *testing.T) {
	dev, sb := buildTree(t)

	resolved, err := pathresolve.Translate(dev, sb, "/sub/leaf.txt")
	require.NoError(t, err)
	assert.EqualValues(t, 3, resolved.Inode)
	assert.True(t, resolved.Rec.IsFile())
}

func TestTranslateMissingComponentFails(t *testing.T) {
	dev, sb := buildTree(t)
	_, err := pathresolve.Translate(dev, sb, "/sub/missing.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diskerr.ErrNotFound))
}

func TestTranslateThroughFileFailsNotADirectory(t *testing.T) {
	dev, sb := buildTree(t)
	_, err := pathresolve.Translate(dev, sb, "/sub/leaf.txt/more")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diskerr.ErrNotADirectory))
}

func TestTranslateParentSplitsLeaf(t *testing.T) {
	dev, sb := buildTree(t)
	resolved, err := pathresolve.TranslateParent(dev, sb, "/sub/leaf.txt")
	require.NoError(t, err)
	assert.EqualValues(t, 2, resolved.ParentInode)
	assert.Equal(t, "leaf.txt", resolved.Leaf)
}

func TestTranslateParentRejectsBareRoot(t *testing.T) {
	dev, sb := buildTree(t)
	_, err := pathresolve.TranslateParent(dev, sb, "/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diskerr.ErrInvalidArgument))
}
