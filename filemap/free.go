package filemap

import (
	"github.com/danreif/uvfs/bitmap"
	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/layout"
)

// FreeAll walks every block pointer reachable from rec (direct, the
// indir_1 block and its slots, the indir_2 block and every second-level
// block and slot within) and clears the corresponding bitmap bit for each.
// It relies on the dense-allocation invariant: within each level, it stops
// at the first zero pointer rather than scanning every slot. rec's pointer
// fields are zeroed as a side effect; the caller writes the inode back.
func FreeAll(dev blockdev.Device, blocks *bitmap.Map, rec *layout.InodeRecord) error {
	for i := range rec.Direct {
		if rec.Direct[i] == 0 {
			break
		}
		blocks.Clear(rec.Direct[i])
		rec.Direct[i] = 0
	}

	if rec.Indir1 != 0 {
		ptrs, err := readPtrBlock(dev, rec.Indir1)
		if err != nil {
			return err
		}
		for _, p := range ptrs {
			if p == 0 {
				break
			}
			blocks.Clear(p)
		}
		blocks.Clear(rec.Indir1)
		rec.Indir1 = 0
	}

	if rec.Indir2 != 0 {
		indir2, err := readPtrBlock(dev, rec.Indir2)
		if err != nil {
			return err
		}
		for _, secondBlock := range indir2 {
			if secondBlock == 0 {
				break
			}
			secondIndir, err := readPtrBlock(dev, secondBlock)
			if err != nil {
				return err
			}
			for _, leaf := range secondIndir {
				if leaf == 0 {
					break
				}
				blocks.Clear(leaf)
			}
			blocks.Clear(secondBlock)
		}
		blocks.Clear(rec.Indir2)
		rec.Indir2 = 0
	}

	return nil
}
