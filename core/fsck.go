package core

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/danreif/uvfs/bitmap"
	"github.com/danreif/uvfs/dirent"
	"github.com/danreif/uvfs/layout"
)

// FsckViolation describes a single invariant violation found by Fsck.
type FsckViolation struct {
	Inode  uint32
	Kind   string
	Detail string
}

func (v FsckViolation) Error() string {
	return fmt.Sprintf("inode %d: %s: %s", v.Inode, v.Kind, v.Detail)
}

// FsckReport is the accumulated result of a consistency scan.
type FsckReport struct {
	Violations []FsckViolation
}

// Fsck walks every inode the bitmap marks in use and checks the read-only
// invariants from spec.md §8: dense allocation of the direct pointers,
// directory size/child-count bounds, and unique child names. Slots inside
// indirect blocks and the block bitmap are not checked. It never
// repairs anything — no journaling or crash-atomicity per spec.md §1's
// Non-goals, so this stays diagnostic only. Every violation found is
// accumulated via go-multierror rather than stopping at the first.
func (m *Mount) Fsck() (*FsckReport, error) {
	inodeMap, err := bitmap.ReadInodeBitmap(m.Dev, m.SB)
	if err != nil {
		return nil, err
	}

	var merr *multierror.Error
	report := &FsckReport{}

	add := func(inum uint32, kind, detail string) {
		v := FsckViolation{Inode: inum, Kind: kind, Detail: detail}
		report.Violations = append(report.Violations, v)
		merr = multierror.Append(merr, v)
	}

	for inum := uint32(1); inum < m.SB.TotalInodes(); inum++ {
		if !inodeMap.IsSet(inum) {
			continue
		}
		rec, err := inodeRead(m, inum)
		if err != nil {
			add(inum, "unreadable", err.Error())
			continue
		}

		if !dense(rec.Direct[:]) {
			add(inum, "sparse-direct", "a zero direct pointer precedes a non-zero one")
		}

		if rec.IsDir() {
			if rec.Size != 0 {
				add(inum, "bad-dir-size", "directory inode has non-zero size")
			}
			m.fsckDirectory(inum, rec, add)
		} else {
			if int64(rec.Size) > layout.MaxFileBytes {
				add(inum, "oversize", "size exceeds MaxFileBytes")
			}
		}
	}

	if merr != nil {
		return report, merr
	}
	return report, nil
}

func (m *Mount) fsckDirectory(inum uint32, rec *Record, add func(uint32, string, string)) {
	if rec.Direct[0] == 0 {
		add(inum, "missing-dir-block", "directory has no data block")
		return
	}
	block, err := dirent.Read(m.Dev, rec.Direct[0])
	if err != nil {
		add(inum, "unreadable-dir-block", err.Error())
		return
	}
	seen := make(map[string]bool)
	count := 0
	for _, e := range block.Entries {
		if !e.Valid {
			continue
		}
		count++
		name := e.NameString()
		if seen[name] {
			add(inum, "duplicate-name", name)
		}
		seen[name] = true
	}
	if count > layout.DirentsPerBlock {
		add(inum, "too-many-children", fmt.Sprintf("%d > %d", count, layout.DirentsPerBlock))
	}
}

// dense reports whether ptrs has no zero entry followed by a non-zero one.
func dense(ptrs []uint32) bool {
	seenZero := false
	for _, p := range ptrs {
		if p == 0 {
			seenZero = true
		} else if seenZero {
			return false
		}
	}
	return true
}
