package core

import "github.com/danreif/uvfs/layout"

// Record is the on-disk inode record type, aliased for brevity within core.
type Record = layout.InodeRecord
