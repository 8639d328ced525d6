package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/danreif/uvfs/core"
)

// fsckRow is the CSV row shape for a single fsck violation, used by the
// `fsck --report PATH` flag.
type fsckRow struct {
	Inode  uint32 `csv:"inode"`
	Kind   string `csv:"kind"`
	Detail string `csv:"detail"`
}

func writeFsckReport(report *core.FsckReport, csvPath string) error {
	if csvPath == "" {
		for _, v := range report.Violations {
			fmt.Println(v.Error())
		}
		return nil
	}

	rows := make([]*fsckRow, 0, len(report.Violations))
	for _, v := range report.Violations {
		rows = append(rows, &fsckRow{Inode: v.Inode, Kind: v.Kind, Detail: v.Detail})
	}

	f, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return gocsv.MarshalFile(rows, f)
}
