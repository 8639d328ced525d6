// Command blockfsctl is the external command dispatcher for the image
// file system core: format a fresh image, scan one for consistency, or
// mount it. Per spec.md §1 this dispatcher is explicitly out of scope for
// the core — it's glue, kept thin.
//
// Grounded on the teacher's cmd/main.go, which drives urfave/cli/v2 the
// same way.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/core"
)

func main() {
	app := &cli.App{
		Name:  "blockfsctl",
		Usage: "format, check, and mount block-oriented file system images",
		Commands: []*cli.Command{
			formatCommand,
			fsckCommand,
			mountCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("blockfsctl: %s", err)
	}
}

var formatCommand = &cli.Command{
	Name:      "format",
	Usage:     "create a fresh image file",
	ArgsUsage: "IMAGE_PATH",
	Flags: []cli.Flag{
		&cli.UintFlag{Name: "blocks", Value: 1024, Usage: "total blocks in the new image (1 MiB image at BlockSize=1024 is 1024 blocks)"},
		&cli.UintFlag{Name: "inode-map-blocks", Value: uint(core.DefaultFormatOptions.InodeMapBlocks)},
		&cli.UintFlag{Name: "block-map-blocks", Value: uint(core.DefaultFormatOptions.BlockMapBlocks)},
		&cli.UintFlag{Name: "inode-table-blocks", Value: uint(core.DefaultFormatOptions.InodeRegionBlocks)},
	},
	Action: func(c *cli.Context) error {
		path := c.Args().First()
		if path == "" {
			return cli.Exit("format requires IMAGE_PATH", 1)
		}
		dev, err := blockdev.CreateFile(path, uint32(c.Uint("blocks")))
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer dev.Close()

		opts := core.FormatOptions{
			InodeMapBlocks:    uint32(c.Uint("inode-map-blocks")),
			BlockMapBlocks:    uint32(c.Uint("block-map-blocks")),
			InodeRegionBlocks: uint32(c.Uint("inode-table-blocks")),
		}
		if err := core.Format(dev, opts); err != nil {
			return cli.Exit(err, 1)
		}
		fmt.Printf("formatted %s: %d blocks\n", path, dev.NumBlocks())
		return nil
	},
}

var fsckCommand = &cli.Command{
	Name:      "fsck",
	Usage:     "scan an image for consistency violations",
	ArgsUsage: "IMAGE_PATH",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "report", Usage: "write violations as CSV to this path instead of stdout"},
	},
	Action: func(c *cli.Context) error {
		path := c.Args().First()
		if path == "" {
			return cli.Exit("fsck requires IMAGE_PATH", 1)
		}
		dev, err := blockdev.OpenFile(path)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer dev.Close()

		mount, err := core.Open(dev)
		if err != nil {
			return cli.Exit(err, 1)
		}

		report, scanErr := mount.Fsck()
		if err := writeFsckReport(report, c.String("report")); err != nil {
			return cli.Exit(err, 1)
		}
		if scanErr != nil {
			return cli.Exit(fmt.Sprintf("%d violation(s) found", len(report.Violations)), 2)
		}
		fmt.Println("no violations found")
		return nil
	},
}
