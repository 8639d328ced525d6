//go:build !fuse

package main

import "github.com/urfave/cli/v2"

var mountCommand = &cli.Command{
	Name:      "mount",
	Usage:     "mount an image over FUSE (requires building with -tags fuse)",
	ArgsUsage: "IMAGE_PATH MOUNTPOINT",
	Action: func(c *cli.Context) error {
		return cli.Exit("blockfsctl was built without FUSE support; rebuild with -tags fuse", 1)
	},
}
