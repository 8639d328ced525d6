//go:build fuse

package main

import (
	"fmt"

	fusefs "github.com/hanwen/go-fuse/v2/fs"
	"github.com/urfave/cli/v2"

	"github.com/danreif/uvfs/blockdev"
	"github.com/danreif/uvfs/core"
	"github.com/danreif/uvfs/fuseadapter"
)

var mountCommand = &cli.Command{
	Name:      "mount",
	Usage:     "mount an image over FUSE (built with -tags fuse)",
	ArgsUsage: "IMAGE_PATH MOUNTPOINT",
	Action: func(c *cli.Context) error {
		imagePath := c.Args().Get(0)
		mountpoint := c.Args().Get(1)
		if imagePath == "" || mountpoint == "" {
			return cli.Exit("mount requires IMAGE_PATH MOUNTPOINT", 1)
		}

		dev, err := blockdev.OpenFile(imagePath)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer dev.Close()

		m, err := core.Open(dev)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer m.Unmount()

		server, err := fusefs.Mount(mountpoint, fuseadapter.Root(m), &fusefs.Options{})
		if err != nil {
			return cli.Exit(err, 1)
		}
		fmt.Printf("mounted %s at %s\n", imagePath, mountpoint)
		server.Wait()
		return nil
	},
}
