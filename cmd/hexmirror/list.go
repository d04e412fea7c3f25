package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/waterjuice/hexmirror/pkg/catalog"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name: "list",
		Usage: "fetch the full catalog and save it as " +
			catalog.CacheName,
		Action: listAction,
	}
}

func listAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	client := catalog.New(cfg.APIBase)
	client.PageBatch = cfg.Pages
	pkgs, err := client.FetchAll(c.Context)
	if err != nil {
		return err
	}
	for i := range pkgs {
		catalog.SortReleases(&pkgs[i])
	}

	path := catalog.CachePath(cfg.Root)
	if err := catalog.SaveCache(path, pkgs); err != nil {
		return err
	}

	fmt.Printf(
		"Saved %d packages (%d files) to %s\n",
		len(pkgs), catalog.TotalFiles(pkgs), path,
	)
	fmt.Println(
		"sync will use this file while it exists.",
	)
	return nil
}
