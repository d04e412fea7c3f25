package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/waterjuice/hexmirror/pkg/catalog"
	"github.com/waterjuice/hexmirror/pkg/config"
	"github.com/waterjuice/hexmirror/pkg/fetch"
	"github.com/waterjuice/hexmirror/pkg/manifest"
	"github.com/waterjuice/hexmirror/pkg/mirror"
)

func syncCmd() *cli.Command {
	return &cli.Command{
		Name:   "sync",
		Usage:  "download everything missing from the mirror",
		Flags:  planFlags(),
		Action: syncAction,
	}
}

func planFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "ignore the hexpm.json catalog cache",
		},
		&cli.StringSliceFlag{
			Name: "manifest",
			Usage: "installs manifest as name:prefix:suffix " +
				"(repeatable)",
		},
	}
}

func syncAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx := c.Context

	tasks, total, err := buildTasks(ctx, c, cfg)
	if err != nil {
		return err
	}

	fmt.Printf(
		"Downloading %d new files from %s (from total of %d)\n",
		len(tasks), cfg.RepoBase, total,
	)

	ex := &fetch.Executor{
		Client:  fetch.NewClient(fetch.DefaultOptions()),
		Workers: cfg.Downloads,
	}
	results, err := ex.Run(ctx, tasks)
	if err != nil {
		return err
	}

	sum := fetch.Summarize(results)
	fmt.Printf(
		"Done: %d fetched (%s), %d failed, %d skipped\n",
		sum.Fetched, humanBytes(sum.Bytes),
		sum.Failed, sum.Skipped,
	)
	if sum.Failed > 0 {
		fmt.Println(
			"Failed files stay missing and are retried " +
				"on the next run.",
		)
	}
	return nil
}

// buildTasks assembles the full download list: catalog diff,
// stale manifest files, and the always-fetched index files.
// total counts every file the catalog knows about, fetched
// or not.
func buildTasks(
	ctx context.Context,
	c *cli.Context,
	cfg config.Config,
) ([]mirror.Task, int, error) {
	pkgs, err := loadCatalog(ctx, c, cfg)
	if err != nil {
		return nil, 0, err
	}

	layout := mirror.Layout{Root: cfg.Root}
	remote := mirror.NewRemote(cfg.RepoBase)

	tasks := mirror.PlanCatalog(pkgs, remote, layout)
	slog.Debug("catalog plan", "tasks", len(tasks))

	specs, err := manifestSpecs(c, cfg)
	if err != nil {
		return nil, 0, err
	}
	resolver := &manifest.Resolver{
		Remote: remote,
		Layout: layout,
	}
	for _, spec := range specs {
		mts, err := resolver.Resolve(ctx, spec)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, mts...)
	}

	tasks = append(
		tasks, mirror.AuxiliaryTasks(remote, layout)...,
	)
	return tasks, catalog.TotalFiles(pkgs), nil
}

func loadCatalog(
	ctx context.Context,
	c *cli.Context,
	cfg config.Config,
) ([]catalog.Package, error) {
	cachePath := catalog.CachePath(cfg.Root)
	if !c.Bool("no-cache") {
		pkgs, ok, err := catalog.LoadCache(cachePath)
		if err != nil {
			return nil, err
		}
		if ok {
			fmt.Printf(
				"Using catalog cache %s (%d packages)\n",
				cachePath, len(pkgs),
			)
			return pkgs, nil
		}
	}

	client := catalog.New(cfg.APIBase)
	client.PageBatch = cfg.Pages
	pkgs, err := client.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Printf(
		"Fetched catalog: %d packages\n", len(pkgs),
	)
	return pkgs, nil
}

func manifestSpecs(
	c *cli.Context, cfg config.Config,
) ([]manifest.Spec, error) {
	raw := c.StringSlice("manifest")
	if len(raw) == 0 {
		return cfg.Manifests, nil
	}
	specs := make([]manifest.Spec, 0, len(raw))
	for _, s := range raw {
		spec, err := manifest.ParseSpec(s)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
