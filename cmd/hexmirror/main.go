package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/waterjuice/hexmirror/pkg/config"
)

const appVersion = "1.0.0"

func main() {
	app := &cli.App{
		Name:  "hexmirror",
		Usage: "mirror repo.hex.pm onto local storage",
		Before: func(c *cli.Context) error {
			configureLogging(c.Bool("verbose"))
			return nil
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "mirror root directory",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file",
			},
			&cli.StringFlag{
				Name:  "api",
				Usage: "catalog API base URL",
			},
			&cli.StringFlag{
				Name:  "repo",
				Usage: "file host base URL",
			},
			&cli.IntFlag{
				Name:  "downloads",
				Usage: "file download workers",
			},
			&cli.IntFlag{
				Name:  "pages",
				Usage: "catalog page workers",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "verbose output",
			},
		},
		Commands: []*cli.Command{
			syncCmd(),
			planCmd(),
			listCmd(),
			doctorCmd(),
			{
				Name:  "version",
				Usage: "print version",
				Action: func(c *cli.Context) error {
					fmt.Println(appVersion)
					return nil
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}),
	))
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		fc, err := config.LoadFromFile(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fc
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}
	cfg = cfg.Merge(config.Config{
		Root:      c.String("dir"),
		APIBase:   c.String("api"),
		RepoBase:  c.String("repo"),
		Downloads: c.Int("downloads"),
		Pages:     c.Int("pages"),
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf(
			"%.1f GB", float64(n)/(1<<30),
		)
	case n >= 1<<20:
		return fmt.Sprintf(
			"%.1f MB", float64(n)/(1<<20),
		)
	case n >= 1<<10:
		return fmt.Sprintf(
			"%.1f KB", float64(n)/(1<<10),
		)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
