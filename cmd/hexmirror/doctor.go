package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/waterjuice/hexmirror/pkg/catalog"
)

func doctorCmd() *cli.Command {
	return &cli.Command{
		Name:   "doctor",
		Usage:  "verify origin connectivity and the mirror root",
		Action: doctorAction,
	}
}

func doctorAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	fmt.Printf("Mirror root: %s\n", cfg.Root)

	client := catalog.New(cfg.APIBase)
	page, err := client.FetchPage(c.Context, 1)
	if err != nil {
		fmt.Printf("  Catalog API: FAIL (%v)\n", err)
		return fmt.Errorf("catalog check failed")
	}
	fmt.Printf(
		"  Catalog API: ok (%d packages on page 1)\n",
		len(page),
	)

	resp, err := http.Head(cfg.RepoBase + "/names")
	if err != nil {
		fmt.Printf("  File host: FAIL (%v)\n", err)
		return fmt.Errorf("file host check failed")
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf(
			"  File host: FAIL (status %d)\n",
			resp.StatusCode,
		)
		return fmt.Errorf("file host check failed")
	}
	fmt.Printf("  File host: ok\n")

	if err := checkWritable(cfg.Root); err != nil {
		fmt.Printf("  Mirror root: FAIL (%v)\n", err)
		return fmt.Errorf("mirror root check failed")
	}
	fmt.Printf("  Mirror root: writable\n")

	fmt.Println("\nAll checks passed.")
	return nil
}

func checkWritable(root string) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return err
	}
	probe := filepath.Join(root, ".hexmirror-doctor")
	if err := os.WriteFile(
		probe, []byte("ok"), 0644,
	); err != nil {
		return err
	}
	return os.Remove(probe)
}
