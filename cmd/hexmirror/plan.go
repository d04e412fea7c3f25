package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/waterjuice/hexmirror/pkg/mirror"
)

func planCmd() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "show what sync would download",
		Flags: append(planFlags(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "JSON output",
			},
		),
		Action: planAction,
	}
}

type planJSON struct {
	Tasks   []planTask  `json:"tasks"`
	Summary planSummary `json:"summary"`
}

type planTask struct {
	URL  string `json:"url"`
	Dest string `json:"dest"`
}

type planSummary struct {
	TaskCount  int `json:"task_count"`
	TotalFiles int `json:"total_files"`
}

func planAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	tasks, total, err := buildTasks(c.Context, c, cfg)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return printPlanJSON(tasks, total)
	}

	for _, t := range tasks {
		fmt.Printf("  + %s\n", t.Dest)
	}
	fmt.Printf(
		"%d to download (catalog holds %d files)\n",
		len(tasks), total,
	)
	return nil
}

func printPlanJSON(tasks []mirror.Task, total int) error {
	out := planJSON{
		Tasks: make([]planTask, 0, len(tasks)),
		Summary: planSummary{
			TaskCount:  len(tasks),
			TotalFiles: total,
		},
	}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, planTask{
			URL:  t.URL,
			Dest: t.Dest,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
