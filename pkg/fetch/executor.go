package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/waterjuice/hexmirror/pkg/mirror"
)

type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf(
		"download %s: status %d", e.URL, e.Status,
	)
}

type Executor struct {
	Client  *http.Client
	Workers int
	Output  io.Writer
}

// Run downloads every task with a fixed worker pool. All
// destination directories are created before any worker
// starts, so workers never race on directory creation.
// Individual task failures do not stop the run; each task
// gets one attempt and a failed file stays missing for the
// next invocation to pick up.
func (e *Executor) Run(
	ctx context.Context, tasks []mirror.Task,
) ([]mirror.Result, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	if err := createDirs(tasks); err != nil {
		return nil, err
	}

	workers := e.Workers
	if workers <= 0 {
		workers = 100
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	jobs := make(chan mirror.Task, len(tasks))
	resCh := make(chan mirror.Result, len(tasks))
	for _, t := range tasks {
		jobs <- t
	}
	close(jobs)

	var fetched atomic.Int64
	total := len(tasks)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				r := e.fetchOne(ctx, t)
				if r.Outcome == mirror.Fetched {
					n := fetched.Add(1)
					fmt.Fprintf(e.output(),
						"Downloaded [%d/%d]: %s\n",
						n, total, t.URL,
					)
				}
				resCh <- r
			}
		}()
	}
	wg.Wait()
	close(resCh)

	results := make([]mirror.Result, 0, total)
	for r := range resCh {
		results = append(results, r)
	}
	return results, nil
}

func (e *Executor) fetchOne(
	ctx context.Context, t mirror.Task,
) mirror.Result {
	if ctx.Err() != nil {
		return mirror.Result{
			Task:    t,
			Outcome: mirror.Skipped,
			Err:     ctx.Err(),
		}
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, t.URL, nil,
	)
	if err != nil {
		return failed(t, err)
	}

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return failed(t, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failed(t, &StatusError{
			URL:    t.URL,
			Status: resp.StatusCode,
		})
	}

	n, err := saveFile(t.Dest, resp.Body)
	if err != nil {
		return failed(t, err)
	}
	return mirror.Result{
		Task:    t,
		Outcome: mirror.Fetched,
		Bytes:   n,
	}
}

func failed(t mirror.Task, err error) mirror.Result {
	slog.Warn("download failed",
		"url", t.URL,
		"err", err,
	)
	return mirror.Result{
		Task:    t,
		Outcome: mirror.Failed,
		Err:     err,
	}
}

// saveFile writes the full body to dest, replacing any
// existing file. A short or failed write removes the partial
// file so a crash never leaves a corrupt artifact behind.
func saveFile(dest string, body io.Reader) (int64, error) {
	f, err := os.OpenFile(
		dest,
		os.O_CREATE|os.O_WRONLY|os.O_TRUNC,
		0644,
	)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dest, err)
	}

	n, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(dest)
		if copyErr != nil {
			return 0, fmt.Errorf(
				"write %s: %w", dest, copyErr,
			)
		}
		return 0, fmt.Errorf(
			"close %s: %w", dest, closeErr,
		)
	}
	return n, nil
}

func createDirs(tasks []mirror.Task) error {
	seen := make(map[string]bool)
	for _, t := range tasks {
		dir := filepath.Dir(t.Dest)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf(
				"create dir %s: %w", dir, err,
			)
		}
	}
	return nil
}

func (e *Executor) output() io.Writer {
	if e.Output != nil {
		return e.Output
	}
	return os.Stdout
}
