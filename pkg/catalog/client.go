package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type RemoteUnavailableError struct {
	URL    string
	Status int
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf(
		"catalog %s: status %d", e.URL, e.Status,
	)
}

type MalformedEntryError struct {
	Page   int
	Index  int
	Reason string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf(
		"catalog page %d entry %d: %s",
		e.Page, e.Index, e.Reason,
	)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	PageBatch  int
	RetryPause time.Duration
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: http.DefaultClient,
		PageBatch:  25,
		RetryPause: time.Second,
	}
}

// FetchAll walks the paginated package list until the first
// empty page. Pages are requested in batches of PageBatch;
// within the batch that contains the first empty page, any
// later pages are discarded, so the catalog is treated as
// ending at the first gap.
func (c *Client) FetchAll(
	ctx context.Context,
) ([]Package, error) {
	batch := c.PageBatch
	if batch <= 0 {
		batch = 1
	}

	var all []Package
	for start := 1; ; start += batch {
		pages := make([][]Package, batch)
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < batch; i++ {
			i := i
			g.Go(func() error {
				pg, err := c.FetchPage(gctx, start+i)
				if err != nil {
					return err
				}
				pages[i] = pg
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, pg := range pages {
			if len(pg) == 0 {
				return all, nil
			}
			all = append(all, pg...)
		}
	}
}

// FetchPage requests a single catalog page. A 429 response
// pauses for RetryPause and retries the same page, without
// an attempt limit. Any other non-2xx status is fatal.
func (c *Client) FetchPage(
	ctx context.Context, page int,
) ([]Package, error) {
	url := fmt.Sprintf(
		"%s/packages?page=%d", c.BaseURL, page,
	)
	for {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodGet, url, nil,
		)
		if err != nil {
			return nil, err
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf(
				"fetch page %d: %w", page, err,
			)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			slog.Debug("rate limited",
				"page", page,
				"pause", c.RetryPause,
			)
			if err := sleep(ctx, c.RetryPause); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, &RemoteUnavailableError{
				URL:    url,
				Status: resp.StatusCode,
			}
		}

		var records []Package
		err = json.NewDecoder(resp.Body).Decode(&records)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf(
				"parse page %d: %w", page, err,
			)
		}

		if err := validatePage(page, records); err != nil {
			return nil, err
		}

		slog.Debug("catalog page",
			"page", page,
			"packages", len(records),
		)
		return records, nil
	}
}

func validatePage(page int, records []Package) error {
	for i, p := range records {
		if p.Name == "" {
			return &MalformedEntryError{
				Page:   page,
				Index:  i,
				Reason: "missing package name",
			}
		}
		if strings.ContainsAny(p.Name, "/\\") {
			return &MalformedEntryError{
				Page:   page,
				Index:  i,
				Reason: "package name is not a path segment",
			}
		}
		for _, r := range p.Releases {
			if r.Version == "" {
				return &MalformedEntryError{
					Page:   page,
					Index:  i,
					Reason: "release with empty version",
				}
			}
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
