package manifest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/waterjuice/hexmirror/pkg/mirror"
)

// Spec names one installs manifest: the CSV index under
// installs/<Name>.csv, and how its rows map to file names
// (Prefix-<toolVersion>Suffix).
type Spec struct {
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

func (s Spec) String() string {
	return fmt.Sprintf(
		"%s:%s:%s", s.Name, s.Prefix, s.Suffix,
	)
}

// ParseSpec reads the name:prefix:suffix flag form.
func ParseSpec(s string) (Spec, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return Spec{}, fmt.Errorf(
			"invalid manifest %q (want name:prefix:suffix)",
			s,
		)
	}
	return Spec{
		Name:   parts[0],
		Prefix: parts[1],
		Suffix: parts[2],
	}, nil
}

type row struct {
	toolVersion string
	digest      string
	langVersion string
}

type uniqueFile struct {
	dest    string
	url     string
	digests []string
}

type Resolver struct {
	Remote     mirror.Remote
	Layout     mirror.Layout
	HTTPClient *http.Client
}

// Resolve fetches the manifest and returns tasks for every
// referenced file whose local copy matches none of the
// digests recorded for its path. The same path can appear in
// several rows with different digests across manifest
// revisions; any one match means the file is current.
func (r *Resolver) Resolve(
	ctx context.Context, spec Spec,
) ([]mirror.Task, error) {
	rows, err := r.fetchRows(ctx, spec)
	if err != nil {
		return nil, err
	}

	files, err := foldRows(spec, rows, r.Remote, r.Layout)
	if err != nil {
		return nil, fmt.Errorf(
			"manifest %s: %w", spec.Name, err,
		)
	}

	var tasks []mirror.Task
	for _, f := range files {
		if anyDigestMatches(f.dest, f.digests) {
			continue
		}
		tasks = append(tasks, mirror.Task{
			URL:  f.url,
			Dest: f.dest,
		})
	}
	slog.Debug("manifest resolved",
		"manifest", spec.Name,
		"files", len(files),
		"stale", len(tasks),
	)
	return tasks, nil
}

func (r *Resolver) fetchRows(
	ctx context.Context, spec Spec,
) ([]row, error) {
	url := r.Remote.FileURL(
		"installs/" + spec.Name + ".csv",
	)
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, url, nil,
	)
	if err != nil {
		return nil, err
	}
	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(
			"fetch manifest %s: %w", spec.Name, err,
		)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf(
			"fetch manifest %s: status %d",
			url, resp.StatusCode,
		)
	}
	return parseRows(resp.Body)
}

// Rows are headerless: toolVersion,digest,langVersion.
func parseRows(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var rows []row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse manifest: %w", err)
		}
		if len(record) < 3 {
			return nil, fmt.Errorf(
				"manifest row has %d fields, want 3",
				len(record),
			)
		}
		rows = append(rows, row{
			toolVersion: strings.TrimSpace(record[0]),
			digest:      strings.TrimSpace(record[1]),
			langVersion: strings.TrimSpace(record[2]),
		})
	}
	return rows, nil
}

func foldRows(
	spec Spec,
	rows []row,
	remote mirror.Remote,
	layout mirror.Layout,
) ([]*uniqueFile, error) {
	byDest := make(map[string]*uniqueFile)
	var order []*uniqueFile

	for _, rw := range rows {
		if err := mirror.ValidateSegment(
			rw.toolVersion,
		); err != nil {
			return nil, fmt.Errorf("tool version: %w", err)
		}
		if err := mirror.ValidateSegment(
			rw.langVersion,
		); err != nil {
			return nil, fmt.Errorf("lang version: %w", err)
		}

		name := spec.Prefix + "-" + rw.toolVersion + spec.Suffix
		dest := layout.InstallPath(rw.langVersion, name)

		f, ok := byDest[dest]
		if !ok {
			f = &uniqueFile{
				dest: dest,
				url: remote.InstallURL(
					rw.langVersion, name,
				),
			}
			byDest[dest] = f
			order = append(order, f)
		}
		f.digests = append(f.digests, rw.digest)
	}
	return order, nil
}

func anyDigestMatches(dest string, digests []string) bool {
	for _, d := range digests {
		if mirror.Verify(dest, d) {
			return true
		}
	}
	return false
}
