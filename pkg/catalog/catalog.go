package catalog

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

type Package struct {
	Name     string    `json:"name"`
	Releases []Release `json:"releases"`
}

type Release struct {
	Version string `json:"version"`
}

func TotalFiles(pkgs []Package) int {
	n := 0
	for _, p := range pkgs {
		n++
		n += len(p.Releases)
	}
	return n
}

// SortReleases orders releases newest first. Hex versions
// are semver; anything that fails to parse sorts after the
// parseable versions, by plain string comparison.
func SortReleases(p *Package) {
	sort.SliceStable(p.Releases, func(i, j int) bool {
		vi, ei := semver.NewVersion(p.Releases[i].Version)
		vj, ej := semver.NewVersion(p.Releases[j].Version)
		if ei == nil && ej == nil {
			return vi.GreaterThan(vj)
		}
		if ei == nil {
			return true
		}
		if ej == nil {
			return false
		}
		return p.Releases[i].Version > p.Releases[j].Version
	})
}
