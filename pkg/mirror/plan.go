package mirror

import (
	"os"

	"github.com/waterjuice/hexmirror/pkg/catalog"
)

// PlanCatalog cross-references the catalog against local
// disk. A missing tarball marks its package dirty; a dirty
// package gets its metadata file redownloaded even when that
// file is already present, since its release list changed.
func PlanCatalog(
	pkgs []catalog.Package,
	remote Remote,
	layout Layout,
) []Task {
	var tasks []Task
	for _, p := range pkgs {
		dirty := false
		for _, r := range p.Releases {
			dest := layout.TarballPath(p.Name, r.Version)
			if fileExists(dest) {
				continue
			}
			tasks = append(tasks, Task{
				URL:  remote.TarballURL(p.Name, r.Version),
				Dest: dest,
			})
			dirty = true
		}
		pkgFile := layout.PackagePath(p.Name)
		if dirty || !fileExists(pkgFile) {
			tasks = append(tasks, Task{
				URL:  remote.PackageURL(p.Name),
				Dest: pkgFile,
			})
		}
	}
	return tasks
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
