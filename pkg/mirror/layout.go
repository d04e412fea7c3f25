package mirror

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Layout maps repository files onto the local mirror root.
type Layout struct {
	Root string
}

func (l Layout) PackagePath(name string) string {
	return filepath.Join(l.Root, "packages", name)
}

func (l Layout) TarballPath(name, version string) string {
	return filepath.Join(
		l.Root, "tarballs",
		fmt.Sprintf("%s-%s.tar", name, version),
	)
}

func (l Layout) InstallPath(langVersion, file string) string {
	return filepath.Join(
		l.Root, "installs", langVersion, file,
	)
}

func (l Layout) FilePath(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}

// Remote builds origin URLs for the same files.
type Remote struct {
	Base string
}

func NewRemote(base string) Remote {
	return Remote{Base: strings.TrimSuffix(base, "/")}
}

func (r Remote) PackageURL(name string) string {
	return r.Base + "/packages/" + name
}

func (r Remote) TarballURL(name, version string) string {
	return fmt.Sprintf(
		"%s/tarballs/%s-%s.tar", r.Base, name, version,
	)
}

func (r Remote) InstallURL(langVersion, file string) string {
	return fmt.Sprintf(
		"%s/installs/%s/%s", r.Base, langVersion, file,
	)
}

func (r Remote) FileURL(rel string) string {
	return r.Base + "/" + rel
}

// ValidateSegment rejects values that cannot be spliced into
// a path as a single component. Used on fields read from
// remote manifests before they reach the filesystem.
func ValidateSegment(s string) error {
	if s == "" {
		return fmt.Errorf("empty path segment")
	}
	if strings.ContainsRune(s, 0) {
		return fmt.Errorf("segment contains null byte")
	}
	if strings.ContainsAny(s, "/\\") {
		return fmt.Errorf(
			"segment contains separator: %s", s,
		)
	}
	if path.Clean(s) != s || s == "." || s == ".." {
		return fmt.Errorf("unsafe segment: %s", s)
	}
	return nil
}
