package mirror

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutPaths(t *testing.T) {
	l := Layout{Root: "mirror"}
	assert.Equal(t,
		filepath.Join("mirror", "packages", "phoenix"),
		l.PackagePath("phoenix"),
	)
	assert.Equal(t,
		filepath.Join(
			"mirror", "tarballs", "phoenix-1.7.0.tar",
		),
		l.TarballPath("phoenix", "1.7.0"),
	)
	assert.Equal(t,
		filepath.Join(
			"mirror", "installs", "1.14.0", "hex-2.0.6.ez",
		),
		l.InstallPath("1.14.0", "hex-2.0.6.ez"),
	)
}

func TestRemoteURLs(t *testing.T) {
	r := NewRemote("https://repo.hex.pm/")
	assert.Equal(t,
		"https://repo.hex.pm/packages/phoenix",
		r.PackageURL("phoenix"),
	)
	assert.Equal(t,
		"https://repo.hex.pm/tarballs/phoenix-1.7.0.tar",
		r.TarballURL("phoenix", "1.7.0"),
	)
	assert.Equal(t,
		"https://repo.hex.pm/installs/1.14.0/hex-2.0.6.ez",
		r.InstallURL("1.14.0", "hex-2.0.6.ez"),
	)
	assert.Equal(t,
		"https://repo.hex.pm/names",
		r.FileURL("names"),
	)
}

func TestValidateSegment(t *testing.T) {
	assert.NoError(t, ValidateSegment("1.14.0"))
	assert.NoError(t, ValidateSegment("hex-2.0.6.ez"))

	assert.Error(t, ValidateSegment(""))
	assert.Error(t, ValidateSegment("."))
	assert.Error(t, ValidateSegment(".."))
	assert.Error(t, ValidateSegment("a/b"))
	assert.Error(t, ValidateSegment(`a\b`))
	assert.Error(t, ValidateSegment("a\x00b"))
}
