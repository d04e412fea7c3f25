package manifest_test

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterjuice/hexmirror/pkg/fakerepo"
	"github.com/waterjuice/hexmirror/pkg/manifest"
	"github.com/waterjuice/hexmirror/pkg/mirror"
)

func digestOf(content string) string {
	sum := sha512.Sum512([]byte(content))
	return hex.EncodeToString(sum[:])
}

func newResolver(
	s *fakerepo.Server, root string,
) *manifest.Resolver {
	return &manifest.Resolver{
		Remote: mirror.NewRemote(s.RepoURL()),
		Layout: mirror.Layout{Root: root},
	}
}

var hexSpec = manifest.Spec{
	Name:   "hex-1.x",
	Prefix: "hex",
	Suffix: ".ez",
}

func TestResolveAllMissing(t *testing.T) {
	s := fakerepo.New()
	defer s.Close()
	s.SetFile("/installs/hex-1.x.csv", []byte(
		"2.0.6,"+digestOf("a")+",1.14.0\n"+
			"2.0.5,"+digestOf("b")+",1.13.0\n",
	))

	r := newResolver(s, t.TempDir())
	tasks, err := r.Resolve(context.Background(), hexSpec)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t,
		s.RepoURL()+"/installs/1.14.0/hex-2.0.6.ez",
		tasks[0].URL,
	)
	assert.True(t, strings.HasSuffix(
		tasks[0].Dest,
		filepath.Join("installs", "1.14.0", "hex-2.0.6.ez"),
	))
}

func TestResolveUpToDate(t *testing.T) {
	s := fakerepo.New()
	defer s.Close()
	s.SetFile("/installs/hex-1.x.csv", []byte(
		"2.0.6,"+digestOf("payload")+",1.14.0\n",
	))

	root := t.TempDir()
	dest := filepath.Join(
		root, "installs", "1.14.0", "hex-2.0.6.ez",
	)
	require.NoError(t,
		os.MkdirAll(filepath.Dir(dest), 0755),
	)
	require.NoError(t,
		os.WriteFile(dest, []byte("payload"), 0644),
	)

	r := newResolver(s, root)
	tasks, err := r.Resolve(context.Background(), hexSpec)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

// The same destination recorded under several digests is up
// to date when the disk content matches any one of them.
func TestResolveMultiHashAcceptance(t *testing.T) {
	s := fakerepo.New()
	defer s.Close()
	s.SetFile("/installs/hex-1.x.csv", []byte(
		"2.0.6,"+digestOf("old payload")+",1.14.0\n"+
			"2.0.6,"+digestOf("payload")+",1.14.0\n",
	))

	root := t.TempDir()
	dest := filepath.Join(
		root, "installs", "1.14.0", "hex-2.0.6.ez",
	)
	require.NoError(t,
		os.MkdirAll(filepath.Dir(dest), 0755),
	)
	require.NoError(t,
		os.WriteFile(dest, []byte("payload"), 0644),
	)

	r := newResolver(s, root)
	tasks, err := r.Resolve(context.Background(), hexSpec)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestResolveMismatchedFile(t *testing.T) {
	s := fakerepo.New()
	defer s.Close()
	s.SetFile("/installs/hex-1.x.csv", []byte(
		"2.0.6,"+digestOf("expected")+",1.14.0\n",
	))

	root := t.TempDir()
	dest := filepath.Join(
		root, "installs", "1.14.0", "hex-2.0.6.ez",
	)
	require.NoError(t,
		os.MkdirAll(filepath.Dir(dest), 0755),
	)
	require.NoError(t,
		os.WriteFile(dest, []byte("corrupt"), 0644),
	)

	r := newResolver(s, root)
	tasks, err := r.Resolve(context.Background(), hexSpec)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, dest, tasks[0].Dest)
}

func TestResolveFoldsDuplicateRows(t *testing.T) {
	s := fakerepo.New()
	defer s.Close()
	s.SetFile("/installs/hex-1.x.csv", []byte(
		"2.0.6,"+digestOf("a")+",1.14.0\n"+
			"2.0.6,"+digestOf("b")+",1.14.0\n"+
			"2.0.6,"+digestOf("c")+",1.14.0\n",
	))

	r := newResolver(s, t.TempDir())
	tasks, err := r.Resolve(context.Background(), hexSpec)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestResolveRejectsUnsafeVersion(t *testing.T) {
	s := fakerepo.New()
	defer s.Close()
	s.SetFile("/installs/hex-1.x.csv", []byte(
		"2.0.6,"+digestOf("a")+",../escape\n",
	))

	r := newResolver(s, t.TempDir())
	_, err := r.Resolve(context.Background(), hexSpec)
	assert.Error(t, err)
}

func TestResolveManifestFetchError(t *testing.T) {
	s := fakerepo.New()
	defer s.Close()

	r := newResolver(s, t.TempDir())
	_, err := r.Resolve(context.Background(), hexSpec)
	assert.Error(t, err)
}

func TestParseSpec(t *testing.T) {
	spec, err := manifest.ParseSpec("rebar-1.x:rebar:")
	require.NoError(t, err)
	assert.Equal(t, manifest.Spec{
		Name:   "rebar-1.x",
		Prefix: "rebar",
	}, spec)

	_, err = manifest.ParseSpec("nope")
	assert.Error(t, err)
}
