package mirror

import (
	"crypto/sha512"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digestOf(content string) string {
	sum := sha512.Sum512([]byte(content))
	return hex.EncodeToString(sum[:])
}

func TestVerifyMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t,
		os.WriteFile(path, []byte("hello"), 0644),
	)
	assert.True(t, Verify(path, digestOf("hello")))
}

func TestVerifyCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t,
		os.WriteFile(path, []byte("hello"), 0644),
	)
	upper := strings.ToUpper(digestOf("hello"))
	assert.True(t, Verify(path, upper))
}

func TestVerifyMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t,
		os.WriteFile(path, []byte("hello"), 0644),
	)
	assert.False(t, Verify(path, digestOf("other")))
}

func TestVerifyMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent")
	assert.False(t, Verify(path, digestOf("hello")))
}
