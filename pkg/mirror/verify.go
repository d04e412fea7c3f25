package mirror

import (
	"crypto/sha512"
	"encoding/hex"
	"io"
	"os"
	"strings"
)

// Verify reports whether the file at path exists and its
// SHA-512 digest equals the expected hex digest. A missing
// or unreadable file is a normal false, never an error.
func Verify(path, digest string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	h := sha512.New()
	if _, err := io.Copy(h, f); err != nil {
		return false
	}
	return strings.EqualFold(
		hex.EncodeToString(h.Sum(nil)), digest,
	)
}
