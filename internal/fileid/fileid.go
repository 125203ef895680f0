// Package fileid provides a deterministic document ID from a corpus file path.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "doc:"

// DocID returns a stable document ID for the given path. The path is cleaned and
// converted to forward slashes first, so the same file yields the same ID on
// every platform and every restart.
func DocID(path string) string {
	normalized := filepath.ToSlash(filepath.Clean(path))
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:8])
}
