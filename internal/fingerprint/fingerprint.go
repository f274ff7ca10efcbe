// Package fingerprint derives a short, stable identity hash for a file
// from its path and modification time. The hash is metadata-only: it
// detects touched or replaced files cheaply, not content rewrites that
// preserve the mtime.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Missing is returned when the file cannot be stat'd. Downstream logic
// treats a missing fingerprint as "file absent or changed" rather than
// an error, so deletion races degrade to a re-parse.
const Missing = "missing"

// hashLen is the truncated hex length of a fingerprint.
const hashLen = 16

// File returns the fingerprint for a path, or Missing on any stat failure.
func File(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return Missing
	}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", path, info.ModTime().UnixNano())))
	return hex.EncodeToString(sum[:])[:hashLen]
}
