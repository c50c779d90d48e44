package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKey builds the cache key for a rendered artifact. Two renders
// produce the same key exactly when both the specification JSON and the
// output format are identical.
// The key format is: artifact:format:hash(spec)
func ArtifactKey(spec []byte, format string) string {
	return fmt.Sprintf("artifact:%s:%s", format, Hash(spec))
}
