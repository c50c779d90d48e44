// Package cache provides a byte cache for rendered chart artifacts.
//
// Image export shells out to the external vl-convert binary, which is by far
// the slowest step of the pipeline. Artifacts are cached keyed by a SHA-256
// hash of the exact specification JSON plus the output format, so a cache hit
// is always byte-equivalent to a fresh conversion.
//
// Two implementations exist:
//   - FileCache: entries stored as files under a directory, for CLI usage
//   - NullCache: a no-op used when caching is disabled
//
// The spec JSON itself is never cached: producing it is pure and cheap.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the default retention for rendered artifacts. Keys embed a
// hash of the spec, so stale entries are never served, only left on disk.
const TTLArtifact = 30 * 24 * time.Hour

// Cache is the interface for artifact cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL (zero means no expiration).
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
