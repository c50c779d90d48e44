package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func writeCorrupt(path string) error {
	return os.WriteFile(path, []byte("not json"), 0644)
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestArtifactKey(t *testing.T) {
	spec := []byte(`{"mark": "bar"}`)

	k1 := ArtifactKey(spec, "svg")
	k2 := ArtifactKey(spec, "svg")
	if k1 != k2 {
		t.Error("ArtifactKey should be deterministic")
	}

	// Different formats produce different keys
	k3 := ArtifactKey(spec, "png")
	if k1 == k3 {
		t.Error("Different formats should produce different keys")
	}

	// Different specs produce different keys
	k4 := ArtifactKey([]byte(`{"mark": "rect"}`), "svg")
	if k1 == k4 {
		t.Error("Different specs should produce different keys")
	}

	if !strings.HasPrefix(k1, "artifact:svg:") {
		t.Errorf("ArtifactKey unexpected format: %s", k1)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()

	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get should miss before Set")
	}

	// Set then hit
	if err := c.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get should hit after Set")
	}
	if string(data) != "value1" {
		t.Errorf("Get returned wrong data: %s", data)
	}

	// Delete
	if err := c.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key1")
	if hit {
		t.Error("Get should miss after Delete")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of missing key should not error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()

	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Negative TTL produces an already-expired entry
	if err := c.Set(ctx, "expired", []byte("old"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, err := c.Get(ctx, "expired")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Expired entry should be a miss")
	}

	// Zero TTL never expires
	if err := c.Set(ctx, "forever", []byte("data"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "forever")
	if !hit {
		t.Error("Entry with zero TTL should not expire")
	}
}

func TestFileCacheClearAndSize(t *testing.T) {
	ctx := context.Background()

	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	fc := c.(*FileCache)

	entries, bytes, err := fc.Size()
	if err != nil {
		t.Fatalf("Size error: %v", err)
	}
	if entries != 0 || bytes != 0 {
		t.Errorf("Empty cache should have zero size: %d entries, %d bytes", entries, bytes)
	}

	if err := c.Set(ctx, "a", []byte("aaa"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := c.Set(ctx, "b", []byte("bbb"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	entries, bytes, err = fc.Size()
	if err != nil {
		t.Fatalf("Size error: %v", err)
	}
	if entries != 2 {
		t.Errorf("Size should report 2 entries, got %d", entries)
	}
	if bytes == 0 {
		t.Error("Size should report non-zero bytes")
	}

	if err := fc.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	entries, _, err = fc.Size()
	if err != nil {
		t.Fatalf("Size error: %v", err)
	}
	if entries != 0 {
		t.Errorf("Clear should remove all entries, %d remain", entries)
	}
	_, hit, _ := c.Get(ctx, "a")
	if hit {
		t.Error("Get should miss after Clear")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Corrupt the stored entry on disk
	fc := c.(*FileCache)
	if err := writeCorrupt(fc.path("key")); err != nil {
		t.Fatalf("corrupting entry: %v", err)
	}

	// Corrupt entry is treated as a miss, not an error
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Corrupt entry should be a miss")
	}
}
