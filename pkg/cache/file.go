package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores rendered artifacts (SVG, PNG, PDF bytes) on disk, one
// file per key under a hash-sharded directory tree. It is the default
// backend for CLI usage, where renders of unchanged documents are the
// common case across invocations.
type FileCache struct {
	dir string
}

// NewFileCache opens an artifact cache rooted at dir, creating it if
// needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// artifactFile is the on-disk envelope around one cached render.
type artifactFile struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get returns the artifact stored under key. Entries that are expired or
// unreadable count as misses and are removed.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var af artifactFile
	if err := json.Unmarshal(raw, &af); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !af.ExpiresAt.IsZero() && time.Now().After(af.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return af.Data, true, nil
}

// Set stores an artifact under key. A zero ttl keeps it until the
// document's content hash stops matching and the entry goes cold.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	af := artifactFile{Data: data}
	if ttl > 0 {
		af.ExpiresAt = time.Now().Add(ttl)
	}

	raw, err := json.Marshal(af)
	if err != nil {
		return err
	}
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0600)
}

// Delete removes the artifact stored under key, if any.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file backend.
func (c *FileCache) Close() error {
	return nil
}

// path shards keys by the first two hash characters so a long-lived cache
// does not pile every artifact into one directory.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
