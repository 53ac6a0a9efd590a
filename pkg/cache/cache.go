// Package cache provides render artifact caching.
//
// Rendering is deterministic: the same document bytes always produce the
// same SVG, and the same SVG at the same scale always produces the same
// PNG. That makes rendered artifacts safe to cache by content hash, which
// is what this package keys on.
//
// Backends:
//   - file: directory of entry files, for CLI usage
//   - redis: shared cache for multi-instance deployments
//   - null: no-op, for tests and disabled caching
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.RenderKey(cache.Hash(docJSON), "png", 2.0)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data, nil
//	}
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is the interface for artifact cache backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// RenderKey builds the key for a rendered artifact of a document.
// docHash is the content hash of the document JSON.
func RenderKey(docHash, format string, scale float64) string {
	return hashKey("render", docHash, format, scale)
}

// ThumbnailKey builds the key for a document thumbnail.
func ThumbnailKey(docHash string) string {
	return hashKey("thumb", docHash)
}
