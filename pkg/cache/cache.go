// Package cache provides result caching for processed state-machine graphs.
//
// The processing pipeline is pure: the same raw document always yields the
// same canonical graph. That makes caller-side caching trivially correct -
// a cache key derived from the document's content is all the invalidation
// logic needed. This package supplies that key derivation plus three
// backends:
//
//   - file: directory-backed, for CLI usage
//   - redis: shared cache for server deployments
//   - null: disabled caching, for tests and one-shot runs
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	key := cache.DocumentKey(doc)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return decode(data)
//	}
//	// ... process and c.Set(ctx, key, encoded, ttl)
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys with optional TTL.
// Implementations must treat a missing key as (nil, false, nil), not an
// error.
type Cache interface {
	// Get retrieves a value. ok reports whether the key was present and
	// unexpired.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
