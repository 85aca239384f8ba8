// Package cache provides the response cache used by registry clients.
//
// Two backends exist: a file-based cache for CLI usage and a null cache
// for tests or --refresh runs. Keys are opaque strings; values are raw
// bytes with an optional TTL.
package cache

import (
	"context"
	"time"
)

// Cache stores raw byte values under string keys with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any backend resources.
	Close() error
}
