package ports

import (
	"context"
	"time"
)

// Cache defines the key-value store primitives the cache-aside path needs.
// Implementations should degrade gracefully (returning an error without
// crashing callers) so that application logic can fall back to the primary
// datastore.
type Cache interface {
	// Get returns the raw bytes for key. ok=false if not found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with TTL (0 or negative means no expiration if supported).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePattern removes every key matching the glob-style pattern and
	// returns how many were deleted. A pattern matching nothing is a no-op.
	DeletePattern(ctx context.Context, pattern string) (int, error)
}
