package ports

import (
	"context"
	"time"

	"github.com/quizmith/mcqs/internal/core/domain/limiter"
)

// RateLimitRepository provides the low-level atomic counter operations for
// rate limiting. It abstracts storage (e.g., Redis). Implementations must be
// concurrency-safe; the store serializes increments on the same key.
type RateLimitRepository interface {
	// IncrementWindow atomically increments the counter for key. The window
	// expiry is set exactly once, on the 0→1 transition; later increments
	// within the window leave it untouched. Returns the post-increment count
	// and the key's remaining time-to-live.
	IncrementWindow(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

// RateLimiterService decides whether a request identified by (endpoint,
// client) may proceed. Implementations encapsulate algorithm, storage and
// per-endpoint policies, and MUST be safe for concurrent use.
//
// A store failure never surfaces to callers: the limiter fails open and the
// returned decision reports the full budget as remaining.
type RateLimiterService interface {
	Check(ctx context.Context, endpoint, clientID string) limiter.Decision
}
