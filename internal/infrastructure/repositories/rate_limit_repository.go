package repositories

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimitRedisRepository implements rate limiting counter storage with Redis.
type RateLimitRedisRepository struct {
	r redis.Cmdable
}

func NewRateLimitRedisRepository(r redis.Cmdable) *RateLimitRedisRepository {
	return &RateLimitRedisRepository{r: r}
}

// IncrementWindow increments the counter for key and, only on the 0→1
// transition, arms the window expiry. The TTL is read back afterwards so the
// caller can report an absolute reset time; if the key expires between the
// increment and the TTL read the fallback is a full window, which only skews
// the reported reset, never the count.
func (repo *RateLimitRedisRepository) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := repo.r.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := repo.r.Expire(ctx, key, window).Err(); err != nil {
			return count, window, err
		}
	}
	ttl, err := repo.r.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return count, ttl, nil
}
