package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quizmith/mcqs/internal/core/domain/question"
	"github.com/quizmith/mcqs/internal/core/ports"
)

// Cache key derivation. Kept as pure functions so distinct filters can never
// collide and every key stays reachable from the invalidation patterns below.

// questionListKey names the cache slot for one topic filter; the unfiltered
// listing gets its own fixed slot.
func questionListKey(topic string) string {
	if topic == "" {
		return "questions:all"
	}
	return "questions:" + topic
}

// questionKeyPattern matches every question listing entry.
func questionKeyPattern() string { return "questions:*" }

// fetchThrough is the cache-aside accessor: return the cached value when the
// key is present, otherwise invoke producer and store the result with ttl.
// Cache failures are never fatal — a read error counts as a miss and a write
// error only costs a recomputation on the next request. Producer errors
// propagate; there is no fallback value.
func fetchThrough[T any](c ports.Cache, ctx context.Context, key string, ttl time.Duration, logger *logrus.Logger, producer func() (T, error)) (T, error) {
	var zero T
	if c != nil {
		b, ok, err := c.Get(ctx, key)
		switch {
		case err != nil:
			if logger != nil {
				logger.WithError(err).WithField("key", key).Warn("cache read failed; treating as miss")
			}
		case ok:
			var v T
			if json.Unmarshal(b, &v) == nil {
				observeCacheLookup(key, "hit")
				return v, nil
			}
			if logger != nil {
				logger.WithField("key", key).Warn("cache entry undecodable; treating as miss")
			}
		}
		observeCacheLookup(key, "miss")
	}

	v, err := producer()
	if err != nil {
		return zero, err
	}

	if c != nil {
		if b, err := json.Marshal(v); err == nil {
			if err := c.Set(ctx, key, b, ttl); err != nil && logger != nil {
				logger.WithError(err).WithField("key", key).Warn("cache write failed; value served uncached")
			}
		}
	}
	return v, nil
}

// CachingQuestionRepository decorates a QuestionRepository with cache-aside
// reads and pattern-based invalidation on every write path.
type CachingQuestionRepository struct {
	inner  ports.QuestionRepository
	cache  ports.Cache
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCachingQuestionRepository(inner ports.QuestionRepository, cache ports.Cache, ttl time.Duration, logger *logrus.Logger) ports.QuestionRepository {
	return &CachingQuestionRepository{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachingQuestionRepository) List(ctx context.Context, topic string) ([]*question.Question, error) {
	return fetchThrough(c.cache, ctx, questionListKey(topic), c.ttl, c.logger, func() ([]*question.Question, error) {
		return c.inner.List(ctx, topic)
	})
}

// BulkInsert invalidates both the topic-scoped listing and the unfiltered
// one: a new question is visible in either view, so leaving "all" to lapse
// by TTL alone would serve a stale superset for up to a day.
func (c *CachingQuestionRepository) BulkInsert(ctx context.Context, topic string, drafts []question.Draft) (int, error) {
	count, err := c.inner.BulkInsert(ctx, topic, drafts)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx, questionListKey(topic))
	c.invalidate(ctx, questionListKey(""))
	return count, nil
}

func (c *CachingQuestionRepository) GetByID(ctx context.Context, id int64) (*question.Question, error) {
	// Single-record reads are rare (explanation path only) and go straight
	// to the source of truth.
	return c.inner.GetByID(ctx, id)
}

// UpdateExplanation invalidates every listing, since any cached view may
// embed the record whose explanation just changed.
func (c *CachingQuestionRepository) UpdateExplanation(ctx context.Context, id int64, explanation string, sources []string) error {
	if err := c.inner.UpdateExplanation(ctx, id, explanation, sources); err != nil {
		return err
	}
	c.invalidate(ctx, questionKeyPattern())
	return nil
}

// invalidate deletes matching keys best-effort; a failure only delays
// freshness until the entries' own TTL lapses.
func (c *CachingQuestionRepository) invalidate(ctx context.Context, pattern string) {
	if c.cache == nil {
		return
	}
	n, err := c.cache.DeletePattern(ctx, pattern)
	if err != nil {
		if c.logger != nil {
			c.logger.WithError(err).WithField("pattern", pattern).Warn("cache invalidation failed")
		}
		return
	}
	if n > 0 && c.logger != nil {
		c.logger.WithFields(logrus.Fields{"pattern": pattern, "deleted": n}).Debug("cache invalidated")
	}
}

var _ ports.QuestionRepository = (*CachingQuestionRepository)(nil)
