package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quizmith/mcqs/configs"
	"github.com/quizmith/mcqs/internal/core/domain/limiter"
	"github.com/quizmith/mcqs/internal/core/ports"
)

// RateLimiterService enforces per-endpoint request budgets on a shared
// counter store. Unknown endpoints fall back to the questions policy, the
// tightest one configured.
type RateLimiterService struct {
	repo      ports.RateLimitRepository
	policies  map[string]limiter.Policy
	fallback  limiter.Policy
	keyPrefix string
	logger    *logrus.Logger
}

func NewRateLimiterService(repo ports.RateLimitRepository, cfg *configs.RateLimitConfig, logger *logrus.Logger) *RateLimiterService {
	kp := "ratelimit"
	policies := map[string]limiter.Policy{}
	fallback := limiter.Policy{Limit: 2, Window: time.Minute}
	if cfg != nil {
		if cfg.KeyPrefix != "" {
			kp = cfg.KeyPrefix
		}
		policies["questions"] = limiter.Policy{Limit: cfg.Questions.Limit, Window: cfg.Questions.Window}
		policies["explain"] = limiter.Policy{Limit: cfg.Explain.Limit, Window: cfg.Explain.Window}
		policies["chat"] = limiter.Policy{Limit: cfg.Chat.Limit, Window: cfg.Chat.Window}
		policies["visit"] = limiter.Policy{Limit: cfg.Visit.Limit, Window: cfg.Visit.Window}
		fallback = policies["questions"]
	}
	return &RateLimiterService{repo: repo, policies: policies, fallback: fallback, keyPrefix: kp, logger: logger}
}

// Check consumes one request unit for (endpoint, clientID). The counter
// store is authoritative for allow/deny; if it is unreachable the limiter
// fails open, reporting the full budget and an estimated reset.
func (s *RateLimiterService) Check(ctx context.Context, endpoint, clientID string) limiter.Decision {
	policy, ok := s.policies[endpoint]
	if !ok {
		policy = s.fallback
	}
	key := fmt.Sprintf("%s:%s:%s", s.keyPrefix, endpoint, clientID)
	now := time.Now()

	count, ttl, err := s.repo.IncrementWindow(ctx, key, policy.Window)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{"endpoint": endpoint, "client": clientID}).Warn("rate limiter store unreachable; failing open")
		}
		return limiter.Decision{Allowed: true, Limit: policy.Limit, Remaining: policy.Limit, Window: policy.Window, ResetAt: now.Add(policy.Window)}
	}

	reset := now.Add(ttl)
	if count > int64(policy.Limit) {
		return limiter.Decision{Allowed: false, Limit: policy.Limit, Remaining: 0, Window: policy.Window, ResetAt: reset}
	}
	return limiter.Decision{Allowed: true, Limit: policy.Limit, Remaining: policy.Limit - int(count), Window: policy.Window, ResetAt: reset}
}

var _ ports.RateLimiterService = (*RateLimiterService)(nil)
