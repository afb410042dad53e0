package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/quizmith/mcqs/configs"
	impl "github.com/quizmith/mcqs/internal/application/services"
	"github.com/quizmith/mcqs/test/mocks"
)

func limiterConfig() *configs.RateLimitConfig {
	return &configs.RateLimitConfig{
		KeyPrefix: "ratelimit",
		Questions: configs.RateLimitPolicy{Limit: 3, Window: time.Minute},
		Explain:   configs.RateLimitPolicy{Limit: 15, Window: 24 * time.Hour},
		Chat:      configs.RateLimitPolicy{Limit: 35, Window: 24 * time.Hour},
		Visit:     configs.RateLimitPolicy{Limit: 30, Window: time.Minute},
	}
}

// countingRepo simulates the atomic counter store in memory.
type countingRepo struct {
	counts map[string]int64
}

func (r *countingRepo) mock() *mocks.RateLimitRepositoryMock {
	return &mocks.RateLimitRepositoryMock{
		IncrementWindowFn: func(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
			r.counts[key]++
			return r.counts[key], window, nil
		},
	}
}

func TestCheck_ConsumesBudgetThenDenies(t *testing.T) {
	repo := &countingRepo{counts: map[string]int64{}}
	svc := impl.NewRateLimiterService(repo.mock(), limiterConfig(), logrus.New())

	ctx := context.Background()
	expected := []struct {
		allowed   bool
		remaining int
	}{
		{true, 2},
		{true, 1},
		{true, 0},
		{false, 0},
	}
	for i, want := range expected {
		d := svc.Check(ctx, "questions", "1.2.3.4")
		require.Equal(t, want.allowed, d.Allowed, "request %d", i+1)
		require.Equal(t, want.remaining, d.Remaining, "request %d", i+1)
		require.Equal(t, 3, d.Limit)
	}
}

func TestCheck_ClientsAndEndpointsAreIndependent(t *testing.T) {
	repo := &countingRepo{counts: map[string]int64{}}
	svc := impl.NewRateLimiterService(repo.mock(), limiterConfig(), logrus.New())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.True(t, svc.Check(ctx, "questions", "1.2.3.4").Allowed)
	}
	require.False(t, svc.Check(ctx, "questions", "1.2.3.4").Allowed)

	// Another client and another endpoint still have full budgets.
	require.True(t, svc.Check(ctx, "questions", "5.6.7.8").Allowed)
	require.True(t, svc.Check(ctx, "explain", "1.2.3.4").Allowed)
}

func TestCheck_FailsOpenOnStoreError(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{
		IncrementWindowFn: func(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
			return 0, 0, errors.New("redis down")
		},
	}
	svc := impl.NewRateLimiterService(repo, limiterConfig(), logrus.New())

	d := svc.Check(context.Background(), "questions", "1.2.3.4")
	require.True(t, d.Allowed)
	require.Equal(t, 3, d.Remaining)
}

func TestCheck_UnknownEndpointUsesFallbackPolicy(t *testing.T) {
	repo := &countingRepo{counts: map[string]int64{}}
	svc := impl.NewRateLimiterService(repo.mock(), limiterConfig(), logrus.New())

	d := svc.Check(context.Background(), "nonexistent", "1.2.3.4")
	require.True(t, d.Allowed)
	require.Equal(t, 3, d.Limit)
}

func TestCheck_ResetAtReflectsTTL(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{
		IncrementWindowFn: func(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
			return 1, 30 * time.Second, nil
		},
	}
	svc := impl.NewRateLimiterService(repo, limiterConfig(), logrus.New())

	before := time.Now()
	d := svc.Check(context.Background(), "questions", "1.2.3.4")
	require.True(t, d.Allowed)
	require.WithinDuration(t, before.Add(30*time.Second), d.ResetAt, 2*time.Second)
}
