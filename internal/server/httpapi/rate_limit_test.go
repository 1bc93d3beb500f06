package httpapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, RateLimiterConfig{RequestsPerSecond: 1, Burst: 1})
	now := time.Now()

	assert.True(t, rl.get("1.1.1.1", now).Allow())
	assert.False(t, rl.get("1.1.1.1", now).Allow())
	assert.True(t, rl.get("2.2.2.2", now).Allow())
}

func TestRateLimiter_Cleanup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, RateLimiterConfig{RequestsPerSecond: 1, Burst: 1, TTL: time.Minute, CleanupInterval: time.Hour})
	now := time.Now()

	rl.get("old", now.Add(-2*time.Minute))
	rl.get("fresh", now)
	rl.cleanup(now)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "old")
	assert.Contains(t, rl.visitors, "fresh")
}
