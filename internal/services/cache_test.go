package services

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestCacheServiceWithoutRedisIsNoOp(t *testing.T) {
	cache := NewCacheService(nil, logrus.New())
	ctx := context.Background()

	assert.False(t, cache.Enabled())
	assert.NoError(t, cache.Set(ctx, "k", "v", time.Minute))

	var dest string
	assert.False(t, cache.Get(ctx, "k", &dest))
	assert.NoError(t, cache.Delete(ctx, "k"))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "events:NFL:2025:6:c1", EventsCacheKey("NFL", "2025", "6", "c1"))
	assert.Equal(t, "analytics:JOSH_ALLEN_1_NFL:Passing Yards", AnalyticsCacheKey("JOSH_ALLEN_1_NFL", "Passing Yards"))
	assert.Equal(t, "top:NFL:Receptions:over:25", TopPerformersCacheKey("NFL", "Receptions", "over", 25))
}
