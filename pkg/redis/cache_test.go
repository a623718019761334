package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopCache(t *testing.T) {
	cache := NewNoopCache()
	ctx := context.Background()

	assert.NoError(t, cache.Set(ctx, "stats", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	assert.ErrorIs(t, cache.Get(ctx, "stats", &out), ErrCacheMiss)
	assert.Nil(t, out)
	assert.NoError(t, cache.Delete(ctx, "stats"))
}

func TestBlacklist_NoClientIsNoop(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, BlacklistToken(ctx, "token", time.Minute))
	revoked, err := IsTokenBlacklisted(ctx, "token")
	assert.NoError(t, err)
	assert.False(t, revoked)
}
