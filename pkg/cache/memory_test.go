package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	err := c.Set(ctx, "k", map[string]int{"floor": 42}, time.Minute)
	assert.NoError(t, err)

	var got map[string]int
	err = c.Get(ctx, "k", &got)
	assert.NoError(t, err)
	assert.Equal(t, 42, got["floor"])
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()

	var got string
	err := c.Get(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", "v", -time.Second))

	var got string
	err := c.Get(ctx, "k", &got)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))

	var got string
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
}
