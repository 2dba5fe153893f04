package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalClient_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := New("", "", 0)
	defer c.Close()

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)

	value := []byte("v")
	assert.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'x'
	got, _ = c.Get(ctx, "k")
	assert.Equal(t, []byte("v"), got)

	assert.NoError(t, c.Delete(ctx, "k"))
	got, _ = c.Get(ctx, "k")
	assert.Nil(t, got)
}

func TestLocalClient_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewLocal()
	defer c.Close()

	_ = c.Set(ctx, "short", []byte("v"), 50*time.Millisecond)
	_ = c.Set(ctx, "forever", []byte("v"), 0)
	got, _ := c.Get(ctx, "short")
	assert.Equal(t, []byte("v"), got)

	assert.Eventually(t, func() bool {
		got, _ := c.Get(ctx, "short")
		return got == nil
	}, 2*time.Second, 10*time.Millisecond)

	got, _ = c.Get(ctx, "forever")
	assert.Equal(t, []byte("v"), got)
}

func TestLocalClient_EvictsWithoutReads(t *testing.T) {
	ctx := context.Background()
	c := NewLocal()
	defer c.Close()

	for i := 0; i < 10000; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("user:%d", i), []byte("cached"), 20*time.Millisecond))
	}
	require.NoError(t, c.Set(ctx, "pinned", []byte("cached"), 0))

	assert.Eventually(t, func() bool {
		return c.local.Len() == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestLocalClient_CloseTwice(t *testing.T) {
	c := NewLocal()
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestNilClient_FailsSafe(t *testing.T) {
	var c *Client
	ctx := context.Background()

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}
