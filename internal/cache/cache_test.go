package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	c, err := NewLRU[string, int](2)
	require.NoError(t, err)

	c.Set("key1", 1)
	got, found := c.Get("key1")
	require.True(t, found)
	assert.Equal(t, 1, got)

	_, found = c.Get("nonexistent")
	assert.False(t, found)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.InDelta(t, 0.5, stats.HitRate(), 0.0001)
}

func TestLRUEviction(t *testing.T) {
	c, err := NewLRU[string, int](2)
	require.NoError(t, err)

	c.Set("key1", 1)
	c.Set("key2", 2)
	c.Set("key3", 3) // evicts key1

	_, found := c.Get("key1")
	assert.False(t, found, "key1 should be evicted")
	_, found = c.Get("key2")
	assert.True(t, found)
	assert.Equal(t, 2, c.Len())
}

func TestLRUGetOrLoad(t *testing.T) {
	c, err := NewLRU[string, string](0)
	require.NoError(t, err)

	calls := 0
	load := func() (string, error) {
		calls++
		return "loaded", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("mod", load)
		require.NoError(t, err)
		assert.Equal(t, "loaded", v)
	}
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, err = c.GetOrLoad("broken", func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	_, found := c.Get("broken")
	assert.False(t, found, "failed loads must not be cached")
}

func TestLRUClearAndDelete(t *testing.T) {
	c, err := NewLRU[int, int](4)
	require.NoError(t, err)

	c.Set(1, 1)
	c.Set(2, 2)
	c.Delete(1)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Equal(t, "hits=0 misses=0 entries=0", c.Stats().String())
}
