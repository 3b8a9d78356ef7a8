package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoPieceCacheFastModeHitMiss(t *testing.T) {
	c, err := NewTwoPieceCache(64)
	require.NoError(t, err)

	pos := Position{Square0: 4, Moves0: 1, Square1: 60, Moves1: 2}
	assert.False(t, c.Hit(pos))
	c.Add(pos)
	assert.True(t, c.Hit(pos))

	other := Position{Square0: 4, Moves0: 1, Square1: 60, Moves1: 3}
	assert.False(t, c.Hit(other))
}

func TestTwoPieceCacheFullModeStoresBestBound(t *testing.T) {
	c, err := NewTwoPieceCache(64)
	require.NoError(t, err)

	pos := Position{Square0: 10, Moves0: 0, Square1: 20, Moves1: 0}
	_, _, ok := c.HitFull(pos)
	assert.False(t, ok)

	c.AddFull(pos, 5, true)
	required, shortcut, ok := c.HitFull(pos)
	require.True(t, ok)
	assert.Equal(t, 5, required)
	assert.True(t, shortcut)

	c.AddFull(pos, 3, false)
	required, shortcut, ok = c.HitFull(pos)
	require.True(t, ok)
	assert.Equal(t, 3, required)
	assert.False(t, shortcut)
}

func TestTwoPieceCacheRejectsPathologicalCapacity(t *testing.T) {
	_, err := NewTwoPieceCache(1 << 30)
	assert.Error(t, err)
}

func TestObjectCacheLoadsOnceAndCaches(t *testing.T) {
	loads := 0
	oc := New[string, int]()

	load := func(key string) (int, error) {
		loads++
		return len(key), nil
	}

	v1, err := oc.Get("hello", load)
	require.NoError(t, err)
	assert.Equal(t, 5, v1)

	v2, err := oc.Get("hello", load)
	require.NoError(t, err)
	assert.Equal(t, 5, v2)
	assert.Equal(t, 1, loads)
}
