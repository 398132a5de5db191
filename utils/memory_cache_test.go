package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()

	c.Set("a", 1, time.Hour)
	c.Set("b", 2, -time.Second)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Size())
	assert.True(t, c.Has("a"))
}

func TestMemoryCacheGetOrCreate(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()

	calls := 0
	create := func() interface{} {
		calls++
		return calls
	}

	first := c.GetOrCreate("sess", time.Hour, create)
	second := c.GetOrCreate("sess", time.Hour, create)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 1, calls)

	c.Delete("sess")
	third := c.GetOrCreate("sess", time.Hour, create)
	assert.Equal(t, 2, third)
}

func TestMemoryCacheCleanup(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()

	c.Set("old", "x", -time.Minute)
	c.Set("new", "y", time.Minute)
	c.cleanup()

	assert.Equal(t, []string{"new"}, c.Keys())
	c.Clear()
	assert.Zero(t, c.Size())
}
