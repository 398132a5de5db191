package utils

import (
	"sync"
	"time"
)

// CacheItem represents a cached item with expiration
type CacheItem struct {
	Value      interface{}
	Expiration time.Time
}

// MemoryCache provides in-memory caching with sliding expiration
type MemoryCache struct {
	items map[string]*CacheItem
	mu    sync.RWMutex
	done  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a new memory cache whose expired entries are
// swept every interval. An interval of zero disables the sweeper.
func NewMemoryCache(interval time.Duration) *MemoryCache {
	cache := &MemoryCache{
		items: make(map[string]*CacheItem),
		done:  make(chan struct{}),
	}

	if interval > 0 {
		go cache.cleanupLoop(interval)
	}

	return cache
}

// Set stores a value in cache with expiration
func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &CacheItem{
		Value:      value,
		Expiration: time.Now().Add(ttl),
	}
}

// Get retrieves a value from cache
func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Now().After(item.Expiration) {
		c.Delete(key)
		return nil, false
	}
	return item.Value, true
}

// GetOrCreate returns the live value for key, creating it with create
// when missing. The entry's expiration is pushed out to now+ttl either way.
func (c *MemoryCache) GetOrCreate(key string, ttl time.Duration, create func() interface{}) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	item, exists := c.items[key]
	if !exists || now.After(item.Expiration) {
		item = &CacheItem{Value: create()}
		c.items[key] = item
	}
	item.Expiration = now.Add(ttl)
	return item.Value
}

// Delete removes an item from cache
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear removes all items from cache
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]*CacheItem)
	c.mu.Unlock()
}

// Close stops the sweeper goroutine
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.done) })
}

// cleanupLoop periodically removes expired items
func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.done:
			return
		}
	}
}

// cleanup removes expired items
func (c *MemoryCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.items {
		if now.After(item.Expiration) {
			delete(c.items, key)
		}
	}
}

// Size returns the number of items in cache
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Has checks if a key exists in cache
func (c *MemoryCache) Has(key string) bool {
	_, exists := c.Get(key)
	return exists
}

// Keys returns all keys in cache
func (c *MemoryCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}

	return keys
}
