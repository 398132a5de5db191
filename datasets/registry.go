package datasets

import (
	"time"

	"dbconsole/utils"
)

// Registry hands out one Catalog per session ID. Catalogs idle for longer
// than the TTL are dropped and come back freshly seeded.
type Registry struct {
	cache *utils.MemoryCache
	ttl   time.Duration
}

// NewRegistry creates a registry. sweep is the eviction interval; zero
// leaves expired catalogs in place until they are next requested.
func NewRegistry(ttl, sweep time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Registry{cache: utils.NewMemoryCache(sweep), ttl: ttl}
}

// For returns the catalog of sessionID, creating it on first use
func (r *Registry) For(sessionID string) *Catalog {
	v := r.cache.GetOrCreate(sessionID, r.ttl, func() interface{} {
		return NewCatalog()
	})
	return v.(*Catalog)
}

// Drop discards the catalog of sessionID
func (r *Registry) Drop(sessionID string) {
	r.cache.Delete(sessionID)
}

// Len is the number of clients holding a catalog, expired ones included
// until the next sweep
func (r *Registry) Len() int {
	return r.cache.Size()
}

// Close stops the eviction sweeper
func (r *Registry) Close() {
	r.cache.Close()
}
