// Package rescache is the single-flight coordinate cache: for each
// dependency notation key, at most one initializer runs at a time, and every
// concurrent caller for that key observes the same cleaned POM once it
// succeeds. A failed initializer is not cached; it runs again for the next
// caller (see cmap.ErrMap.GetOrInit). It is a thin domain wrapper over cmap.ErrMap, not a
// reimplementation of its single-flight mechanics.
package rescache

import (
	"github.com/javaorbit/orbit/src/cmap"
	"github.com/javaorbit/orbit/src/pom"
)

// A Cache maps a coordinate notation ("group:artifact:version") to its
// cleaned (or, for parent-chain lookups, merged-but-uncleaned) Pom.
type Cache struct {
	m *cmap.ErrMap[string, *pom.Pom]
}

// New constructs an empty cache sharded for concurrent access.
func New() *Cache {
	return &Cache{m: cmap.NewErrMap[string, *pom.Pom](cmap.DefaultShardCount, cmap.XXHash)}
}

// Get returns the Pom currently cached for key without blocking, or nil if
// nothing has been cached for it yet (whether because nobody has asked, or
// because an initializer is still running).
func (c *Cache) Get(key string) *pom.Pom {
	v, _ := c.m.Get(key)
	return v
}

// GetOrInit returns the cached Pom for key, running init to produce it if
// this call is the first to observe the key missing. Concurrent callers for
// the same key block until the first caller's init returns and, if it
// succeeded, all then receive its value - see cmap.ErrMap.GetOrInit for the
// full single-flight contract, including that a failed init is retried by
// the next caller rather than cached forever, and that a waiter woken by a
// failed init may run init again itself instead of receiving that error.
func (c *Cache) GetOrInit(key string, init func() (*pom.Pom, error)) (*pom.Pom, error) {
	return c.m.GetOrInit(key, init)
}
