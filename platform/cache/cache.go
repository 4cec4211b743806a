// Package cache holds compiled fragments for one worker.
//
// A Cache is owned by a single worker goroutine and is not synchronized.
// Entries are never evicted; the cache lives until the worker tears it down.
package cache

import "github.com/mintjams/go-nativeecma/internal/helpers"

// Option configures a Cache.
type Option func(*Cache)

// WithVerification controls whether entries also store a SHA-256 digest of
// their source and only hit when it matches. It is on by default; turning it
// off trusts the 64-bit key alone, so two fragments with colliding hashes
// would share an artifact.
func WithVerification(enabled bool) Option {
	return func(c *Cache) {
		c.verify = enabled
	}
}

type entry struct {
	name     string
	digest   string
	artifact any
}

// Cache maps fragment hashes to opaque compiled artifacts.
type Cache struct {
	entries map[uint64]entry
	verify  bool

	hits       uint64
	misses     uint64
	collisions uint64
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[uint64]entry),
		verify:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the artifact stored under key. Artifacts embed the resource
// name they were compiled under, so an entry recorded for another name is a
// miss. With verification enabled, an entry recorded for a different source
// also counts as a miss and as a collision.
func (c *Cache) Lookup(key uint64, name, source string) (any, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.verify && e.digest != helpers.Digest(source) {
		c.collisions++
		c.misses++
		return nil, false
	}
	if e.name != name {
		c.misses++
		return nil, false
	}
	c.hits++
	return e.artifact, true
}

// Store inserts or replaces the artifact for key. An entry holding the same
// source under another name is kept: the first name to compile a source owns
// its slot.
func (c *Cache) Store(key uint64, name, source string, artifact any) {
	e := entry{name: name, artifact: artifact}
	if c.verify {
		e.digest = helpers.Digest(source)
	}
	if old, ok := c.entries[key]; ok && old.name != name && old.digest == e.digest {
		return
	}
	c.entries[key] = e
}

func (c *Cache) Len() int {
	return len(c.entries)
}

// Clear drops every entry and resets the counters.
func (c *Cache) Clear() {
	clear(c.entries)
	c.hits, c.misses, c.collisions = 0, 0, 0
}

// Stats is a snapshot of the cache counters.
type Stats struct {
	Entries    int
	Hits       uint64
	Misses     uint64
	Collisions uint64
}

func (c *Cache) Stats() Stats {
	return Stats{
		Entries:    len(c.entries),
		Hits:       c.hits,
		Misses:     c.misses,
		Collisions: c.collisions,
	}
}
