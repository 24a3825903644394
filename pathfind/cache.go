package pathfind

import "container/list"

// cacheKey identifies a cached path by its endpoints and the grid
// version it was computed against (spec.md §4.5).
type cacheKey struct {
	Start, Goal Cell
	Version     uint64
}

type cacheEntry struct {
	key        cacheKey
	path       []Cell
	insertedAt float64
}

// TTL is how long a cached path remains servable after being computed,
// in addition to invalidation on grid-version bump (spec.md §4.5:
// cached entries are held "for one simulation second"). Measured in
// simulation time advanced via Advance, not wall-clock time, so replay
// determinism doesn't depend on how fast a tick actually ran.
const TTL = 1.0

// Cache is a small bounded LRU of recent path results, invalidated
// wholesale whenever the grid version changes (a building was placed
// or destroyed), and per-entry once TTL simulation-seconds have
// elapsed since it was computed. No LRU library appears anywhere in
// the retrieved corpus, so this is hand-rolled from container/list +
// map, the standard idiom for an LRU in Go (see DESIGN.md).
type Cache struct {
	capacity int
	ll       *list.List // front = most recently used
	index    map[cacheKey]*list.Element
	version  uint64
	now      float64
}

// NewCache creates an LRU cache holding at most capacity entries.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 256
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		index:    make(map[cacheKey]*list.Element),
	}
}

// Invalidate drops every cached entry and adopts newVersion. Called
// when the grid's version counter advances.
func (c *Cache) Invalidate(newVersion uint64) {
	if newVersion == c.version {
		return
	}
	c.version = newVersion
	c.ll.Init()
	c.index = make(map[cacheKey]*list.Element)
}

// Advance moves the cache's internal simulation clock forward by dt,
// the same per-tick delta the movement system steps entities by.
// Called once per tick; Get measures TTL against this clock rather
// than wall time.
func (c *Cache) Advance(dt float64) {
	c.now += dt
}

// Get returns the cached path for (start, goal) at the cache's
// current grid version, if present and not yet past TTL, promoting it
// to most-recently-used. An expired entry is evicted and reported as
// a miss.
func (c *Cache) Get(start, goal Cell) ([]Cell, bool) {
	key := cacheKey{Start: start, Goal: goal, Version: c.version}
	el, ok := c.index[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*cacheEntry)
	if c.now-entry.insertedAt >= TTL {
		c.ll.Remove(el)
		delete(c.index, key)
		return nil, false
	}
	c.ll.MoveToFront(el)
	return entry.path, true
}

// Put stores path for (start, goal) at the cache's current grid
// version and simulation time, evicting the least-recently-used entry
// if at capacity.
func (c *Cache) Put(start, goal Cell, path []Cell) {
	key := cacheKey{Start: start, Goal: goal, Version: c.version}
	if el, ok := c.index[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.path = path
		entry.insertedAt = c.now
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&cacheEntry{key: key, path: path, insertedAt: c.now})
	c.index[key] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.index, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return c.ll.Len() }
