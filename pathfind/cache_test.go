package pathfind

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCachePutThenGetRoundTrips(t *testing.T) {
	c := NewCache(4)
	path := []Cell{{0, 0}, {1, 1}}
	c.Put(Cell{0, 0}, Cell{1, 1}, path)

	got, ok := c.Get(Cell{0, 0}, Cell{1, 1})
	if !ok || len(got) != 2 {
		t.Fatalf("expected cached path to round-trip, got %+v ok=%v", got, ok)
	}
}

func TestCacheInvalidateOnVersionChangeDropsEntries(t *testing.T) {
	c := NewCache(4)
	c.Put(Cell{0, 0}, Cell{1, 1}, []Cell{{0, 0}, {1, 1}})
	c.Invalidate(1)

	if _, ok := c.Get(Cell{0, 0}, Cell{1, 1}); ok {
		t.Fatalf("expected cache entry to be gone after version bump")
	}
	if c.Len() != 0 {
		t.Fatalf("expected cache to be empty after invalidation, Len()=%d", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsedAtCapacity(t *testing.T) {
	c := NewCache(2)
	c.Put(Cell{0, 0}, Cell{1, 0}, []Cell{{0, 0}, {1, 0}})
	c.Put(Cell{0, 0}, Cell{2, 0}, []Cell{{0, 0}, {2, 0}})
	// Touch the first entry so the second becomes the LRU victim.
	c.Get(Cell{0, 0}, Cell{1, 0})
	c.Put(Cell{0, 0}, Cell{3, 0}, []Cell{{0, 0}, {3, 0}})

	_, evicted := c.Get(Cell{0, 0}, Cell{2, 0})
	require.Falsef(t, evicted, "expected the least-recently-used entry to be evicted")

	_, survived := c.Get(Cell{0, 0}, Cell{1, 0})
	require.Truef(t, survived, "expected the recently-touched entry to survive eviction")

	require.Equalf(t, 2, c.Len(), "expected cache to stay at capacity")
}

func TestCacheInvalidateToSameVersionIsNoop(t *testing.T) {
	c := NewCache(4)
	c.Put(Cell{0, 0}, Cell{1, 1}, []Cell{{0, 0}, {1, 1}})
	c.Invalidate(0) // cache starts at version 0
	if _, ok := c.Get(Cell{0, 0}, Cell{1, 1}); !ok {
		t.Fatalf("expected entry to survive invalidation to the same version")
	}
}

func TestCacheEntrySurvivesUntilJustBeforeTTL(t *testing.T) {
	c := NewCache(4)
	c.Put(Cell{0, 0}, Cell{1, 1}, []Cell{{0, 0}, {1, 1}})
	c.Advance(TTL - 0.01)

	_, ok := c.Get(Cell{0, 0}, Cell{1, 1})
	require.Truef(t, ok, "expected entry to still be servable just under the TTL")
}

func TestCacheEntryExpiresAtTTL(t *testing.T) {
	c := NewCache(4)
	c.Put(Cell{0, 0}, Cell{1, 1}, []Cell{{0, 0}, {1, 1}})
	c.Advance(TTL)

	_, ok := c.Get(Cell{0, 0}, Cell{1, 1})
	require.Falsef(t, ok, "expected entry to expire once TTL simulation-seconds have elapsed")
	require.Equalf(t, 0, c.Len(), "expected the expired entry removed from the cache")
}

func TestCacheAdvanceAppliesAcrossPutsNotJustSinceLastGet(t *testing.T) {
	c := NewCache(4)
	c.Put(Cell{0, 0}, Cell{1, 0}, []Cell{{0, 0}, {1, 0}})
	c.Advance(TTL / 2)
	c.Put(Cell{0, 0}, Cell{2, 0}, []Cell{{0, 0}, {2, 0}}) // fresher entry, same Advance clock
	c.Advance(TTL / 2)

	_, firstStillFresh := c.Get(Cell{0, 0}, Cell{1, 0})
	require.Falsef(t, firstStillFresh, "expected the older entry to have expired")

	_, secondStillFresh := c.Get(Cell{0, 0}, Cell{2, 0})
	require.Truef(t, secondStillFresh, "expected the entry computed half a TTL later to still be fresh")
}
