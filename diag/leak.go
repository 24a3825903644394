// Package diag provides the memory-discipline leak detector spec.md
// §4.12 calls for: a periodic comparison of live-entity counts
// against spatial-index sizes, flagging divergence as a likely bug
// (a destroyed entity whose spatial entry was never removed, or vice
// versa).
package diag

import (
	"github.com/rs/zerolog/log"

	"github.com/lixenwraith/rts-core/ecs"
	"github.com/lixenwraith/rts-core/spatial"
)

// LiveCounter reports a count the detector can compare against the
// spatial index; ecs.World satisfies this via an adapter supplied by
// the caller since World has no single "entity count" method (it
// tracks slots, not a dense count).
type LiveCounter interface {
	Len() int
}

// entityCounter adapts a *ecs.World's Selectables/Colliders store (or
// any other store expected to mirror the spatial index 1:1) into a
// LiveCounter.
type entityCounter struct{ store interface{ Count() int } }

func (c entityCounter) Len() int { return c.store.Count() }

// CounterFromStore wraps any ecs.Store-like type (must expose Count())
// as a LiveCounter for Report/Check.
func CounterFromStore(store interface{ Count() int }) LiveCounter {
	return entityCounter{store: store}
}

// Report is one leak-detector sample.
type Report struct {
	LiveEntities int
	IndexedItems int
	Diverged     bool
}

// Check compares live's count against index's size, logging (and
// returning) a diverged report if they differ. More indexed items
// than live entities means the index holds stale entries for entities
// destroyed without their spatial entry being removed; fewer means
// some live entity never made it into the index.
func Check(live LiveCounter, index *spatial.Tree) Report {
	liveCount := live.Len()
	indexCount := index.Len()
	r := Report{LiveEntities: liveCount, IndexedItems: indexCount, Diverged: liveCount != indexCount}
	if r.Diverged {
		log.Warn().
			Int("live_entities", liveCount).
			Int("indexed_items", indexCount).
			Msg("diag: live entity count and spatial index size diverged")
	}
	return r
}

// CheckWorld is a convenience wrapper for the common case of
// comparing every Collider-bearing entity (the set movement keeps in
// sync with index) against index.
func CheckWorld(w *ecs.World, index *spatial.Tree) Report {
	return Check(CounterFromStore(w.Colliders), index)
}
