package ecs

import "sort"

// World owns every entity, every component store, and the ordered
// system list. Mutation of a given component kind is confined to the
// system that authors it (spec.md §5); World itself only arbitrates
// creation, destruction, and iteration.
type World struct {
	generations []uint32 // index -> current generation; len == next free slot
	freeList    []uint32
	destroyed   []Entity // pending destruction, in mark order

	systems []System

	// Component stores, declared in the order components.go §3
	// registers them. allStores walks this slice in reverse during
	// destruction so that Renderable (display handles) releases
	// before Transform, matching spec.md §4.2's "handles release
	// before transforms" requirement.
	Transforms   *Store[Transform]
	Kinematics   *Store[Kinematics]
	Colliders    *Store[Collider]
	Selectables  *Store[Selectable]
	Commandables *Store[Commandable]
	PathFollows  *Store[PathFollower]
	Harvesters   *Store[Harvester]
	ResourceNode *Store[ResourceNode]
	Healths      *Store[Health]
	Refineries   *Store[Refinery]
	Attackers    *Store[Attacker]
	Buildings    *Store[Building]
	Renderables  *Store[Renderable]

	allStores []anyStore

	// Economies is keyed by team id, not by entity; it is the
	// "named resource owned by the world" strategy from spec.md §9
	// for the Economy singleton rather than a component store, since
	// there is exactly one per team and no entity naturally owns it.
	Economies map[uint8]*Economy

	onDestroy []func(Entity)
}

// NewWorld creates an empty world with every component store
// initialized.
func NewWorld() *World {
	w := &World{
		generations:  make([]uint32, 1, 256), // slot 0 reserved, never allocated
		Transforms:   NewStore[Transform](),
		Kinematics:   NewStore[Kinematics](),
		Colliders:    NewStore[Collider](),
		Selectables:  NewStore[Selectable](),
		Commandables: NewStore[Commandable](),
		PathFollows:  NewStore[PathFollower](),
		Harvesters:   NewStore[Harvester](),
		ResourceNode: NewStore[ResourceNode](),
		Healths:      NewStore[Health](),
		Refineries:   NewStore[Refinery](),
		Attackers:    NewStore[Attacker](),
		Buildings:    NewStore[Building](),
		Renderables:  NewStore[Renderable](),
		Economies:    make(map[uint8]*Economy),
	}
	w.allStores = []anyStore{
		w.Transforms,
		w.Kinematics,
		w.Colliders,
		w.Selectables,
		w.Commandables,
		w.PathFollows,
		w.Harvesters,
		w.ResourceNode,
		w.Healths,
		w.Refineries,
		w.Attackers,
		w.Buildings,
		w.Renderables, // last: destroyed first, see field comment above
	}
	return w
}

// CreateEntity reserves a new entity id in O(1), reusing a freed slot
// (with bumped generation) when one is available.
func (w *World) CreateEntity() Entity {
	if n := len(w.freeList); n > 0 {
		idx := w.freeList[n-1]
		w.freeList = w.freeList[:n-1]
		return makeEntity(idx, w.generations[idx])
	}
	idx := uint32(len(w.generations))
	w.generations = append(w.generations, 0)
	return makeEntity(idx, 0)
}

// Alive reports whether e refers to the current occupant of its slot.
// A stale reference (destroyed, possibly reaped and reissued) resolves
// to false, never to the wrong entity.
func (w *World) Alive(e Entity) bool {
	idx := e.index()
	if idx == 0 || int(idx) >= len(w.generations) {
		return false
	}
	return w.generations[idx] == e.generation()
}

// DestroyEntity flags e for destruction. Removal is deferred to Reap,
// called once at the end of a tick after every system has run
// (spec.md §3 "Lifecycle").
func (w *World) DestroyEntity(e Entity) {
	if !w.Alive(e) {
		return
	}
	for _, d := range w.destroyed {
		if d == e {
			return // already marked this tick
		}
	}
	w.destroyed = append(w.destroyed, e)
}

// OnDestroy registers a callback invoked for every entity reaped,
// before its components are removed. Used by the spatial index to
// drop stale entries without every system importing ecs internals.
func (w *World) OnDestroy(fn func(Entity)) {
	w.onDestroy = append(w.onDestroy, fn)
}

// Reap removes every entity marked by DestroyEntity this tick, in the
// order they were marked, destroying each entity's components in
// reverse store-registration order (spec.md §3 invariant 1). The slot
// is returned to the free list with its generation bumped so Alive
// reports stale ids as not alive.
func (w *World) Reap() {
	if len(w.destroyed) == 0 {
		return
	}
	pending := w.destroyed
	w.destroyed = nil
	for _, e := range pending {
		if !w.Alive(e) {
			continue
		}
		for _, fn := range w.onDestroy {
			fn(e)
		}
		for i := len(w.allStores) - 1; i >= 0; i-- {
			w.allStores[i].removeComponent(e)
		}
		idx := e.index()
		w.generations[idx]++
		w.freeList = append(w.freeList, idx)
	}
}

// AddSystem registers a system, keeping the list ordered by Priority
// (lower runs first); equal priorities preserve registration order.
func (w *World) AddSystem(s System) {
	w.systems = append(w.systems, s)
	sort.SliceStable(w.systems, func(i, j int) bool {
		return w.systems[i].Priority() < w.systems[j].Priority()
	})
}

// Systems returns a snapshot of the ordered system list.
func (w *World) Systems() []System {
	out := make([]System, len(w.systems))
	copy(out, w.systems)
	return out
}

// Step runs every registered system once, in priority order, then
// reaps entities destroyed during the tick. This is the only place
// that sequences systems; Step never recurses or runs concurrently
// with itself (spec.md §5).
func (w *World) Step(dt float64) {
	for _, s := range w.Systems() {
		s.Update(w, dt)
	}
	w.Reap()
}

// Economy returns the named per-team economy singleton, creating it
// with zero balances on first access.
func (w *World) Economy(teamID uint8) *Economy {
	e, ok := w.Economies[teamID]
	if !ok {
		e = &Economy{TeamID: teamID}
		w.Economies[teamID] = e
	}
	return e
}
