// Package ecs implements the entity/component/system substrate that
// drives the simulation: stable entity identity with generation
// counters, typed component stores, an ordered system registry, and
// deferred destruction reaped at the end of a tick.
package ecs

// Entity is a stable identifier packing a 32-bit slot index in the low
// bits and a 32-bit generation counter in the high bits. A slot is
// reused after destruction but its generation is bumped, so a stale
// Entity value held by another component never aliases the new
// occupant of the same slot.
type Entity uint64

// Invalid is the zero Entity; no live entity is ever assigned it.
const Invalid Entity = 0

func makeEntity(index, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

func (e Entity) index() uint32 {
	return uint32(e)
}

func (e Entity) generation() uint32 {
	return uint32(e >> 32)
}

// Raw exposes the packed uint64 for callers (spatial, events) that
// must type-erase an Entity to avoid importing this package.
func (e Entity) Raw() uint64 { return uint64(e) }

// FromRaw reconstructs an Entity from a value previously obtained via
// Raw.
func FromRaw(v uint64) Entity { return Entity(v) }
