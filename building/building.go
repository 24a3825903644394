// Package building commits and releases grid footprints on behalf of
// an entity (spec.md §4.4, §6 "place_building"), emitting
// BuildingPlaced/BuildingDestroyed so the game shell can react.
package building

import (
	"github.com/lixenwraith/rts-core/ecs"
	"github.com/lixenwraith/rts-core/events"
	"github.com/lixenwraith/rts-core/gridmap"
)

// Place validates f against grid, commits it, and records it on e's
// Building component. It reports false and leaves the grid unchanged
// if f cannot be placed (spec.md §4.4: "validates... before
// committing").
func Place(world *ecs.World, grid *gridmap.Grid, queue *events.Queue, e ecs.Entity, f gridmap.Footprint) bool {
	if !world.Alive(e) || !grid.CanPlace(f) {
		return false
	}
	grid.Place(f)
	world.Buildings.Add(e, ecs.Building{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height})
	emit(queue, events.Event{
		Type:    events.BuildingPlaced,
		Payload: events.BuildingPayload{Entity: e.Raw(), Cells: f.Cells()},
	})
	return true
}

// Destroy restores e's footprint to passable and emits
// BuildingDestroyed. It is a no-op if e was never placed through
// Place. Callers that also want the entity gone still need to call
// ecs.World.DestroyEntity separately; Destroy only undoes the grid
// and event side of placement.
func Destroy(world *ecs.World, grid *gridmap.Grid, queue *events.Queue, e ecs.Entity) {
	if !world.Buildings.Has(e) {
		return
	}
	b := world.Buildings.MustGet(e)
	f := gridmap.Footprint{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
	grid.ClearFootprint(f)
	emit(queue, events.Event{
		Type:    events.BuildingDestroyed,
		Payload: events.BuildingPayload{Entity: e.Raw(), Cells: f.Cells()},
	})
}

func emit(queue *events.Queue, ev events.Event) {
	if queue != nil {
		queue.Push(ev)
	}
}
