package building

import (
	"testing"

	"github.com/lixenwraith/rts-core/ecs"
	"github.com/lixenwraith/rts-core/events"
	"github.com/lixenwraith/rts-core/gridmap"
)

func TestPlaceCommitsFootprintAndEmitsBuildingPlaced(t *testing.T) {
	w := ecs.NewWorld()
	g := gridmap.New(8, 8)
	q := events.NewQueue()
	e := w.CreateEntity()
	f := gridmap.Footprint{X: 1, Y: 1, Width: 2, Height: 2}

	if ok := Place(w, g, q, e, f); !ok {
		t.Fatalf("expected Place to succeed on a blank grid")
	}
	if g.CanPlace(f) {
		t.Fatalf("expected footprint cells to be impassable after Place")
	}
	if !w.Buildings.Has(e) {
		t.Fatalf("expected a Building component recorded on e")
	}

	evs := q.Consume()
	if len(evs) != 1 || evs[0].Type != events.BuildingPlaced {
		t.Fatalf("expected exactly one BuildingPlaced event, got %+v", evs)
	}
	payload := evs[0].Payload.(events.BuildingPayload)
	if payload.Entity != e.Raw() || len(payload.Cells) != 4 {
		t.Fatalf("unexpected BuildingPlaced payload: %+v", payload)
	}
}

func TestPlaceRejectsOverlapWithExistingImpassableCell(t *testing.T) {
	w := ecs.NewWorld()
	g := gridmap.New(8, 8)
	q := events.NewQueue()
	g.SetPassable(1, 1, false)
	e := w.CreateEntity()

	ok := Place(w, g, q, e, gridmap.Footprint{X: 0, Y: 0, Width: 2, Height: 2})
	if ok {
		t.Fatalf("expected Place to reject an overlapping footprint")
	}
	if w.Buildings.Has(e) {
		t.Fatalf("expected no Building component recorded on a rejected placement")
	}
	if len(q.Consume()) != 0 {
		t.Fatalf("expected no event emitted on a rejected placement")
	}
}

func TestDestroyRestoresPassabilityAndEmitsBuildingDestroyed(t *testing.T) {
	w := ecs.NewWorld()
	g := gridmap.New(8, 8)
	q := events.NewQueue()
	e := w.CreateEntity()
	f := gridmap.Footprint{X: 2, Y: 2, Width: 1, Height: 1}
	Place(w, g, q, e, f)
	q.Consume() // drain the Placed event

	Destroy(w, g, q, e)
	if !g.CanPlace(f) {
		t.Fatalf("expected footprint cells to be passable again after Destroy")
	}

	evs := q.Consume()
	if len(evs) != 1 || evs[0].Type != events.BuildingDestroyed {
		t.Fatalf("expected exactly one BuildingDestroyed event, got %+v", evs)
	}
}

func TestDestroyOnUnplacedEntityIsNoop(t *testing.T) {
	w := ecs.NewWorld()
	g := gridmap.New(8, 8)
	q := events.NewQueue()
	e := w.CreateEntity()

	Destroy(w, g, q, e)
	if len(q.Consume()) != 0 {
		t.Fatalf("expected no event for an entity that was never placed")
	}
}
