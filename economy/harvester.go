// Package economy implements the harvester/economy finite state
// machine and per-team credit ledger (spec.md §4.8):
// Idle -> SeekingResource -> Harvesting -> ReturningToRefinery ->
// Unloading -> SeekingResource, with per_bail/capacity accounting and
// deterministic nearest-node/refinery tie-breaks (lower entity id
// wins on equal distance).
package economy

import (
	"math"

	"github.com/lixenwraith/rts-core/ecs"
	"github.com/lixenwraith/rts-core/events"
	"github.com/lixenwraith/rts-core/gridmap"
)

// DefaultCapacity and DefaultPerBail are the "authentic" balance
// values spec.md §4.8 names explicitly.
const (
	DefaultCapacity = 700
	DefaultPerBail  = 25
)

// HarvestInterval is how often a harvesting unit removes one
// per_bail increment from its target node (spec.md §4.8, "e.g. every
// 0.5s").
const HarvestInterval = 0.5

// UnloadInterval is how often an unloading unit transfers one
// per_bail increment into its team's economy.
const UnloadInterval = 0.25

// arrivalEps is how close a harvester must be to its destination to
// be considered "arrived" (spec.md §4.8's "arrival at node's harvest
// cell" / "arrival at refinery's docking cell").
const arrivalEps = gridmap.CellSize * 0.5

// System drives every entity with a Harvester component each tick.
// Resource nodes and refineries are few relative to unit counts, so
// nearest-selection here is a direct scan of their component stores
// rather than a spatial-index query (selection and movement, which
// deal with hundreds of units, are where the quadtree earns its keep;
// see DESIGN.md).
type System struct {
	world *ecs.World
	queue *events.Queue
}

// NewSystem creates the harvester/economy system over world, emitting
// ResourceNodeDepleted and EconomyChanged onto queue.
func NewSystem(world *ecs.World, queue *events.Queue) *System {
	return &System{world: world, queue: queue}
}

func (s *System) Name() string { return "economy" }

// Priority places the economy FSM after movement, which has both
// settled positions and synced the spatial index for the tick.
func (s *System) Priority() int { return 40 }

func (s *System) Update(w *ecs.World, dt float64) {
	for _, e := range w.Harvesters.All() {
		h := w.Harvesters.MustGet(e)
		switch h.State {
		case ecs.HarvesterIdle:
			s.tickIdle(e, h)
		case ecs.HarvesterSeekingResource:
			s.tickSeeking(e, h)
		case ecs.HarvesterHarvesting:
			s.tickHarvesting(e, h, dt)
		case ecs.HarvesterReturning:
			s.tickReturning(e, h)
		case ecs.HarvesterUnloading:
			s.tickUnloading(e, h, dt)
		}
	}
}

func (s *System) tickIdle(e ecs.Entity, h *ecs.Harvester) {
	node, ok := s.nearestNode(e)
	if !ok {
		return // remain Idle (spec.md §4.8 "if none: remain Idle")
	}
	h.TargetNode = node
	h.State = ecs.HarvesterSeekingResource
	s.moveTo(e, node)
}

func (s *System) tickSeeking(e ecs.Entity, h *ecs.Harvester) {
	if !s.world.Alive(h.TargetNode) || s.world.ResourceNode.MustGet(h.TargetNode).Depleted {
		h.State = ecs.HarvesterIdle
		h.TargetNode = ecs.Invalid
		return
	}
	if !s.arrived(e, h.TargetNode) {
		return
	}
	h.State = ecs.HarvesterHarvesting
	h.HarvestTimer = 0
}

func (s *System) tickHarvesting(e ecs.Entity, h *ecs.Harvester, dt float64) {
	if !s.world.Alive(h.TargetNode) {
		h.State = ecs.HarvesterReturning
		return
	}
	node := s.world.ResourceNode.MustGet(h.TargetNode)
	if node.Depleted || h.Load >= h.Capacity {
		s.beginReturn(e, h)
		return
	}

	h.HarvestTimer += dt
	if h.HarvestTimer < HarvestInterval {
		return
	}
	h.HarvestTimer -= HarvestInterval

	bail := node.PerBail
	if bail > node.Remaining {
		bail = node.Remaining
	}
	if bail > h.Capacity-h.Load {
		bail = h.Capacity - h.Load
	}
	if bail <= 0 {
		s.beginReturn(e, h)
		return
	}
	node.Remaining -= bail
	h.Load += bail
	if node.Remaining <= 0 {
		node.Depleted = true
		s.emit(events.Event{Type: events.ResourceNodeDepleted, Payload: events.ResourceNodeDepletedPayload{Node: h.TargetNode.Raw()}})
	}
	if node.Depleted || h.Load >= h.Capacity {
		s.beginReturn(e, h)
	}
}

func (s *System) beginReturn(e ecs.Entity, h *ecs.Harvester) {
	refinery, ok := s.nearestRefinery(e)
	if !ok {
		return // no refinery available yet; keep accumulating state, retry next tick
	}
	h.HomeRefinery = refinery
	h.State = ecs.HarvesterReturning
	s.moveTo(e, refinery)
}

func (s *System) tickReturning(e ecs.Entity, h *ecs.Harvester) {
	if !s.world.Alive(h.HomeRefinery) {
		refinery, ok := s.nearestRefinery(e)
		if !ok {
			return
		}
		h.HomeRefinery = refinery
		s.moveTo(e, refinery)
		return
	}
	if !s.arrived(e, h.HomeRefinery) {
		return
	}
	h.State = ecs.HarvesterUnloading
	h.UnloadTimer = 0
}

func (s *System) tickUnloading(e ecs.Entity, h *ecs.Harvester, dt float64) {
	if h.Load <= 0 {
		h.State = ecs.HarvesterSeekingResource
		h.TargetNode = ecs.Invalid
		return
	}
	h.UnloadTimer += dt
	if h.UnloadTimer < UnloadInterval {
		return
	}
	h.UnloadTimer -= UnloadInterval

	sel := s.world.Selectables
	teamID := uint8(0)
	if sel.Has(e) {
		teamID = sel.MustGet(e).TeamID
	}
	econ := s.world.Economy(teamID)

	bail := DefaultPerBail
	if bail > h.Load {
		bail = h.Load
	}
	h.Load -= bail
	econ.Credits += bail // "never negative": bail is always >= 0 by construction
	econ.TotalEarned += bail
	s.emit(events.Event{Type: events.EconomyChanged, Payload: events.EconomyChangedPayload{TeamID: teamID, Credits: econ.Credits}})

	if h.Load <= 0 {
		h.State = ecs.HarvesterSeekingResource
		h.TargetNode = ecs.Invalid
	}
}

// nearestNode finds the nearest non-depleted resource node to e,
// breaking ties on equal distance by lower entity id (spec.md §4.8).
func (s *System) nearestNode(e ecs.Entity) (ecs.Entity, bool) {
	origin := s.world.Transforms.MustGet(e)
	var best ecs.Entity
	bestDist := math.Inf(1)
	found := false
	for _, n := range s.world.ResourceNode.All() {
		node := s.world.ResourceNode.MustGet(n)
		if node.Depleted || !s.world.Transforms.Has(n) {
			continue
		}
		t := s.world.Transforms.MustGet(n)
		d := distSq(origin.X, origin.Y, t.X, t.Y)
		if d < bestDist || (d == bestDist && n < best) {
			bestDist = d
			best = n
			found = true
		}
	}
	return best, found
}

// nearestRefinery finds the nearest same-team refinery to e, with the
// same tie-break rule as nearestNode.
func (s *System) nearestRefinery(e ecs.Entity) (ecs.Entity, bool) {
	teamID := uint8(0)
	if s.world.Selectables.Has(e) {
		teamID = s.world.Selectables.MustGet(e).TeamID
	}
	origin := s.world.Transforms.MustGet(e)
	var best ecs.Entity
	bestDist := math.Inf(1)
	found := false
	for _, r := range s.world.Refineries.All() {
		ref := s.world.Refineries.MustGet(r)
		if ref.TeamID != teamID || !s.world.Transforms.Has(r) {
			continue
		}
		t := s.world.Transforms.MustGet(r)
		d := distSq(origin.X, origin.Y, t.X, t.Y)
		if d < bestDist || (d == bestDist && r < best) {
			bestDist = d
			best = r
			found = true
		}
	}
	return best, found
}

func (s *System) arrived(e, target ecs.Entity) bool {
	a := s.world.Transforms.MustGet(e)
	b := s.world.Transforms.MustGet(target)
	return distSq(a.X, a.Y, b.X, b.Y) <= arrivalEps*arrivalEps
}

// moveTo hands a destination to the movement system via the same
// Commandable queue the command subsystem writes to (spec.md §4.7);
// the harvester FSM is itself a command-issuing actor, just one
// internal to the simulation rather than driven by player input.
func (s *System) moveTo(e ecs.Entity, target ecs.Entity) {
	if !s.world.Commandables.Has(e) {
		return
	}
	t := s.world.Transforms.MustGet(target)
	c := s.world.Commandables.MustGet(e)
	c.Clear()
	c.Push(ecs.Intent{Kind: ecs.IntentMove, TargetX: t.X, TargetY: t.Y, TargetID: target})
}

func (s *System) emit(ev events.Event) {
	if s.queue != nil {
		s.queue.Push(ev)
	}
}

func distSq(ax, ay, bx, by float64) float64 {
	dx := ax - bx
	dy := ay - by
	return dx*dx + dy*dy
}
