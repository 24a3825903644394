// Package command translates UI-level intents into Commandable queue
// entries on selected entities (spec.md §4.7): issue_move,
// issue_attack, issue_harvest, issue_stop, issue_hold, issue_patrol,
// with override-vs-queue semantics governed by a modifier and a
// CommandIssued event per call.
package command

import (
	"github.com/lixenwraith/rts-core/ecs"
	"github.com/lixenwraith/rts-core/events"
)

// QueueMode decides whether a new intent replaces a Commandable's
// queue or is appended to it (spec.md §4.7: "shift queues").
type QueueMode uint8

const (
	// Override clears the entity's queue before pushing the new intent.
	Override QueueMode = iota
	// Append queues the new intent behind whatever is already pending.
	Append
)

// Issuer routes intents onto entities' Commandable queues and emits
// CommandIssued.
type Issuer struct {
	world *ecs.World
	queue *events.Queue
}

// NewIssuer creates a command issuer over world, emitting onto queue.
func NewIssuer(world *ecs.World, queue *events.Queue) *Issuer {
	return &Issuer{world: world, queue: queue}
}

func (i *Issuer) route(kind string, selection []ecs.Entity, mode QueueMode, build func(e ecs.Entity) (ecs.Intent, bool)) {
	var routed []uint64
	for _, e := range selection {
		if !i.world.Alive(e) || !i.world.Commandables.Has(e) {
			continue
		}
		intent, ok := build(e)
		if !ok {
			continue
		}
		c := i.world.Commandables.MustGet(e)
		if mode == Override {
			c.Clear()
		}
		c.Push(intent)
		routed = append(routed, e.Raw())
	}
	if len(routed) == 0 {
		return
	}
	i.queue.Push(events.Event{
		Type:    events.CommandIssued,
		Payload: events.CommandIssuedPayload{Kind: kind, Entities: routed},
	})
}

// IssueMove enqueues a Move intent toward worldX, worldY for every
// entity in selection. Path computation itself is the movement
// system's responsibility (spec.md §4.7); the intent just carries the
// destination.
func (i *Issuer) IssueMove(selection []ecs.Entity, worldX, worldY float64, mode QueueMode) {
	i.route("move", selection, mode, func(e ecs.Entity) (ecs.Intent, bool) {
		return ecs.Intent{Kind: ecs.IntentMove, TargetX: worldX, TargetY: worldY}, true
	})
}

// IssueAttack enqueues an Attack intent against target for every
// eligible entity in selection.
func (i *Issuer) IssueAttack(selection []ecs.Entity, target ecs.Entity, mode QueueMode) {
	i.route("attack", selection, mode, func(e ecs.Entity) (ecs.Intent, bool) {
		if !i.world.Healths.Has(target) {
			return ecs.Intent{}, false
		}
		return ecs.Intent{Kind: ecs.IntentAttack, TargetID: target}, true
	})
}

// IssueHarvest enqueues a Harvest intent against node for every
// harvester-capable entity in selection (spec.md §4.7 "mixed roles
// fan out": only entities with a Harvester component act).
func (i *Issuer) IssueHarvest(selection []ecs.Entity, node ecs.Entity, mode QueueMode) {
	i.route("harvest", selection, mode, func(e ecs.Entity) (ecs.Intent, bool) {
		if !i.world.Harvesters.Has(e) || !i.world.ResourceNode.Has(node) {
			return ecs.Intent{}, false
		}
		return ecs.Intent{Kind: ecs.IntentHarvest, TargetID: node}, true
	})
}

// IssueStop clears every selected entity's queue and appends a Stop
// intent, cancelling any outstanding pathfinder request (spec.md §4.7).
func (i *Issuer) IssueStop(selection []ecs.Entity) {
	i.route("stop", selection, Override, func(e ecs.Entity) (ecs.Intent, bool) {
		return ecs.Intent{Kind: ecs.IntentStop}, true
	})
}

// IssueHold enqueues a Hold intent. The movement system pops and
// discards Hold intents; no system gives them stand-ground or
// engage-in-range behavior.
func (i *Issuer) IssueHold(selection []ecs.Entity, mode QueueMode) {
	i.route("hold", selection, mode, func(e ecs.Entity) (ecs.Intent, bool) {
		return ecs.Intent{Kind: ecs.IntentHold}, true
	})
}

// IssuePatrol enqueues a Patrol intent between a and b.
func (i *Issuer) IssuePatrol(selection []ecs.Entity, a, b [2]float64, mode QueueMode) {
	i.route("patrol", selection, mode, func(e ecs.Entity) (ecs.Intent, bool) {
		return ecs.Intent{Kind: ecs.IntentPatrol, PatrolB: b, TargetX: a[0], TargetY: a[1]}, true
	})
}
