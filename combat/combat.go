// Package combat resolves queued Attack intents into damage against a
// target's Health (spec.md §4.7 "issue_attack"), closing distance via
// the same Commandable channel the command subsystem and economy FSM
// use for movement.
package combat

import (
	"math"
	"sort"

	"github.com/lixenwraith/rts-core/building"
	"github.com/lixenwraith/rts-core/ecs"
	"github.com/lixenwraith/rts-core/events"
	"github.com/lixenwraith/rts-core/gridmap"
)

// DefaultRange and DefaultCooldown are the "authentic" weapon defaults
// used when an Attacker component doesn't override them.
const (
	DefaultRange    = gridmap.CellSize * 1.5
	DefaultCooldown = 1.0
)

// System drives every entity with an Attacker component each tick.
type System struct {
	world *ecs.World
	grid  *gridmap.Grid
	queue *events.Queue
}

// NewSystem creates the combat system over world/grid, emitting
// BuildingDestroyed (via the building package) onto queue when a
// destroyed target held a footprint.
func NewSystem(world *ecs.World, grid *gridmap.Grid, queue *events.Queue) *System {
	return &System{world: world, grid: grid, queue: queue}
}

func (s *System) Name() string { return "combat" }

// Priority runs after movement has settled positions for the tick but
// before the economy FSM (Priority 40). A target killed here is only
// marked for destruction: it stays alive, and visible to economy,
// until World.Reap runs after every system this tick.
func (s *System) Priority() int { return 35 }

func (s *System) Update(w *ecs.World, dt float64) {
	entities := w.Attackers.All()
	sort.Slice(entities, func(i, j int) bool { return entities[i] < entities[j] })

	for _, e := range entities {
		if !w.Alive(e) {
			continue
		}
		a := w.Attackers.MustGet(e)
		if a.Target == ecs.Invalid || !w.Alive(a.Target) || !w.Healths.Has(a.Target) {
			a.Target = ecs.Invalid
			continue
		}
		s.resolve(e, a, dt)
	}
}

// resolve closes distance to a.Target if out of range, or ticks the
// attack cooldown and applies damage once in range. A target whose HP
// reaches zero is destroyed, restoring its footprint first if it held
// one (spec.md §4.4's building-destruction symmetry).
func (s *System) resolve(e ecs.Entity, a *ecs.Attacker, dt float64) {
	if !s.world.Transforms.Has(e) || !s.world.Transforms.Has(a.Target) {
		return
	}
	origin := s.world.Transforms.MustGet(e)
	target := s.world.Transforms.MustGet(a.Target)
	dist := math.Hypot(target.X-origin.X, target.Y-origin.Y)

	attackRange := a.Range
	if attackRange <= 0 {
		attackRange = DefaultRange
	}

	if dist > attackRange {
		s.moveToward(e, target.X, target.Y)
		return
	}
	s.stopMoving(e)

	a.CooldownTimer -= dt
	if a.CooldownTimer > 0 {
		return
	}
	cooldown := a.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	a.CooldownTimer = cooldown

	damage := a.Damage
	if damage <= 0 {
		return
	}
	hp := s.world.Healths.MustGet(a.Target)
	hp.HP -= damage
	if hp.HP > 0 {
		return
	}
	hp.HP = 0
	s.killTarget(a.Target)
	a.Target = ecs.Invalid
}

// moveToward hands the attacker a Move intent toward (x, y) via the
// Commandable queue, the same channel the command subsystem and
// economy FSM use to drive movement, so the movement system closes
// the distance without combat owning any steering of its own.
func (s *System) moveToward(e ecs.Entity, x, y float64) {
	if !s.world.Commandables.Has(e) {
		return
	}
	c := s.world.Commandables.MustGet(e)
	c.Clear()
	c.Push(ecs.Intent{Kind: ecs.IntentMove, TargetX: x, TargetY: y})
}

// stopMoving cancels any in-flight path once the attacker is in range,
// so it holds position while exchanging fire.
func (s *System) stopMoving(e ecs.Entity) {
	if !s.world.PathFollows.Has(e) {
		return
	}
	pf := s.world.PathFollows.MustGet(e)
	*pf = ecs.PathFollower{}
}

func (s *System) killTarget(e ecs.Entity) {
	if s.world.Buildings.Has(e) && s.grid != nil {
		building.Destroy(s.world, s.grid, s.queue, e)
	}
	s.world.DestroyEntity(e)
}
